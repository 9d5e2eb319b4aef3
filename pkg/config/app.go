package config

import "time"

var AppVersion = "DEVELOPMENT"

const (
	AppName           = "fuzzdex"
	UserDir           = "user"
	SeedsDir          = "seeds"
	CorpusDBFile      = "corpus.db"
	LegacyDBFile      = "corpus.bdb"
	LogFile           = "fuzzdex.log"
	PidFile           = "fuzzdex.pid"
	CfgFile           = "config.toml"
	AuthFile          = "auth.toml"
	APIRequestTimeout = 30 * time.Second
)
