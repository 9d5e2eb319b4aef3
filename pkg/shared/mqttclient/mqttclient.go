// FuzzDex Core
// Copyright (c) 2026 The FuzzDex Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of FuzzDex Core.
//
// FuzzDex Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// FuzzDex Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with FuzzDex Core.  If not, see <http://www.gnu.org/licenses/>.

// Package mqttclient builds configured MQTT clients for the ingest bridge
// and the notification publishers.
package mqttclient

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/config"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ClientFactory builds an MQTT client from options. Tests swap in a fake.
type ClientFactory func(opts *mqtt.ClientOptions) mqtt.Client

// DefaultClientFactory creates a real paho client.
func DefaultClientFactory(opts *mqtt.ClientOptions) mqtt.Client {
	return mqtt.NewClient(opts)
}

// ParsePath splits an MQTT connection path in the format "broker:port/topic"
// into the broker address and topic.
//
// Examples:
//   - "localhost:1883/fuzzdex/entries" -> ("localhost:1883", "fuzzdex/entries")
//   - "mqtt.example.com:8883/home/fuzzdex" -> ("mqtt.example.com:8883", "home/fuzzdex")
func ParsePath(path string) (broker, topic string, err error) {
	if path == "" {
		return "", "", errors.New("path cannot be empty")
	}

	// Add mqtt:// scheme if not present for URL parsing
	urlStr := path
	if !strings.HasPrefix(path, "mqtt://") && !strings.HasPrefix(path, "mqtts://") {
		urlStr = "mqtt://" + path
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse MQTT URL: %w", err)
	}

	if u.Host == "" {
		return "", "", errors.New("broker address (host:port) is required")
	}

	broker = u.Host

	topic = strings.TrimLeft(u.Path, "/")
	if topic == "" {
		return "", "", errors.New("topic is required")
	}

	return broker, topic, nil
}

// ProtocolInfo is the transport detail parsed out of a broker URL.
type ProtocolInfo struct {
	Protocol  string
	Scheme    string
	Remainder string
	UseTLS    bool
}

// ParseProtocol extracts transport information from an MQTT URL string.
//
// Examples:
//   - "mqtts://broker:8883" -> {Protocol: "ssl", UseTLS: true, Scheme: "mqtts", Remainder: "broker:8883"}
//   - "mqtt://broker:1883" -> {Protocol: "tcp", UseTLS: false, Scheme: "mqtt", Remainder: "broker:1883"}
//   - "broker:1883" -> {Protocol: "tcp", UseTLS: false, Scheme: "", Remainder: "broker:1883"}
func ParseProtocol(urlStr string) ProtocolInfo {
	info := ProtocolInfo{
		Protocol:  "tcp",
		UseTLS:    false,
		Scheme:    "",
		Remainder: urlStr,
	}

	if strings.Contains(urlStr, "://") {
		parts := strings.SplitN(urlStr, "://", 2)
		info.Scheme = parts[0]
		info.Remainder = parts[1]

		if info.Scheme == "mqtts" || info.Scheme == "ssl" {
			info.Protocol = "ssl"
			info.UseTLS = true
		}
	}

	return info
}

// NewClientOptions configures paho client options for a broker URL. The
// clientIDPrefix gets a random suffix so multiple connections from one
// host do not evict each other. Credentials come from auth.toml.
func NewClientOptions(brokerURL, clientIDPrefix string) *mqtt.ClientOptions {
	protocolInfo := ParseProtocol(brokerURL)
	fullBrokerURL := fmt.Sprintf("%s://%s", protocolInfo.Protocol, protocolInfo.Remainder)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fullBrokerURL)
	opts.SetClientID(clientIDPrefix + uuid.New().String()[:8])
	opts.SetAutoReconnect(true)  // reconnect if the connection drops after initial success
	opts.SetConnectRetry(false)  // caller owns the initial connect timeout
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetOrderMatters(false) // allow blocking in message handlers

	creds := config.LookupAuth(config.GetAuthCfg(), brokerURL)
	if creds != nil && creds.Username != "" {
		opts.SetUsername(creds.Username)
		opts.SetPassword(creds.Password)
		log.Debug().Msgf("mqtt: using authentication for %s", protocolInfo.Remainder)
	}

	if protocolInfo.UseTLS {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: false,
			MinVersion:         tls.VersionTLS12,
		}
		opts.SetTLSConfig(tlsConfig)
		log.Debug().Msgf("mqtt: using TLS for %s", protocolInfo.Remainder)
	}

	return opts
}
