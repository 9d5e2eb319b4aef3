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

package corpusdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/rs/zerolog/log"
)

const entryBatchSize = 500

//nolint:gocritic // struct passed for DB insertion
func sqlUpsertEntry(ctx context.Context, db *sql.DB, corpusSlug string, entry database.Entry) error {
	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO Entries (CorpusDBID, Key, Value, FoldedLen, TokenCount, Created, Updated)
		VALUES ((select DBID from Corpora where Slug = ?), ?, ?, ?, ?, ?, ?)
		ON CONFLICT(CorpusDBID, Key) DO UPDATE SET
			Value = excluded.Value,
			FoldedLen = excluded.FoldedLen,
			TokenCount = excluded.TokenCount,
			Updated = excluded.Updated;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry upsert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()
	now := time.Now().Unix()
	_, err = stmt.ExecContext(ctx,
		corpusSlug,
		entry.Key,
		entry.Value,
		entry.FoldedLen,
		entry.TokenCount,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to execute entry upsert: %w", err)
	}
	return nil
}

func sqlDeleteEntry(ctx context.Context, db *sql.DB, corpusSlug, key string) error {
	stmt, err := db.PrepareContext(ctx, `
		delete from Entries
		where CorpusDBID = (select DBID from Corpora where Slug = ?)
		and Key = ?;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry delete statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()
	_, err = stmt.ExecContext(ctx, corpusSlug, key)
	if err != nil {
		return fmt.Errorf("failed to execute entry delete: %w", err)
	}
	return nil
}

func sqlScanEntryRows(rows *sql.Rows) ([]database.Entry, error) {
	list := make([]database.Entry, 0)
	for rows.Next() {
		row := database.Entry{}
		var created, updated int64
		scanErr := rows.Scan(
			&row.DBID,
			&row.CorpusDBID,
			&row.Key,
			&row.Value,
			&row.FoldedLen,
			&row.TokenCount,
			&created,
			&updated,
		)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan entry row: %w", scanErr)
		}
		row.Created = time.Unix(created, 0)
		row.Updated = time.Unix(updated, 0)
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating entry rows: %w", err)
	}
	return list, nil
}

// sqlGetEntries returns a corpus's entries ordered by key, so callers that
// number candidates get a stable order between runs.
func sqlGetEntries(ctx context.Context, db *sql.DB, corpusSlug string) ([]database.Entry, error) {
	q, err := db.PrepareContext(ctx, `
		select
		Entries.DBID, Entries.CorpusDBID, Entries.Key, Entries.Value,
		Entries.FoldedLen, Entries.TokenCount, Entries.Created, Entries.Updated
		from Entries
		inner join Corpora on Entries.CorpusDBID = Corpora.DBID
		where Corpora.Slug = ?
		order by Entries.Key;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare entries query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx, corpusSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()
	return sqlScanEntryRows(rows)
}

func sqlGetEntriesInLengthRange(
	ctx context.Context, db *sql.DB, corpusSlug string, minLen, maxLen int,
) ([]database.Entry, error) {
	q, err := db.PrepareContext(ctx, `
		select
		Entries.DBID, Entries.CorpusDBID, Entries.Key, Entries.Value,
		Entries.FoldedLen, Entries.TokenCount, Entries.Created, Entries.Updated
		from Entries
		inner join Corpora on Entries.CorpusDBID = Corpora.DBID
		where Corpora.Slug = ?
		and Entries.FoldedLen between ? and ?
		order by Entries.Key;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare length range query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx, corpusSlug, minLen, maxLen)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries in length range: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()
	return sqlScanEntryRows(rows)
}

func sqlCountEntries(ctx context.Context, db *sql.DB, corpusSlug string) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, `
		select count(*)
		from Entries
		inner join Corpora on Entries.CorpusDBID = Corpora.DBID
		where Corpora.Slug = ?;
	`, corpusSlug).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count corpus entries: %w", err)
	}
	return count, nil
}

func sqlCountAllEntries(ctx context.Context, db *sql.DB) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, `select count(*) from Entries;`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

// sqlReplaceCorpusEntries swaps a corpus's full entry set inside a single
// transaction. The corpus row is created on first load and touched on every
// reload. Callers must deduplicate entry keys beforehand; a duplicate would
// trip the unique (CorpusDBID, Key) index.
//
//nolint:gocritic // struct passed for DB insertion
func sqlReplaceCorpusEntries(
	ctx context.Context, db *sql.DB, corpus database.Corpus, entries []database.Entry,
) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin entry replace transaction: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Warn().Err(rbErr).Msg("failed to roll back entry replace transaction")
		}
	}()

	now := time.Now().Unix()

	var corpusID int64
	err = tx.QueryRowContext(ctx,
		`select DBID from Corpora where Slug = ?;`, corpus.Slug,
	).Scan(&corpusID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, insErr := tx.ExecContext(ctx,
			`insert into Corpora (Name, Slug, Created, Updated) values (?, ?, ?, ?);`,
			corpus.Name, corpus.Slug, now, now,
		)
		if insErr != nil {
			return 0, fmt.Errorf("failed to insert corpus row: %w", insErr)
		}
		corpusID, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to get corpus insert id: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("failed to find corpus row: %w", err)
	default:
		_, err = tx.ExecContext(ctx,
			`update Corpora set Name = ?, Updated = ? where DBID = ?;`,
			corpus.Name, now, corpusID,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to touch corpus row: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `delete from Entries where CorpusDBID = ?;`, corpusID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear corpus entries: %w", err)
	}

	inserter, err := NewBatchInserter(ctx, tx, "Entries",
		[]string{"CorpusDBID", "Key", "Value", "FoldedLen", "TokenCount", "Created", "Updated"},
		entryBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to create entry batch inserter: %w", err)
	}
	for i := range entries {
		addErr := inserter.Add(
			corpusID,
			entries[i].Key,
			entries[i].Value,
			entries[i].FoldedLen,
			entries[i].TokenCount,
			now,
			now,
		)
		if addErr != nil {
			return 0, fmt.Errorf("failed to buffer entry insert: %w", addErr)
		}
	}
	if err := inserter.Close(); err != nil {
		return 0, fmt.Errorf("failed to flush entry inserts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit entry replace transaction: %w", err)
	}
	committed = true
	return inserter.Inserted(), nil
}
