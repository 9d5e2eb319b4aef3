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
	"embed"
	"fmt"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/rs/zerolog/log"
)

// Queries go here to keep the interface clean

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run corpus database migrations: %w", err)
	}
	return nil
}

func sqlAllocate(db *sql.DB) error {
	return sqlMigrateUp(db)
}

//goland:noinspection SqlWithoutWhere
func sqlTruncate(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	delete from Entries;
	delete from Corpora;
	delete from SearchHistory;
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to truncate database: %w", err)
	}
	return nil
}

func sqlVacuum(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

//nolint:gocritic // struct passed for DB lookup
func sqlFindCorpus(ctx context.Context, db *sql.DB, corpus database.Corpus) (database.Corpus, error) {
	var row database.Corpus
	q, err := db.PrepareContext(ctx, `
		select
		DBID, Name, Slug, Created, Updated
		from Corpora
		where DBID = ?
		or Slug = ?
		limit 1;
	`)
	if err != nil {
		return row, fmt.Errorf("failed to prepare corpus select statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()
	var created, updated int64
	err = q.QueryRowContext(ctx, corpus.DBID, corpus.Slug).Scan(
		&row.DBID,
		&row.Name,
		&row.Slug,
		&created,
		&updated,
	)
	if err != nil {
		return row, fmt.Errorf("failed to scan corpus row: %w", err)
	}
	row.Created = time.Unix(created, 0)
	row.Updated = time.Unix(updated, 0)
	return row, nil
}

//nolint:gocritic // struct passed for DB insertion
func sqlInsertCorpus(ctx context.Context, db *sql.DB, corpus database.Corpus) (database.Corpus, error) {
	stmt, err := db.PrepareContext(ctx, `
		insert into Corpora(
			Name, Slug, Created, Updated
		) values (?, ?, ?, ?);
	`)
	if err != nil {
		return corpus, fmt.Errorf("failed to prepare corpus insert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()
	now := time.Now()
	res, err := stmt.ExecContext(ctx,
		corpus.Name,
		corpus.Slug,
		now.Unix(),
		now.Unix(),
	)
	if err != nil {
		return corpus, fmt.Errorf("failed to execute corpus insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return corpus, fmt.Errorf("failed to get corpus insert id: %w", err)
	}
	corpus.DBID = id
	corpus.Created = now
	corpus.Updated = now
	return corpus, nil
}

func sqlGetCorpus(ctx context.Context, db *sql.DB, slug string) (database.Corpus, error) {
	var row database.Corpus
	var created, updated int64
	err := db.QueryRowContext(ctx, `
		select
		DBID, Name, Slug, Created, Updated
		from Corpora
		where Slug = ?;
	`, slug).Scan(
		&row.DBID,
		&row.Name,
		&row.Slug,
		&created,
		&updated,
	)
	if err != nil {
		return row, fmt.Errorf("failed to scan corpus row: %w", err)
	}
	row.Created = time.Unix(created, 0)
	row.Updated = time.Unix(updated, 0)
	return row, nil
}

func sqlListCorpora(ctx context.Context, db *sql.DB) ([]database.Corpus, error) {
	list := make([]database.Corpus, 0)

	q, err := db.PrepareContext(ctx, `
		select
		DBID, Name, Slug, Created, Updated
		from Corpora
		order by Name;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare corpora list statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return list, fmt.Errorf("failed to query corpora: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()
	for rows.Next() {
		row := database.Corpus{}
		var created, updated int64
		scanErr := rows.Scan(
			&row.DBID,
			&row.Name,
			&row.Slug,
			&created,
			&updated,
		)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan corpus row: %w", scanErr)
		}
		row.Created = time.Unix(created, 0)
		row.Updated = time.Unix(updated, 0)
		list = append(list, row)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating corpus rows: %w", err)
	}
	return list, nil
}

// Entry rows cascade via the Corpora foreign key.
func sqlDeleteCorpus(ctx context.Context, db *sql.DB, slug string) error {
	stmt, err := db.PrepareContext(ctx, `
		delete from Corpora where Slug = ?;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare corpus delete statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()
	_, err = stmt.ExecContext(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to execute corpus delete: %w", err)
	}
	return nil
}
