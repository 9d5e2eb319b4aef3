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
	"fmt"
	"time"

	"github.com/FuzzDexProject/fuzzdex-core/pkg/database"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // struct passed for DB insertion
func sqlAddSearchEvent(ctx context.Context, db *sql.DB, event database.SearchEvent) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into SearchHistory(
			Time, Query, Corpus, Scorer, Hits, TookMS
		) values (?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare search event insert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()
	_, err = stmt.ExecContext(ctx,
		event.Time.Unix(),
		event.Query,
		event.Corpus,
		event.Scorer,
		event.Hits,
		event.TookMS,
	)
	if err != nil {
		return fmt.Errorf("failed to execute search event insert: %w", err)
	}
	return nil
}

func sqlGetSearchHistory(ctx context.Context, db *sql.DB, lastID int) ([]database.SearchEvent, error) {
	list := make([]database.SearchEvent, 0, 25)
	// Token-based pagination instead of offset
	if lastID == 0 {
		lastID = 2147483646
	}

	q, err := db.PrepareContext(ctx, `
		select
		DBID, Time, Query, Corpus, Scorer, Hits, TookMS
		from SearchHistory
		where DBID < ?
		order by DBID DESC
		limit 25;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare search history query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx, lastID)
	if err != nil {
		return list, fmt.Errorf("failed to query search history: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()
	for rows.Next() {
		row := database.SearchEvent{}
		var timeInt int64
		scanErr := rows.Scan(
			&row.DBID,
			&timeInt,
			&row.Query,
			&row.Corpus,
			&row.Scorer,
			&row.Hits,
			&row.TookMS,
		)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan search event row: %w", scanErr)
		}
		row.Time = time.Unix(timeInt, 0)
		list = append(list, row)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating search event rows: %w", err)
	}
	return list, nil
}

// sqlCleanupSearchHistory caps the history table to the newest keep rows.
func sqlCleanupSearchHistory(ctx context.Context, db *sql.DB, keep int) (int64, error) {
	stmt, err := db.PrepareContext(ctx, `
		DELETE FROM SearchHistory WHERE DBID NOT IN (
			SELECT DBID FROM SearchHistory ORDER BY DBID DESC LIMIT ?
		);
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare history cleanup statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	result, err := stmt.ExecContext(ctx, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to execute history cleanup: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	// Vacuum to reclaim disk space after cleanup
	if rowsAffected > 0 {
		if err := sqlVacuum(ctx, db); err != nil {
			return rowsAffected, fmt.Errorf("cleanup succeeded but vacuum failed: %w", err)
		}
	}

	return rowsAffected, nil
}
