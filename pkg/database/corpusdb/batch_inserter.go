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
	"strings"

	"github.com/rs/zerolog/log"
)

// BatchInserter buffers rows for a table and writes them in multi-row
// INSERT statements inside an existing transaction. Seed loads push tens of
// thousands of entries through here.
type BatchInserter struct {
	ctx          context.Context
	tx           *sql.Tx
	tableName    string
	columns      []string
	buffer       []any
	batchSize    int
	columnCount  int
	currentCount int
	inserted     int64
}

// NewBatchInserter creates a batch inserter for the given table.
func NewBatchInserter(
	ctx context.Context,
	tx *sql.Tx,
	tableName string,
	columns []string,
	batchSize int,
) (*BatchInserter, error) {
	if tx == nil {
		return nil, errors.New("transaction is nil")
	}
	if tableName == "" {
		return nil, errors.New("table name is empty")
	}
	if len(columns) == 0 {
		return nil, errors.New("columns list is empty")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	return &BatchInserter{
		ctx:          ctx,
		tx:           tx,
		tableName:    tableName,
		columns:      columns,
		batchSize:    batchSize,
		columnCount:  len(columns),
		buffer:       make([]any, 0, batchSize*len(columns)),
		currentCount: 0,
		inserted:     0,
	}, nil
}

// Add appends a row to the current batch, flushing automatically once the
// batch size is reached.
func (b *BatchInserter) Add(values ...any) error {
	if len(values) != b.columnCount {
		return fmt.Errorf(
			"expected %d values for columns %v, got %d",
			b.columnCount,
			b.columns,
			len(values),
		)
	}

	b.buffer = append(b.buffer, values...)
	b.currentCount++
	if b.currentCount >= b.batchSize {
		return b.Flush()
	}
	return nil
}

// Inserted returns the number of rows written so far.
func (b *BatchInserter) Inserted() int64 {
	return b.inserted
}

// Flush executes the current batch and resets the buffer.
func (b *BatchInserter) Flush() error {
	if b.currentCount == 0 {
		return nil // Nothing to flush
	}

	sqlStmt := b.generateMultiRowInsertSQL(b.currentCount)
	stmt, err := b.tx.PrepareContext(b.ctx, sqlStmt)
	if err != nil {
		// Exceeding SQLite's SQLITE_MAX_VARIABLE_NUMBER limit surfaces at
		// prepare time
		if strings.Contains(err.Error(), "too many SQL variables") {
			log.Debug().
				Str("table", b.tableName).
				Int("row_count", b.currentCount).
				Int("total_variables", b.currentCount*b.columnCount).
				Msg("batch exceeds SQLite variable limit, auto-chunking")
			return b.flushChunked()
		}
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close batch insert statement")
		}
	}()

	_, err = stmt.ExecContext(b.ctx, b.buffer[:b.currentCount*b.columnCount]...)
	if err != nil {
		// Log the error and fall back to single-row inserts for this batch
		log.Error().Err(err).
			Str("table", b.tableName).
			Int("row_count", b.currentCount).
			Msg("batch insert failed, falling back to single-row inserts")
		return b.flushSingleRow()
	}

	b.inserted += int64(b.currentCount)
	b.buffer = b.buffer[:0]
	b.currentCount = 0
	return nil
}

// flushChunked splits the batch into smaller chunks when the SQLite
// variable limit is exceeded.
func (b *BatchInserter) flushChunked() error {
	// SQLite's default SQLITE_MAX_VARIABLE_NUMBER is 32766; 32000 leaves a
	// safety margin
	const maxSQLiteVars = 32000

	maxRowsPerChunk := maxSQLiteVars / b.columnCount
	if maxRowsPerChunk == 0 {
		return b.flushSingleRow()
	}

	rowsRemaining := b.currentCount
	bufferOffset := 0

	for rowsRemaining > 0 {
		chunkSize := rowsRemaining
		if chunkSize > maxRowsPerChunk {
			chunkSize = maxRowsPerChunk
		}

		chunkStart := bufferOffset
		chunkEnd := bufferOffset + (chunkSize * b.columnCount)
		chunkBuffer := b.buffer[chunkStart:chunkEnd]

		if err := b.executeChunk(chunkSize, chunkBuffer); err != nil {
			return err
		}

		log.Debug().
			Str("table", b.tableName).
			Int("chunk_size", chunkSize).
			Int("remaining", rowsRemaining-chunkSize).
			Msg("flushed batch chunk")

		rowsRemaining -= chunkSize
		bufferOffset = chunkEnd
	}

	b.buffer = b.buffer[:0]
	b.currentCount = 0
	return nil
}

// executeChunk executes a single chunk of the batch insert.
func (b *BatchInserter) executeChunk(chunkSize int, chunkBuffer []any) error {
	sqlStmt := b.generateMultiRowInsertSQL(chunkSize)
	stmt, err := b.tx.PrepareContext(b.ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to prepare chunked batch insert: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close chunked batch statement")
		}
	}()

	_, execErr := stmt.ExecContext(b.ctx, chunkBuffer...)
	if execErr != nil {
		log.Error().Err(execErr).
			Str("table", b.tableName).
			Int("chunk_size", chunkSize).
			Msg("chunked batch insert failed")
		return fmt.Errorf("failed to execute chunked batch: %w", execErr)
	}

	b.inserted += int64(chunkSize)
	return nil
}

// flushSingleRow falls back to inserting each row individually, skipping
// rows that fail so one bad row cannot sink the rest of the batch.
func (b *BatchInserter) flushSingleRow() error {
	singleRowSQL := b.generateSingleRowInsertSQL()
	stmt, err := b.tx.PrepareContext(b.ctx, singleRowSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare single-row fallback insert: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close single-row insert statement")
		}
	}()

	for i := range b.currentCount {
		offset := i * b.columnCount
		values := b.buffer[offset : offset+b.columnCount]
		_, err := stmt.ExecContext(b.ctx, values...)
		if err != nil {
			log.Error().Err(err).
				Str("table", b.tableName).
				Int("row", i).
				Msg("failed to insert row in fallback mode")
			// Continue attempting remaining rows
			continue
		}
		b.inserted++
	}

	b.buffer = b.buffer[:0]
	b.currentCount = 0
	return nil
}

// Close flushes any remaining buffered rows.
func (b *BatchInserter) Close() error {
	return b.Flush()
}

// generateMultiRowInsertSQL creates a multi-row INSERT statement.
func (b *BatchInserter) generateMultiRowInsertSQL(rowCount int) string {
	// Example for the Entries table with 2 rows:
	// INSERT INTO Entries (CorpusDBID, Key, Value, ...) VALUES
	//     (?, ?, ?, ...),
	//     (?, ?, ?, ...)
	colNames := strings.Join(b.columns, ", ")
	placeholder := "(" + strings.Repeat("?, ", b.columnCount-1) + "?)"
	placeholders := strings.Repeat(placeholder+",\n    ", rowCount-1) + placeholder

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES\n    %s", b.tableName, colNames, placeholders)
}

// generateSingleRowInsertSQL creates a single-row INSERT statement.
func (b *BatchInserter) generateSingleRowInsertSQL() string {
	colNames := strings.Join(b.columns, ", ")
	placeholders := strings.Repeat("?, ", b.columnCount-1) + "?"
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", b.tableName, colNames, placeholders)
}
