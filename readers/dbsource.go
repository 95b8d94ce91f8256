//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 The tabimport authors
//
// This file is part of tabimport.
//
// tabimport is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// tabimport is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with tabimport. If not, see https://www.gnu.org/licenses/.

package readers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Relational source drivers.
	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"tabimport"
)

// driverAliases normalizes the accepted driver names onto the registered
// database/sql driver names.
var driverAliases = map[string]string{
	"postgres":   "postgres",
	"postgresql": "postgres",
	"pgx":        "postgres",
	"mssql":      "sqlserver",
	"sqlserver":  "sqlserver",
	"sqlite":     "sqlite",
	"sqlite3":    "sqlite",
}

// ReadDatabase executes either SELECT * on the descriptor's table or its
// raw query against the source database and materializes the full result
// set as a batch. Column names come from the result set metadata; a result
// with zero columns fails the read.
func ReadDatabase(ctx context.Context, desc Descriptor) (*tabimport.Batch, error) {
	driver, ok := driverAliases[strings.ToLower(desc.Driver)]
	if !ok {
		return nil, &tabimport.SourceFormatError{
			Source: desc.Name(),
			Err:    fmt.Errorf("unsupported database driver %q", desc.Driver),
		}
	}

	db, err := sql.Open(driver, desc.DSN)
	if err != nil {
		return nil, &tabimport.SourceFormatError{Source: desc.Name(), Err: err}
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, &tabimport.SourceFormatError{
			Source: desc.Name(),
			Err:    fmt.Errorf("failed to connect: %w", err),
		}
	}

	query := desc.Query
	if query == "" {
		if desc.Table == "" {
			return nil, &tabimport.SourceFormatError{
				Source: desc.Name(),
				Err:    fmt.Errorf("descriptor names neither a table nor a query"),
			}
		}
		query = "SELECT * FROM " + quoteIdent(driver, desc.Table)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, &tabimport.SourceFormatError{Source: desc.Name(), Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &tabimport.SourceFormatError{Source: desc.Name(), Err: err}
	}
	if len(columns) == 0 {
		return nil, &tabimport.SourceFormatError{
			Source: desc.Name(),
			Err:    fmt.Errorf("query returned zero columns"),
		}
	}

	batch := tabimport.NewBatch(columns)
	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &tabimport.SourceFormatError{Source: desc.Name(), Err: err}
		}
		row := make(tabimport.Row, len(columns))
		for i, col := range columns {
			row[col] = tabimport.FromAny(values[i])
		}
		batch.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, &tabimport.SourceFormatError{Source: desc.Name(), Err: err}
	}
	return batch, nil
}

// quoteIdent quotes a table identifier for the given driver's dialect.
func quoteIdent(driver, ident string) string {
	switch driver {
	case "sqlserver":
		return "[" + strings.ReplaceAll(ident, "]", "]]") + "]"
	default:
		return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
	}
}
