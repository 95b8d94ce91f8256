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

// Package schema manages the target SQLite database: it creates tables
// matching an import plan or verifies that an existing table is compatible,
// and owns single-row writes into those tables.
//
// Tables created here carry one storage column per field mapping plus an
// implicit surrogate "id" primary key. Existing tables are compared
// case-insensitively and never altered.
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Embedded target database.
	_ "modernc.org/sqlite"

	"tabimport"
	"tabimport/mapping"
)

// Manager wraps one target database file.
type Manager struct {
	db   *sql.DB
	path string
}

// Open connects to (creating if needed) the SQLite database at path.
// Use ":memory:" for an in-memory target.
func Open(path string) (*Manager, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &tabimport.StorageFault{Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &tabimport.StorageFault{Op: "open", Err: err}
	}
	// Imports are single-threaded; one connection avoids writer lock churn.
	db.SetMaxOpenConns(1)
	return &Manager{db: db, path: path}, nil
}

// DB exposes the underlying handle for callers that need to query the
// loaded data (reports, tests).
func (m *Manager) DB() *sql.DB { return m.db }

// Close releases the database handle.
func (m *Manager) Close() error { return m.db.Close() }

// Table is a handle to one verified target table.
type Table struct {
	db      *sql.DB
	name    string
	columns []string
}

// Name returns the sanitized table name.
func (t *Table) Name() string { return t.name }

// InsertRow writes one row with the given target columns and coerced
// values. The raw driver error is returned untouched so the caller can
// classify constraint violations.
func (t *Table) InsertRow(ctx context.Context, columns []string, values []interface{}) error {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
		placeholders[i] = "?"
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(t.name),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "))
	_, err := t.db.ExecContext(ctx, query, values...)
	return err
}

// EnsureTable creates the target table for the plan when absent, or
// verifies compatibility when present: every plan target column must exist
// in the table (case-insensitive); extra table columns are ignored. An
// incompatible table fails with *tabimport.SchemaMismatchError; existing
// tables are never altered.
func (m *Manager) EnsureTable(ctx context.Context, tableName string, plan *tabimport.ImportPlan) (*Table, error) {
	name := mapping.Sanitize(tableName)
	if name == "" {
		return nil, fmt.Errorf("invalid table name %q", tableName)
	}

	exists, err := m.tableExists(ctx, name)
	if err != nil {
		return nil, &tabimport.StorageFault{Op: "inspect_table", Err: err}
	}

	if !exists {
		if err := m.createTable(ctx, name, plan); err != nil {
			return nil, err
		}
	} else if err := m.verifyTable(ctx, name, plan); err != nil {
		return nil, err
	}

	return &Table{db: m.db, name: name, columns: plan.Targets()}, nil
}

func (m *Manager) tableExists(ctx context.Context, name string) (bool, error) {
	var found string
	err := m.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND lower(name) = lower(?)",
		name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) createTable(ctx context.Context, name string, plan *tabimport.ImportPlan) error {
	defs := make([]string, 0, len(plan.Fields)+1)
	if _, hasID := plan.Field("id"); !hasID {
		defs = append(defs, `"id" INTEGER PRIMARY KEY AUTOINCREMENT`)
	}

	for _, fm := range plan.Fields {
		if fm.Target == "id" && fm.Type == tabimport.TypeInteger {
			// A mapped integer id becomes the primary key itself.
			defs = append(defs, `"id" INTEGER PRIMARY KEY AUTOINCREMENT`)
			continue
		}
		def := quoteIdent(fm.Target) + " " + string(fm.Type)
		if fm.Constraints.NotNull {
			def += " NOT NULL"
		}
		if fm.Constraints.Unique {
			def += " UNIQUE"
		}
		defs = append(defs, def)
	}

	query := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return &tabimport.StorageFault{Op: "create_table", Err: err}
	}
	return nil
}

func (m *Manager) verifyTable(ctx context.Context, name string, plan *tabimport.ImportPlan) error {
	rows, err := m.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(name)))
	if err != nil {
		return &tabimport.StorageFault{Op: "inspect_table", Err: err}
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			colName string
			colType string
			notNull int
			dflt    sql.NullString
			primary int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &dflt, &primary); err != nil {
			return &tabimport.StorageFault{Op: "inspect_table", Err: err}
		}
		existing[strings.ToLower(colName)] = true
	}
	if err := rows.Err(); err != nil {
		return &tabimport.StorageFault{Op: "inspect_table", Err: err}
	}

	var missing []string
	for _, fm := range plan.Fields {
		if !existing[strings.ToLower(fm.Target)] {
			missing = append(missing, fm.Target)
		}
	}
	if len(missing) > 0 {
		return &tabimport.SchemaMismatchError{Table: name, Missing: missing}
	}
	return nil
}

func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
