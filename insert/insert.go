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

// Package insert attempts single-row writes into the target table: it
// applies each field mapping's declared coercion, then classifies the
// storage outcome. A uniqueness violation demotes the one row to skipped;
// any other storage failure is fatal for the whole run.
package insert

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"tabimport"
	"tabimport/schema"
)

// Status classifies the outcome of one insert attempt.
type Status int

const (
	// StatusInserted means the row was written.
	StatusInserted Status = iota
	// StatusSkipped means the storage layer rejected the row on a
	// uniqueness constraint; the run continues.
	StatusSkipped
	// StatusInvalid means a value could not be coerced to its target type;
	// the row never reached storage.
	StatusInvalid
)

// Outcome describes what happened to one row. Column and Reason are set
// for skipped and invalid outcomes, naming the source column at fault.
type Outcome struct {
	Status Status
	Column string
	Reason string
}

// uniqueColumn recovers the violated column from SQLite's error text, e.g.
// "UNIQUE constraint failed: people.email".
var uniqueColumn = regexp.MustCompile(`(?i)UNIQUE constraint failed: \w+\.(\w+)`)

// Inserter writes validated rows into one target table.
type Inserter struct {
	table *schema.Table
	plan  *tabimport.ImportPlan
}

// New creates an Inserter for the given table and plan.
func New(table *schema.Table, plan *tabimport.ImportPlan) *Inserter {
	return &Inserter{table: table, plan: plan}
}

// Insert coerces the row's values per the plan and attempts the write.
// Row-level conditions (coercion failure, duplicate key) come back in the
// Outcome; anything else at the storage layer is a *tabimport.StorageFault,
// fatal for the run.
func (ins *Inserter) Insert(ctx context.Context, row tabimport.Row) (Outcome, error) {
	columns := make([]string, 0, len(ins.plan.Fields))
	values := make([]interface{}, 0, len(ins.plan.Fields))

	for _, fm := range ins.plan.Fields {
		coerced, err := Coerce(row[fm.Source], fm.Type)
		if err != nil {
			return Outcome{Status: StatusInvalid, Column: fm.Source, Reason: err.Error()}, nil
		}
		columns = append(columns, fm.Target)
		values = append(values, coerced)
	}

	err := ins.table.InsertRow(ctx, columns, values)
	if err == nil {
		return Outcome{Status: StatusInserted}, nil
	}

	if target, ok := uniqueViolation(err); ok {
		source := ins.plan.SourceFor(target)
		return Outcome{
			Status: StatusSkipped,
			Column: source,
			Reason: fmt.Sprintf("duplicate value for column %q", source),
		}, nil
	}

	return Outcome{}, &tabimport.StorageFault{Op: "insert", Err: err}
}

// uniqueViolation reports whether err is a SQLite uniqueness violation and
// returns the violated target column when it can be recovered.
func uniqueViolation(err error) (string, bool) {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return "", false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
	default:
		return "", false
	}
	if m := uniqueColumn.FindStringSubmatch(err.Error()); m != nil {
		return m[1], true
	}
	return "", true
}

// Coerce converts a raw value to the driver representation of the target
// storage type. Null passes through as nil; the NOT NULL rule belongs to
// validation, not coercion.
func Coerce(v tabimport.Value, t tabimport.ColumnType) (interface{}, error) {
	if v.IsNull() {
		return nil, nil
	}

	switch t {
	case tabimport.TypeInteger:
		return coerceInteger(v)
	case tabimport.TypeReal:
		return coerceReal(v)
	case tabimport.TypeDate:
		return coerceDate(v)
	case tabimport.TypeText:
		return v.String(), nil
	default:
		return nil, fmt.Errorf("unknown target type %q", t)
	}
}

func coerceInteger(v tabimport.Value) (interface{}, error) {
	switch v.Kind() {
	case tabimport.KindInteger:
		return v.Int(), nil
	case tabimport.KindBool:
		if v.Boolean() {
			return int64(1), nil
		}
		return int64(0), nil
	case tabimport.KindReal:
		if f := v.Float(); f == float64(int64(f)) {
			return int64(f), nil
		}
		return nil, fmt.Errorf("value %q is not a whole number", v.String())
	case tabimport.KindText:
		i, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not an integer", v.String())
		}
		return i, nil
	default:
		return nil, fmt.Errorf("cannot store %s value as INTEGER", v.Kind())
	}
}

func coerceReal(v tabimport.Value) (interface{}, error) {
	switch v.Kind() {
	case tabimport.KindInteger:
		return float64(v.Int()), nil
	case tabimport.KindReal:
		return v.Float(), nil
	case tabimport.KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not a number", v.String())
		}
		return f, nil
	default:
		return nil, fmt.Errorf("cannot store %s value as REAL", v.Kind())
	}
}

func coerceDate(v tabimport.Value) (interface{}, error) {
	switch v.Kind() {
	case tabimport.KindTime:
		return tabimport.FormatTime(v.TimeValue()), nil
	case tabimport.KindText:
		t, ok := tabimport.ParseTime(strings.TrimSpace(v.String()))
		if !ok {
			return nil, fmt.Errorf("value %q is not a recognized date", v.String())
		}
		return tabimport.FormatTime(t), nil
	default:
		return nil, fmt.Errorf("cannot store %s value as DATE", v.Kind())
	}
}
