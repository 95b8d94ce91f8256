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

package tabimport

// Package tabimport defines the shared data model for the import pipeline:
// the Value tagged union, the uniform Batch representation every source
// reader produces, column profiles, import plans, import results, and the
// stage-level error types.
//
// The pipeline itself is assembled from the subpackages: readers turn
// sources into Batches, infer derives ColumnProfiles, mapping resolves an
// ImportPlan, schema ensures the target table, validate and insert process
// rows, and pipeline orchestrates a run end to end.

// Row is one record of a Batch: a mapping from source column name to raw
// value. Every declared column has an entry, possibly Null.
type Row map[string]Value

// Batch is the uniform in-memory representation of one source's data: an
// ordered list of source column names plus the rows in source order.
// A Batch is immutable once produced; consumers must not modify it.
type Batch struct {
	// Columns holds the source column names in first-seen order. Names are
	// source-native and may contain spaces or punctuation.
	Columns []string
	// Rows holds the data rows in source order.
	Rows []Row
}

// NewBatch creates an empty batch for the given columns.
func NewBatch(columns []string) *Batch {
	return &Batch{Columns: append([]string(nil), columns...)}
}

// Append adds a row, filling any missing column with Null so the batch
// invariant (every row covers every column) holds.
func (b *Batch) Append(row Row) {
	for _, col := range b.Columns {
		if _, ok := row[col]; !ok {
			row[col] = Null()
		}
	}
	b.Rows = append(b.Rows, row)
}

// Len returns the number of data rows.
func (b *Batch) Len() int { return len(b.Rows) }

// HasColumn reports whether the batch declares the given source column.
func (b *Batch) HasColumn(name string) bool {
	for _, col := range b.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Column returns the values of one column in row order.
func (b *Batch) Column(name string) []Value {
	values := make([]Value, 0, len(b.Rows))
	for _, row := range b.Rows {
		values = append(values, row[name])
	}
	return values
}
