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

import "fmt"

// RowError is one row-level diagnostic: the 1-based row index as seen in
// the source, the source column involved (empty when the whole row is at
// fault), and a human-readable reason.
type RowError struct {
	Row    int
	Column string
	Reason string
}

// String renders the row error for logs and reports.
func (e RowError) String() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d, column %q: %s", e.Row, e.Column, e.Reason)
}

// ImportResult is the aggregate outcome of one import run. It accumulates
// incrementally while the orchestrator walks the rows and is immutable once
// the run completes.
type ImportResult struct {
	// Total is the number of data rows seen in the source.
	Total int
	// Inserted is the number of rows written to the target table.
	Inserted int
	// Skipped is the number of rows dropped on a storage-level constraint
	// violation (duplicate value on a UNIQUE column).
	Skipped int
	// Invalid is the number of rows rejected by validation or coercion.
	Invalid int
	// Errors lists the row-level diagnostics in source row order.
	Errors []RowError
}

// AddError appends a row-level diagnostic.
func (r *ImportResult) AddError(row int, column, reason string) {
	r.Errors = append(r.Errors, RowError{Row: row, Column: column, Reason: reason})
}

// String renders the counts for display.
func (r *ImportResult) String() string {
	return fmt.Sprintf("total=%d inserted=%d skipped=%d invalid=%d errors=%d",
		r.Total, r.Inserted, r.Skipped, r.Invalid, len(r.Errors))
}
