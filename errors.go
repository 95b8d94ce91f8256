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

import (
	"fmt"
	"strings"
)

// The stage-level error types. Each one is fatal for the import run it
// occurs in; row-level conditions (validation failures, duplicate keys) are
// recorded in the ImportResult instead and never surface as errors.

// SourceFormatError reports a source that cannot be parsed into a flat
// header+rows shape: a CSV with no header, JSON that is not an array of
// flat objects, a spreadsheet with no data, a query returning zero columns.
type SourceFormatError struct {
	Source string // source path, query, or identifier
	Err    error
}

func (e *SourceFormatError) Error() string {
	return fmt.Sprintf("source format %s: %v", e.Source, e.Err)
}

func (e *SourceFormatError) Unwrap() error { return e.Err }

// MappingError reports that an import plan cannot be built from the batch,
// profiles and overrides at hand.
type MappingError struct {
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping: %s", e.Reason)
}

// SchemaMismatchError reports an existing target table that is incompatible
// with the import plan. The tool never alters existing tables.
type SchemaMismatchError struct {
	Table   string
	Missing []string // plan columns absent from the table
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch on table %q: missing columns %s",
		e.Table, strings.Join(e.Missing, ", "))
}

// StorageFault reports a storage-layer failure other than a uniqueness
// violation. It indicates a structural problem (disk full, corrupted file,
// locked database) rather than a per-row data problem, so it aborts the run.
type StorageFault struct {
	Op  string // the operation being performed (e.g. "insert", "create_table")
	Err error
}

func (e *StorageFault) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageFault) Unwrap() error { return e.Err }
