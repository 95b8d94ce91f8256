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

import "strings"

// ColumnType is a target storage type for an imported column.
type ColumnType string

const (
	TypeText    ColumnType = "TEXT"
	TypeInteger ColumnType = "INTEGER"
	TypeReal    ColumnType = "REAL"
	TypeDate    ColumnType = "DATE"
)

// Valid reports whether t is one of the recognized storage types.
func (t ColumnType) Valid() bool {
	switch t {
	case TypeText, TypeInteger, TypeReal, TypeDate:
		return true
	}
	return false
}

// Constraints holds the constraint flags attached to a column, either
// suggested by inference or imposed by a mapping override.
type Constraints struct {
	// NotNull requires a non-null, non-empty value in every row.
	NotNull bool
	// Unique adds a UNIQUE constraint on the target column.
	Unique bool
	// Email marks the column as holding email addresses, enabling the
	// format check during validation.
	Email bool
}

// ColumnProfile summarizes what type inference learned about one source
// column from a bounded sample of its values.
type ColumnProfile struct {
	// Column is the source column name.
	Column string
	// Type is the strictest storage type all sampled non-null values satisfy.
	Type ColumnType
	// Constraints holds the suggested constraint flags.
	Constraints Constraints
	// Sampled is the number of rows examined.
	Sampled int
	// NonNull is the number of non-null values among the sampled rows.
	NonNull int
}

// FieldMapping is one entry of an ImportPlan: a source column, its
// sanitized target column identifier, the target storage type, and the
// constraint set that applies.
type FieldMapping struct {
	Source      string
	Target      string
	Type        ColumnType
	Constraints Constraints
}

// EmailField reports whether the email format rule applies to this mapping,
// either via the explicit constraint flag or because the target identifier
// looks like an email column.
func (fm FieldMapping) EmailField() bool {
	if fm.Constraints.Email {
		return true
	}
	return strings.Contains(strings.ToLower(fm.Target), "email")
}

// ImportPlan is the finalized, ordered source-to-target column mapping for
// one import run. Target identifiers are unique within a plan and at least
// one mapping is present; the mapping resolver enforces both.
type ImportPlan struct {
	Fields []FieldMapping
}

// Field returns the mapping whose target identifier matches name, if any.
func (p *ImportPlan) Field(target string) (FieldMapping, bool) {
	for _, fm := range p.Fields {
		if fm.Target == target {
			return fm, true
		}
	}
	return FieldMapping{}, false
}

// SourceFor returns the source column that maps onto the given target
// identifier, falling back to the identifier itself when no mapping matches.
// Used to report storage-level violations against source column names.
func (p *ImportPlan) SourceFor(target string) string {
	if fm, ok := p.Field(target); ok {
		return fm.Source
	}
	return target
}

// Targets returns the target column identifiers in plan order.
func (p *ImportPlan) Targets() []string {
	targets := make([]string, len(p.Fields))
	for i, fm := range p.Fields {
		targets[i] = fm.Target
	}
	return targets
}

// Override is one caller-supplied mapping directive for a source column.
// Zero-valued fields leave the corresponding inferred setting untouched;
// pointer fields distinguish "unset" from an explicit false.
type Override struct {
	// Source names the source column the directive applies to. Required.
	Source string
	// Target renames the target column identifier. Sanitization still
	// applies to the supplied name.
	Target string
	// Type overrides the inferred storage type.
	Type ColumnType
	// NotNull, Unique and Email override the inferred constraint flags.
	NotNull *bool
	Unique  *bool
	Email   *bool
	// Exclude drops the source column from the plan entirely.
	Exclude bool
}
