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

// Package validate checks rows against an import plan before insertion:
// required-field presence for NOT NULL mappings and format rules for email
// columns. Validation collects every violation in a row rather than
// stopping at the first.
package validate

import (
	"fmt"
	"strings"

	"tabimport"
	"tabimport/infer"
)

// Violation is one failed check: the source column at fault and the reason.
type Violation struct {
	Column string
	Reason string
}

// Validate checks one row against the plan. A row with zero violations is
// valid; otherwise every violation found is returned, in plan order.
func Validate(row tabimport.Row, plan *tabimport.ImportPlan) []Violation {
	var violations []Violation
	for _, fm := range plan.Fields {
		v := row[fm.Source]
		empty := isEmpty(v)

		if fm.Constraints.NotNull && empty {
			violations = append(violations, Violation{
				Column: fm.Source,
				Reason: "required field is missing or empty",
			})
		}

		if fm.EmailField() && !empty {
			if s := v.String(); !infer.EmailShaped(s) {
				violations = append(violations, Violation{
					Column: fm.Source,
					Reason: fmt.Sprintf("invalid email format: %q", s),
				})
			}
		}
	}
	return violations
}

// RowEmpty reports whether every mapped value in the row is null or blank.
// Such rows carry no data and are rejected before validation.
func RowEmpty(row tabimport.Row, plan *tabimport.ImportPlan) bool {
	for _, fm := range plan.Fields {
		if !isEmpty(row[fm.Source]) {
			return false
		}
	}
	return true
}

func isEmpty(v tabimport.Value) bool {
	if v.IsNull() {
		return true
	}
	return v.Kind() == tabimport.KindText && strings.TrimSpace(v.String()) == ""
}
