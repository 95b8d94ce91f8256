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

// Package mapping resolves source columns, inferred profiles and optional
// caller-supplied overrides into a finalized import plan, and owns the
// identifier sanitization rules shared by the schema layer.
package mapping

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"

	"tabimport"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Sanitize turns an arbitrary source name into a valid SQL identifier:
// lowercase, non-alphanumeric runs collapsed to a single underscore, and a
// leading digit prefixed with an underscore. Sanitizing an already
// sanitized name is a no-op. Returns "" when nothing survives.
func Sanitize(name string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(name), "_")
	if s == "" || s == "_" {
		return ""
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}

// TableNameFor derives a default target table name from a source path or
// identifier: the base name without extension, snake-cased then sanitized.
// Falls back to "imported_data" when nothing usable remains.
func TableNameFor(source string) string {
	base := filepath.Base(source)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if name := Sanitize(strcase.ToSnake(base)); name != "" {
		return name
	}
	return "imported_data"
}

// Resolve combines a batch's columns, their inferred profiles, and an
// optional override list into an import plan.
//
// Without overrides every source column maps to a sanitized version of
// itself with the inferred type and constraints. Overrides are applied per
// source column after sanitization; an excluded column is dropped entirely.
//
// Resolve fails with a *tabimport.MappingError when an override references
// a source column absent from the batch, when the resulting plan has zero
// columns, or when two source columns sanitize to the same target
// identifier without an override disambiguating them.
func Resolve(batch *tabimport.Batch, profiles map[string]tabimport.ColumnProfile, overrides []tabimport.Override) (*tabimport.ImportPlan, error) {
	bySource := make(map[string]tabimport.Override, len(overrides))
	for _, ov := range overrides {
		if !batch.HasColumn(ov.Source) {
			return nil, &tabimport.MappingError{
				Reason: fmt.Sprintf("override references unknown source column %q", ov.Source),
			}
		}
		if _, dup := bySource[ov.Source]; dup {
			return nil, &tabimport.MappingError{
				Reason: fmt.Sprintf("duplicate override for source column %q", ov.Source),
			}
		}
		bySource[ov.Source] = ov
	}

	plan := &tabimport.ImportPlan{}
	claimed := make(map[string]string) // target identifier -> source column

	for _, col := range batch.Columns {
		ov, hasOverride := bySource[col]
		if hasOverride && ov.Exclude {
			continue
		}

		fm := tabimport.FieldMapping{Source: col, Type: tabimport.TypeText}
		if profile, ok := profiles[col]; ok {
			fm.Type = profile.Type
			fm.Constraints = profile.Constraints
		}

		targetSource := col
		if hasOverride && ov.Target != "" {
			targetSource = ov.Target
		}
		fm.Target = Sanitize(targetSource)
		if fm.Target == "" {
			return nil, &tabimport.MappingError{
				Reason: fmt.Sprintf("source column %q sanitizes to an empty identifier", col),
			}
		}

		if hasOverride {
			if ov.Type != "" {
				if !ov.Type.Valid() {
					return nil, &tabimport.MappingError{
						Reason: fmt.Sprintf("override for %q has unknown type %q", col, ov.Type),
					}
				}
				fm.Type = ov.Type
			}
			if ov.NotNull != nil {
				fm.Constraints.NotNull = *ov.NotNull
			}
			if ov.Unique != nil {
				fm.Constraints.Unique = *ov.Unique
			}
			if ov.Email != nil {
				fm.Constraints.Email = *ov.Email
			}
		}

		if prev, taken := claimed[fm.Target]; taken {
			return nil, &tabimport.MappingError{
				Reason: fmt.Sprintf("source columns %q and %q both map to target %q; rename one with an override",
					prev, col, fm.Target),
			}
		}
		claimed[fm.Target] = col

		plan.Fields = append(plan.Fields, fm)
	}

	if len(plan.Fields) == 0 {
		return nil, &tabimport.MappingError{Reason: "resulting plan has no columns"}
	}
	return plan, nil
}
