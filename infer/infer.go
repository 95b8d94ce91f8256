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

// Package infer examines sampled column values and proposes a target
// storage type plus suggested constraints for each source column.
//
// A column is assigned the strictest type every sampled non-null value
// satisfies, evaluated INTEGER > REAL > DATE > TEXT. The heuristics are
// deterministic: running inference twice on the same batch yields identical
// profiles.
package infer

import (
	"regexp"
	"strconv"
	"strings"

	"tabimport"
)

// DefaultSampleLimit bounds how many rows are examined per column. Enough
// for stable inference on ad-hoc files without paying for very long batches.
const DefaultSampleLimit = 256

// emailShape is the documented email heuristic: a non-empty local part
// without whitespace or '@', then a domain of dot-separated labels ending
// in a 2+ letter suffix.
var emailShape = regexp.MustCompile(`^[^\s@]+@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*\.[A-Za-z]{2,}$`)

// EmailShaped reports whether s matches the email heuristic.
func EmailShaped(s string) bool { return emailShape.MatchString(s) }

// Option configures an Inferencer.
type Option func(*Inferencer)

// WithSampleLimit bounds the number of rows examined per column.
// Non-positive limits mean "examine every row".
func WithSampleLimit(n int) Option {
	return func(inf *Inferencer) { inf.sampleLimit = n }
}

// Inferencer derives column profiles from a batch.
type Inferencer struct {
	sampleLimit int
}

// New creates an Inferencer with default or overridden options.
func New(options ...Option) *Inferencer {
	inf := &Inferencer{sampleLimit: DefaultSampleLimit}
	for _, opt := range options {
		opt(inf)
	}
	return inf
}

// Infer examines up to the sample limit of rows per column and returns one
// profile per source column. A column whose sample is entirely null
// defaults to TEXT with no constraints.
func (inf *Inferencer) Infer(batch *tabimport.Batch) map[string]tabimport.ColumnProfile {
	limit := len(batch.Rows)
	if inf.sampleLimit > 0 && inf.sampleLimit < limit {
		limit = inf.sampleLimit
	}

	profiles := make(map[string]tabimport.ColumnProfile, len(batch.Columns))
	for _, col := range batch.Columns {
		profiles[col] = inf.profileColumn(col, batch.Rows[:limit])
	}
	return profiles
}

// profileColumn walks one column's sampled values tracking which storage
// types remain satisfiable.
func (inf *Inferencer) profileColumn(col string, rows []tabimport.Row) tabimport.ColumnProfile {
	profile := tabimport.ColumnProfile{
		Column:  col,
		Type:    tabimport.TypeText,
		Sampled: len(rows),
	}

	allInteger, allReal, allDate, allEmail := true, true, true, true
	sawNull := false

	for _, row := range rows {
		v := row[col]
		if v.IsNull() || (v.Kind() == tabimport.KindText && strings.TrimSpace(v.String()) == "") {
			sawNull = true
			continue
		}
		profile.NonNull++

		if !satisfiesInteger(v) {
			allInteger = false
		}
		if !satisfiesReal(v) {
			allReal = false
		}
		if !satisfiesDate(v) {
			allDate = false
		}
		if !EmailShaped(v.String()) {
			allEmail = false
		}
	}

	if profile.NonNull == 0 {
		// Nothing to learn from; default to TEXT, no constraints.
		return profile
	}

	switch {
	case allInteger:
		profile.Type = tabimport.TypeInteger
	case allReal:
		profile.Type = tabimport.TypeReal
	case allDate:
		profile.Type = tabimport.TypeDate
	default:
		profile.Type = tabimport.TypeText
	}

	if !sawNull {
		profile.Constraints.NotNull = true
	}
	if looksLikeEmailName(col) || (profile.Type == tabimport.TypeText && allEmail) {
		profile.Constraints.Email = true
		profile.Constraints.Unique = true
	}
	return profile
}

// looksLikeEmailName matches on "email" only; "mail" alone would sweep in
// columns like mailing_address.
func looksLikeEmailName(col string) bool {
	return strings.Contains(strings.ToLower(col), "email")
}

// satisfiesInteger reports whether v is a whole number: an integer or bool
// value, a real with no fractional part, or text parsing as a base-10
// integer with no fraction or exponent.
func satisfiesInteger(v tabimport.Value) bool {
	switch v.Kind() {
	case tabimport.KindInteger, tabimport.KindBool:
		return true
	case tabimport.KindReal:
		return v.Float() == float64(int64(v.Float()))
	case tabimport.KindText:
		_, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
		return err == nil
	default:
		return false
	}
}

func satisfiesReal(v tabimport.Value) bool {
	switch v.Kind() {
	case tabimport.KindInteger, tabimport.KindReal:
		return true
	case tabimport.KindText:
		_, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		return err == nil
	default:
		return false
	}
}

func satisfiesDate(v tabimport.Value) bool {
	switch v.Kind() {
	case tabimport.KindTime:
		return true
	case tabimport.KindText:
		_, ok := tabimport.ParseTime(strings.TrimSpace(v.String()))
		return ok
	default:
		return false
	}
}
