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
	"strconv"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	// KindNull represents a missing or empty value.
	KindNull Kind = iota
	// KindText represents a string value.
	KindText
	// KindInteger represents a whole-number value.
	KindInteger
	// KindReal represents a floating-point value.
	KindReal
	// KindBool represents a boolean value.
	KindBool
	// KindTime represents a date or timestamp value.
	KindTime
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is the closed tagged union used for raw source values throughout the
// import pipeline: null, text, integer, real, bool, or time. Representing
// loosely-typed source data this way keeps type inference and coercion
// explicit transformations on a closed type instead of ad hoc parsing at
// every call site.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	t    time.Time
}

// Null returns the null Value. The zero Value is also null.
func Null() Value { return Value{kind: KindNull} }

// Text returns a text Value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Integer returns an integer Value.
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }

// Real returns a real Value.
func Real(f float64) Value { return Value{kind: KindReal, f: f} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Time returns a time Value.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Kind returns the variant held by the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the integer payload. Valid only for KindInteger.
func (v Value) Int() int64 { return v.i }

// Float returns the real payload. Valid only for KindReal.
func (v Value) Float() float64 { return v.f }

// Boolean returns the bool payload. Valid only for KindBool.
func (v Value) Boolean() bool { return v.b }

// TimeValue returns the time payload. Valid only for KindTime.
func (v Value) TimeValue() time.Time { return v.t }

// String renders the value as a display string. Null renders as the empty
// string; times use ISO 8601 with the time portion omitted at midnight UTC.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindText:
		return v.s
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return FormatTime(v.t)
	default:
		return ""
	}
}

// FormatTime renders a timestamp the way the pipeline stores DATE values:
// "2006-01-02" when the clock reads midnight, "2006-01-02 15:04:05" otherwise.
func FormatTime(t time.Time) string {
	if h, m, s := t.Clock(); h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

// dateLayouts are the recognized date/time shapes, tried in order. One
// documented set rather than an open-ended guesser: ISO date, ISO datetime,
// RFC 3339, and US-style slash dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// ParseTime attempts to parse s against the recognized date layouts.
func ParseTime(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FromAny converts a loosely-typed value (as produced by database/sql,
// encoding/json or a driver) into a Value. Unrecognized types fall back to
// their string rendering.
func FromAny(raw interface{}) Value {
	switch x := raw.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case string:
		return Text(x)
	case []byte:
		return Text(string(x))
	case bool:
		return Bool(x)
	case int:
		return Integer(int64(x))
	case int32:
		return Integer(int64(x))
	case int64:
		return Integer(x)
	case float32:
		return Real(float64(x))
	case float64:
		return Real(x)
	case time.Time:
		return Time(x)
	default:
		return Text(fmt.Sprintf("%v", x))
	}
}
