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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseTime_AcceptedLayouts covers every layout the importer recognizes.
func TestParseTime_AcceptedLayouts(t *testing.T) {
	cases := []struct {
		input string
		want  time.Time
	}{
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-03-15 10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-03-15T10:30:00Z", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"03/15/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := ParseTime(tc.input)
		require.True(t, ok, "expected %q to parse", tc.input)
		assert.True(t, tc.want.Equal(got), "parsed %q as %v", tc.input, got)
	}
}

func TestParseTime_Rejects(t *testing.T) {
	for _, input := range []string{"", "not a date", "15/03/2024 25:00", "2024-13-45"} {
		_, ok := ParseTime(input)
		assert.False(t, ok, "expected %q to be rejected", input)
	}
}

// TestFormatTime_DateOnlyAtMidnight checks that midnight timestamps render
// without a time component.
func TestFormatTime_DateOnlyAtMidnight(t *testing.T) {
	midnight := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-15", FormatTime(midnight))

	afternoon := time.Date(2024, 3, 15, 14, 5, 9, 0, time.UTC)
	assert.Equal(t, "2024-03-15 14:05:09", FormatTime(afternoon))
}

func TestFromAny_DriverTypes(t *testing.T) {
	assert.True(t, FromAny(nil).IsNull())
	assert.Equal(t, KindText, FromAny("hello").Kind())
	assert.Equal(t, KindText, FromAny([]byte("raw")).Kind())
	assert.Equal(t, int64(7), FromAny(int64(7)).Int())
	assert.Equal(t, int64(7), FromAny(int32(7)).Int())
	assert.Equal(t, 2.5, FromAny(2.5).Float())
	assert.Equal(t, KindBool, FromAny(true).Kind())
	assert.Equal(t, KindTime, FromAny(time.Now()).Kind())
}

func TestValue_StringRendering(t *testing.T) {
	assert.Equal(t, "42", Integer(42).String())
	assert.Equal(t, "2.5", Real(2.5).String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "", Null().String())
}

func TestBatch_AppendFillsMissingColumns(t *testing.T) {
	b := NewBatch([]string{"a", "b"})
	b.Append(Row{"a": Text("x")})
	require.Equal(t, 1, b.Len())
	assert.True(t, b.Rows[0]["b"].IsNull())
}
