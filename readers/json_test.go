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

package readers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabimport"
)

// TestReadJSON_FirstSeenColumnOrder: columns come out in the order keys
// first appear across the document, not sorted.
func TestReadJSON_FirstSeenColumnOrder(t *testing.T) {
	input := `[
		{"zebra": 1, "apple": 2},
		{"apple": 3, "mango": 4}
	]`
	batch, err := ReadJSON(strings.NewReader(input), "test.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"zebra", "apple", "mango"}, batch.Columns)
}

func TestReadJSON_MissingKeysAreNull(t *testing.T) {
	input := `[{"a": 1, "b": 2}, {"a": 3}]`
	batch, err := ReadJSON(strings.NewReader(input), "test.json")
	require.NoError(t, err)
	require.Equal(t, 2, batch.Len())
	assert.True(t, batch.Rows[1]["b"].IsNull())
}

func TestReadJSON_NumberKinds(t *testing.T) {
	input := `[{"count": 42, "score": 2.5, "big": 1e3}]`
	batch, err := ReadJSON(strings.NewReader(input), "test.json")
	require.NoError(t, err)

	row := batch.Rows[0]
	assert.Equal(t, tabimport.KindInteger, row["count"].Kind())
	assert.Equal(t, int64(42), row["count"].Int())
	assert.Equal(t, tabimport.KindReal, row["score"].Kind())
	assert.Equal(t, tabimport.KindReal, row["big"].Kind())
}

func TestReadJSON_NestedObjectsFlatten(t *testing.T) {
	input := `[{"name": "Alice", "address": {"city": "Lisbon", "zip": "1000"}}]`
	batch, err := ReadJSON(strings.NewReader(input), "test.json")
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "address.city", "address.zip"}, batch.Columns)
	assert.Equal(t, "Lisbon", batch.Rows[0]["address.city"].String())
}

func TestReadJSON_ArraysKeptAsText(t *testing.T) {
	input := `[{"name": "Alice", "tags": ["a", "b"]}]`
	batch, err := ReadJSON(strings.NewReader(input), "test.json")
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, batch.Rows[0]["tags"].String())
}

func TestReadJSON_NullAndBlankValues(t *testing.T) {
	input := `[{"a": null, "b": "  ", "c": "x"}]`
	batch, err := ReadJSON(strings.NewReader(input), "test.json")
	require.NoError(t, err)
	row := batch.Rows[0]
	assert.True(t, row["a"].IsNull())
	assert.True(t, row["b"].IsNull())
	assert.Equal(t, "x", row["c"].String())
}

func TestReadJSON_EmptyArray(t *testing.T) {
	batch, err := ReadJSON(strings.NewReader(`[]`), "test.json")
	require.NoError(t, err)
	assert.Zero(t, batch.Len())
	assert.Empty(t, batch.Columns)
}

func TestReadJSON_RejectsNonArray(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"a": 1}`), "test.json")
	var serr *tabimport.SourceFormatError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, err.Error(), "list of objects")
}

func TestReadJSON_RejectsNonObjectElement(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`[{"a": 1}, 2]`), "test.json")
	var serr *tabimport.SourceFormatError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, err.Error(), "element 1")
}

func TestReadJSON_RejectsEmptyInput(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(""), "test.json")
	var serr *tabimport.SourceFormatError
	require.ErrorAs(t, err, &serr)
}

func TestReadJSON_BooleanValues(t *testing.T) {
	input := `[{"active": true}, {"active": false}]`
	batch, err := ReadJSON(strings.NewReader(input), "test.json")
	require.NoError(t, err)
	assert.True(t, batch.Rows[0]["active"].Boolean())
	assert.False(t, batch.Rows[1]["active"].Boolean())
}
