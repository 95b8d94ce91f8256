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

// TestReadCSV_BasicFunctionality checks header capture, row order and
// value placement.
func TestReadCSV_BasicFunctionality(t *testing.T) {
	input := "name,age\nAlice,30\nBob,25\n"
	batch, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age"}, batch.Columns)
	require.Equal(t, 2, batch.Len())
	assert.Equal(t, "Alice", batch.Rows[0]["name"].String())
	assert.Equal(t, "30", batch.Rows[0]["age"].String())
	assert.Equal(t, "Bob", batch.Rows[1]["name"].String())
}

func TestReadCSV_SniffsSemicolon(t *testing.T) {
	input := "name;city\nAlice;Lisbon\nBob;Porto\n"
	batch, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "city"}, batch.Columns)
	assert.Equal(t, "Lisbon", batch.Rows[0]["city"].String())
}

func TestReadCSV_SniffsTab(t *testing.T) {
	input := "name\tage\nAlice\t30\n"
	batch, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, batch.Columns)
}

func TestReadCSV_SingleQuoteDialect(t *testing.T) {
	input := "name,notes\n'Alice','chatty'\n"
	batch, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "Alice", batch.Rows[0]["name"].String())
	assert.Equal(t, "chatty", batch.Rows[0]["notes"].String())
}

func TestReadCSV_StripsBOM(t *testing.T) {
	input := "\xEF\xBB\xBFname,age\nAlice,30\n"
	batch, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "name", batch.Columns[0])
}

// TestReadCSV_RaggedRows: short rows pad with null, long rows truncate.
func TestReadCSV_RaggedRows(t *testing.T) {
	input := "a,b,c\n1,2\n1,2,3,4\n"
	batch, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 2, batch.Len())

	assert.True(t, batch.Rows[0]["c"].IsNull())
	assert.Equal(t, "3", batch.Rows[1]["c"].String())
	assert.Len(t, batch.Rows[1], 3)
}

func TestReadCSV_EmptyFieldsAreNull(t *testing.T) {
	input := "name,age\nAlice,\n"
	batch, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.True(t, batch.Rows[0]["age"].IsNull())
}

func TestReadCSV_UnnamedHeaderCells(t *testing.T) {
	input := "name,,age\nAlice,x,30\n"
	batch, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "col_1", "age"}, batch.Columns)
	assert.Equal(t, "x", batch.Rows[0]["col_1"].String())
}

func TestReadCSV_BlankHeaderFails(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(",,\nx,y,z\n"))
	var serr *tabimport.SourceFormatError
	require.ErrorAs(t, err, &serr)
}

func TestReadCSV_EmptyInputFails(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	var serr *tabimport.SourceFormatError
	require.ErrorAs(t, err, &serr)
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	batch, err := ReadCSV(strings.NewReader("name,age\n"))
	require.NoError(t, err)
	assert.Zero(t, batch.Len())
	assert.Equal(t, []string{"name", "age"}, batch.Columns)
}

func TestReadCSV_ForcedDelimiter(t *testing.T) {
	input := "a|b\n1|2\n"
	batch, err := ReadCSV(strings.NewReader(input), WithDelimiter('|'))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, batch.Columns)
}
