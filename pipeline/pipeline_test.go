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

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabimport"
	"tabimport/readers"
	"tabimport/schema"
)

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCSV(t *testing.T, dbPath, csvPath, table string) *tabimport.ImportResult {
	t.Helper()
	imp, err := New().
		From(readers.Descriptor{Path: csvPath}).
		Into(dbPath, table).
		Build()
	require.NoError(t, err)

	result, err := imp.Run(context.Background())
	require.NoError(t, err)
	return result
}

// TestRun_CSVEndToEnd drives a full import and checks both the counts and
// the stored rows.
func TestRun_CSVEndToEnd(t *testing.T) {
	csvPath := writeSource(t, "people.csv",
		"Full Name,Email,Age\n"+
			"Alice,alice@example.com,30\n"+
			"Bob,bob@example.com,25\n"+
			"Carol,carol@example.com,41\n")
	dbPath := filepath.Join(t.TempDir(), "test.db")

	result := runCSV(t, dbPath, csvPath, "people")
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Inserted)
	assert.Zero(t, result.Skipped)
	assert.Zero(t, result.Invalid)
	assert.Empty(t, result.Errors)

	mgr, err := schema.Open(dbPath)
	require.NoError(t, err)
	defer mgr.Close()

	var count int
	require.NoError(t, mgr.DB().QueryRow(`SELECT COUNT(*) FROM "people"`).Scan(&count))
	assert.Equal(t, 3, count)

	var age int64
	require.NoError(t, mgr.DB().QueryRow(
		`SELECT "age" FROM "people" WHERE "email" = ?`, "bob@example.com").Scan(&age))
	assert.Equal(t, int64(25), age)
}

// TestRun_DuplicateEmailSkipped: inference marks the email column unique,
// so the repeated address is skipped, not fatal.
func TestRun_DuplicateEmailSkipped(t *testing.T) {
	csvPath := writeSource(t, "people.csv",
		"Full Name,Email\n"+
			"Alice,alice@example.com\n"+
			"Alice Again,alice@example.com\n")
	dbPath := filepath.Join(t.TempDir(), "test.db")

	result := runCSV(t, dbPath, csvPath, "people")
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, "Email", result.Errors[0].Column)
}

func TestRun_InvalidEmailReported(t *testing.T) {
	csvPath := writeSource(t, "people.csv",
		"Full Name,Email\n"+
			"Alice,alice@example.com\n"+
			"Bob,not-an-address\n")
	dbPath := filepath.Join(t.TempDir(), "test.db")

	result := runCSV(t, dbPath, csvPath, "people")
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Invalid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Reason, "invalid email format")
}

func TestRun_RequiredFieldViaOverride(t *testing.T) {
	csvPath := writeSource(t, "people.csv",
		"Full Name,City\n"+
			"Alice,Lisbon\n"+
			",Porto\n")
	dbPath := filepath.Join(t.TempDir(), "test.db")

	yes := true
	imp, err := New().
		From(readers.Descriptor{Path: csvPath}).
		Into(dbPath, "people").
		WithOverrides(tabimport.Override{Source: "Full Name", NotNull: &yes}).
		Build()
	require.NoError(t, err)

	result, err := imp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Invalid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Full Name", result.Errors[0].Column)
}

func TestRun_HeaderOnlySourceYieldsZeros(t *testing.T) {
	csvPath := writeSource(t, "empty.csv", "Full Name,Age\n")
	dbPath := filepath.Join(t.TempDir(), "test.db")

	result := runCSV(t, dbPath, csvPath, "people")
	assert.Zero(t, result.Total)
	assert.Zero(t, result.Inserted)
	assert.Empty(t, result.Errors)
}

// TestRun_Rerun: importing the same file twice skips every row the second
// time on the unique email.
func TestRun_Rerun(t *testing.T) {
	csvPath := writeSource(t, "people.csv",
		"Full Name,Email\n"+
			"Alice,alice@example.com\n"+
			"Bob,bob@example.com\n")
	dbPath := filepath.Join(t.TempDir(), "test.db")

	first := runCSV(t, dbPath, csvPath, "people")
	assert.Equal(t, 2, first.Inserted)

	second := runCSV(t, dbPath, csvPath, "people")
	assert.Zero(t, second.Inserted)
	assert.Equal(t, 2, second.Skipped)
}

func TestRun_JSONSource(t *testing.T) {
	jsonPath := writeSource(t, "people.json",
		`[{"name": "Alice", "age": 30}, {"name": "Bob", "age": 25}]`)
	dbPath := filepath.Join(t.TempDir(), "test.db")

	imp, err := New().
		From(readers.Descriptor{Path: jsonPath}).
		Into(dbPath, "").
		Build()
	require.NoError(t, err)

	result, err := imp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)

	mgr, err := schema.Open(dbPath)
	require.NoError(t, err)
	defer mgr.Close()

	// Table name derived from the file name.
	var count int
	require.NoError(t, mgr.DB().QueryRow(`SELECT COUNT(*) FROM "people"`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestRun_MappingErrorIsFatal(t *testing.T) {
	csvPath := writeSource(t, "people.csv", "Full Name\nAlice\n")
	dbPath := filepath.Join(t.TempDir(), "test.db")

	imp, err := New().
		From(readers.Descriptor{Path: csvPath}).
		Into(dbPath, "people").
		WithOverrides(tabimport.Override{Source: "nope", Target: "other"}).
		Build()
	require.NoError(t, err)

	_, err = imp.Run(context.Background())
	var merr *tabimport.MappingError
	require.ErrorAs(t, err, &merr)
}

func TestBuild_Validation(t *testing.T) {
	_, err := New().Into("test.db", "people").Build()
	assert.Error(t, err)

	_, err = New().From(readers.Descriptor{Path: "x.csv"}).Build()
	assert.Error(t, err)
}

// TestPreview_DoesNotTouchDatabase resolves the plan without creating the
// target table.
func TestPreview_DoesNotTouchDatabase(t *testing.T) {
	csvPath := writeSource(t, "people.csv",
		"Full Name,Age\nAlice,30\nBob,25\nCarol,41\n")
	dbPath := filepath.Join(t.TempDir(), "preview.db")

	imp, err := New().
		From(readers.Descriptor{Path: csvPath}).
		Into(dbPath, "people").
		Build()
	require.NoError(t, err)

	preview, err := imp.Preview(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, "people", preview.Table)
	assert.Equal(t, []string{"Full Name", "Age"}, preview.Columns)
	assert.Len(t, preview.Rows, 2)
	require.NotNil(t, preview.Plan)
	assert.Equal(t, []string{"full_name", "age"}, preview.Plan.Targets())
	assert.Equal(t, tabimport.TypeInteger, preview.Profiles["Age"].Type)

	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))
}
