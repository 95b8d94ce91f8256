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

// Package pipeline orchestrates one import run end to end: read the
// source into a batch, infer column profiles, resolve the import plan,
// ensure the target table, then validate and insert row by row.
//
// Row-level failures (validation violations, duplicate keys, coercion
// failures) are accumulated into the ImportResult and the run continues;
// only stage-level conditions (unreadable source, unresolvable plan,
// schema mismatch, non-duplicate storage fault) abort the run with an
// error. Each row commits on its own, so partial progress survives.
//
// Example usage:
//
//	imp, err := pipeline.New().
//	    From(readers.Descriptor{Path: "people.csv"}).
//	    Into("data/app.db", "people").
//	    Build()
//	if err != nil { log.Fatal(err) }
//	result, err := imp.Run(context.Background())
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tabimport"
	"tabimport/infer"
	"tabimport/insert"
	"tabimport/mapping"
	"tabimport/readers"
	"tabimport/schema"
	"tabimport/validate"
)

// Builder provides a fluent API for configuring an import run.
// Use New() to create a builder, then chain From, Into and the With
// methods before calling Build.
type Builder struct {
	imp *Importer
}

// New creates a Builder for one import run.
func New() *Builder {
	return &Builder{imp: &Importer{logger: zap.NewNop()}}
}

// From sets the source descriptor.
func (b *Builder) From(desc readers.Descriptor) *Builder {
	b.imp.desc = desc
	return b
}

// Into sets the target database file and table name. An empty table name
// is derived from the source name.
func (b *Builder) Into(dbPath, table string) *Builder {
	b.imp.dbPath = dbPath
	b.imp.table = table
	return b
}

// WithOverrides supplies caller mapping directives, applied by the
// mapping resolver after sanitization.
func (b *Builder) WithOverrides(overrides ...tabimport.Override) *Builder {
	b.imp.overrides = append(b.imp.overrides, overrides...)
	return b
}

// WithSampleLimit bounds how many rows type inference examines per column.
func (b *Builder) WithSampleLimit(n int) *Builder {
	b.imp.sampleLimit = n
	return b
}

// WithLogger attaches a logger; the default discards everything.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	if logger != nil {
		b.imp.logger = logger
	}
	return b
}

// Build validates the configuration and returns the Importer.
func (b *Builder) Build() (*Importer, error) {
	if b.imp.desc == (readers.Descriptor{}) {
		return nil, fmt.Errorf("import requires a source descriptor")
	}
	if b.imp.dbPath == "" {
		return nil, fmt.Errorf("import requires a target database path")
	}
	if b.imp.table == "" {
		b.imp.table = mapping.TableNameFor(b.imp.desc.Name())
	}
	return b.imp, nil
}

// Importer runs the import pipeline for one (source, target) pair.
// Importers hold no cached state between calls; every Run re-reads the
// source, so callers needing interactive responsiveness layer their own
// caching on top.
type Importer struct {
	desc        readers.Descriptor
	dbPath      string
	table       string
	overrides   []tabimport.Override
	sampleLimit int
	logger      *zap.Logger
}

// Preview holds everything a caller needs to render the resolved import
// before executing it: the source columns, a bounded sample of rows, the
// inferred profiles and the plan the run would use.
type Preview struct {
	Table    string
	Columns  []string
	Rows     []tabimport.Row
	Profiles map[string]tabimport.ColumnProfile
	Plan     *tabimport.ImportPlan
}

// Preview reads the source and resolves the plan without touching the
// target database, returning up to sampleRows data rows for display.
func (imp *Importer) Preview(ctx context.Context, sampleRows int) (*Preview, error) {
	batch, profiles, plan, err := imp.resolve(ctx)
	if err != nil {
		return nil, err
	}
	rows := batch.Rows
	if sampleRows >= 0 && sampleRows < len(rows) {
		rows = rows[:sampleRows]
	}
	return &Preview{
		Table:    imp.table,
		Columns:  batch.Columns,
		Rows:     rows,
		Profiles: profiles,
		Plan:     plan,
	}, nil
}

// Run executes the import and returns the aggregate result. On a fatal
// stage error no partial result is returned; already-inserted rows remain
// in the target (each row commits individually).
func (imp *Importer) Run(ctx context.Context) (*tabimport.ImportResult, error) {
	batch, _, plan, err := imp.resolve(ctx)
	if err != nil {
		return nil, err
	}

	mgr, err := schema.Open(imp.dbPath)
	if err != nil {
		return nil, err
	}
	defer mgr.Close()

	table, err := mgr.EnsureTable(ctx, imp.table, plan)
	if err != nil {
		return nil, err
	}

	inserter := insert.New(table, plan)
	result := &tabimport.ImportResult{}

	for i, row := range batch.Rows {
		rowNum := i + 1 // 1-based, as seen in the source
		result.Total++

		if validate.RowEmpty(row, plan) {
			result.Invalid++
			result.AddError(rowNum, "", "row is empty after mapping")
			continue
		}

		if violations := validate.Validate(row, plan); len(violations) > 0 {
			result.Invalid++
			for _, v := range violations {
				result.AddError(rowNum, v.Column, v.Reason)
			}
			continue
		}

		outcome, err := inserter.Insert(ctx, row)
		if err != nil {
			return nil, err
		}
		switch outcome.Status {
		case insert.StatusInserted:
			result.Inserted++
		case insert.StatusSkipped:
			result.Skipped++
			result.AddError(rowNum, outcome.Column, outcome.Reason)
		case insert.StatusInvalid:
			result.Invalid++
			result.AddError(rowNum, outcome.Column, outcome.Reason)
		}
	}

	imp.logger.Info("import finished",
		zap.String("source", imp.desc.Name()),
		zap.String("table", table.Name()),
		zap.Int("total", result.Total),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped),
		zap.Int("invalid", result.Invalid),
	)
	return result, nil
}

// resolve performs the read → infer → plan stages shared by Run and
// Preview.
func (imp *Importer) resolve(ctx context.Context) (*tabimport.Batch, map[string]tabimport.ColumnProfile, *tabimport.ImportPlan, error) {
	batch, err := readers.Read(ctx, imp.desc)
	if err != nil {
		return nil, nil, nil, err
	}
	imp.logger.Debug("source read",
		zap.String("source", imp.desc.Name()),
		zap.Int("columns", len(batch.Columns)),
		zap.Int("rows", batch.Len()),
	)

	var inferOpts []infer.Option
	if imp.sampleLimit > 0 {
		inferOpts = append(inferOpts, infer.WithSampleLimit(imp.sampleLimit))
	}
	profiles := infer.New(inferOpts...).Infer(batch)

	plan, err := mapping.Resolve(batch, profiles, imp.overrides)
	if err != nil {
		return nil, nil, nil, err
	}
	return batch, profiles, plan, nil
}
