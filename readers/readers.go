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

// Package readers turns external sources into the uniform tabimport.Batch
// representation: an ordered column list plus rows of tagged values.
//
// Supported sources: delimited text files (delimiter and quote sniffed),
// JSON arrays of flat objects, Excel workbooks (first sheet), relational
// databases (table or query, via the postgres/sqlserver/sqlite drivers),
// and MongoDB collections. File paths may also name s3:// objects or
// http(s) URLs.
//
// Every reader fails with *tabimport.SourceFormatError when the source
// cannot be parsed into a flat header+rows shape.
package readers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"tabimport"
)

// Format identifies a file source format.
type Format string

const (
	// FormatAuto selects the format from the file extension.
	FormatAuto  Format = ""
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatExcel Format = "xlsx"
)

// formatRegistry maps file extensions to formats, mirroring the pipeline's
// public contract: one reader per extension.
var formatRegistry = map[string]Format{
	".csv":  FormatCSV,
	".tsv":  FormatCSV,
	".json": FormatJSON,
	".xlsx": FormatExcel,
	".xlsm": FormatExcel,
}

// Descriptor names one external source. Exactly one of the three source
// families applies: a file path (with optional explicit format), a
// relational connection (driver + DSN + table or query), or a MongoDB
// collection.
type Descriptor struct {
	// Path is a local file path, an s3://bucket/key object, or an
	// http(s) URL.
	Path   string
	Format Format

	// Driver selects the relational driver: "postgres", "sqlserver"
	// (alias "mssql"), or "sqlite". DSN is the driver connection string.
	// Either Table or Query names the data to materialize.
	Driver string
	DSN    string
	Table  string
	Query  string

	// MongoURI, MongoDatabase and MongoCollection name a MongoDB source.
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Name returns a short identifier for the source, used to derive default
// target table names and to tag errors.
func (d Descriptor) Name() string {
	switch {
	case d.MongoCollection != "":
		return d.MongoCollection
	case d.Table != "":
		return d.Table
	case d.Query != "":
		return "db_query_import"
	default:
		return d.Path
	}
}

// Read materializes the described source as a batch.
func Read(ctx context.Context, desc Descriptor) (*tabimport.Batch, error) {
	switch {
	case desc.MongoURI != "":
		return ReadMongo(ctx, desc.MongoURI, desc.MongoDatabase, desc.MongoCollection)
	case desc.DSN != "":
		return ReadDatabase(ctx, desc)
	case desc.Path != "":
		return readFile(ctx, desc)
	default:
		return nil, &tabimport.SourceFormatError{
			Source: desc.Name(),
			Err:    fmt.Errorf("descriptor names no source"),
		}
	}
}

func readFile(ctx context.Context, desc Descriptor) (*tabimport.Batch, error) {
	format := desc.Format
	if format == FormatAuto {
		ext := strings.ToLower(filepath.Ext(desc.Path))
		var ok bool
		if format, ok = formatRegistry[ext]; !ok {
			return nil, &tabimport.SourceFormatError{
				Source: desc.Path,
				Err:    fmt.Errorf("unsupported file type %q", ext),
			}
		}
	}

	rc, err := openSource(ctx, desc.Path)
	if err != nil {
		return nil, &tabimport.SourceFormatError{Source: desc.Path, Err: err}
	}
	defer rc.Close()

	switch format {
	case FormatCSV:
		return ReadCSV(rc, WithSourceName(desc.Path))
	case FormatJSON:
		return ReadJSON(rc, desc.Path)
	case FormatExcel:
		return ReadExcel(rc, desc.Path)
	default:
		return nil, &tabimport.SourceFormatError{
			Source: desc.Path,
			Err:    fmt.Errorf("unsupported format %q", format),
		}
	}
}
