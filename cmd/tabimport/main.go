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

// Command tabimport loads a tabular source (CSV, JSON, spreadsheet, or a
// database query) into a local SQLite database and reports what happened
// to each row.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tabimport"
	"tabimport/pipeline"
	"tabimport/readers"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		database string
		table    string
		format   string
		driver   string
		dsn      string
		srcTable string
		query    string
		mongoURI string
		mongoDB  string
		mongoCol string
		sample   int
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "tabimport [source-file]",
		Short: "Import tabular data into a local SQLite database",
		Long: `tabimport reads a tabular source, infers column types and constraints,
creates (or verifies) the target table, and inserts the data row by row.
Rows with duplicate unique values are skipped; rows failing validation
are reported as invalid. The import always runs to the end of the source.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadConfig()
			if err != nil {
				return err
			}
			applyFlags(cmd, config, database, table, format, driver, dsn, srcTable, query,
				mongoURI, mongoDB, mongoCol, sample, verbose)
			if len(args) == 1 {
				config.Source.Path = args[0]
			}
			if err := config.Validate(); err != nil {
				return err
			}
			return runImport(cmd.Context(), config)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&database, "database", "d", "", "target SQLite database file")
	cmd.Flags().StringVarP(&table, "table", "t", "", "target table name (default: derived from the source)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "source format: csv, json, or xlsx (default: by extension)")
	cmd.Flags().StringVar(&driver, "driver", "", "source database driver: postgres, sqlserver, or sqlite")
	cmd.Flags().StringVar(&dsn, "dsn", "", "source database connection string")
	cmd.Flags().StringVar(&srcTable, "source-table", "", "table to read from the source database")
	cmd.Flags().StringVar(&query, "query", "", "query to run against the source database")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI")
	cmd.Flags().StringVar(&mongoDB, "mongo-database", "", "MongoDB database name")
	cmd.Flags().StringVar(&mongoCol, "mongo-collection", "", "MongoDB collection name")
	cmd.Flags().IntVar(&sample, "sample-limit", 0, "rows examined per column during type inference (0 = default)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

// applyFlags lets explicitly-set flags override file and environment config.
func applyFlags(cmd *cobra.Command, config *Config,
	database, table, format, driver, dsn, srcTable, query, mongoURI, mongoDB, mongoCol string,
	sample int, verbose bool,
) {
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("database") {
		config.Database = database
	}
	if set("table") {
		config.Table = table
	}
	if set("format") {
		config.Source.Format = format
	}
	if set("driver") {
		config.Source.Driver = driver
	}
	if set("dsn") {
		config.Source.DSN = dsn
	}
	if set("source-table") {
		config.Source.Table = srcTable
	}
	if set("query") {
		config.Source.Query = query
	}
	if set("mongo-uri") {
		config.Source.MongoURI = mongoURI
	}
	if set("mongo-database") {
		config.Source.MongoDatabase = mongoDB
	}
	if set("mongo-collection") {
		config.Source.MongoCollection = mongoCol
	}
	if set("sample-limit") {
		config.SampleLimit = sample
	}
	if set("verbose") {
		config.Verbose = verbose
	}
}

func runImport(ctx context.Context, config *Config) error {
	logger, err := newLogger(config.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	desc := sourceDescriptor(config)
	imp, err := pipeline.New().
		From(desc).
		Into(config.Database, config.Table).
		WithSampleLimit(config.SampleLimit).
		WithLogger(logger).
		Build()
	if err != nil {
		return err
	}

	result, err := imp.Run(ctx)
	if err != nil {
		return err
	}
	printResult(os.Stdout, desc.Name(), result)
	return nil
}

// sourceDescriptor builds the reader descriptor from the source half of
// the configuration. The target table name (config.Table) stays out of it:
// a database import may read source table X into a differently named local
// table.
func sourceDescriptor(config *Config) readers.Descriptor {
	return readers.Descriptor{
		Path:            config.Source.Path,
		Format:          readers.Format(config.Source.Format),
		Driver:          config.Source.Driver,
		DSN:             config.Source.DSN,
		Table:           config.Source.Table,
		Query:           config.Source.Query,
		MongoURI:        config.Source.MongoURI,
		MongoDatabase:   config.Source.MongoDatabase,
		MongoCollection: config.Source.MongoCollection,
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

// printResult writes the human-readable import summary.
func printResult(w *os.File, source string, result *tabimport.ImportResult) {
	fmt.Fprintf(w, "\nImport of %s finished.\n", source)
	fmt.Fprintf(w, "  Total rows:    %d\n", result.Total)
	fmt.Fprintf(w, "  Inserted:      %d\n", result.Inserted)
	fmt.Fprintf(w, "  Skipped:       %d\n", result.Skipped)
	fmt.Fprintf(w, "  Invalid:       %d\n", result.Invalid)
	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "\nRow issues:\n")
		for _, re := range result.Errors {
			fmt.Fprintf(w, "  %s\n", re.String())
		}
	}
}
