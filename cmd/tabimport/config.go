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

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Database string `mapstructure:"database"`
	Table    string `mapstructure:"table"`

	Source struct {
		Path   string `mapstructure:"path"`
		Format string `mapstructure:"format"`

		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
		Table  string `mapstructure:"table"`
		Query  string `mapstructure:"query"`

		MongoURI        string `mapstructure:"mongo_uri"`
		MongoDatabase   string `mapstructure:"mongo_database"`
		MongoCollection string `mapstructure:"mongo_collection"`
	} `mapstructure:"source"`

	SampleLimit int  `mapstructure:"sample_limit"`
	Verbose     bool `mapstructure:"verbose"`
}

// LoadConfig loads configuration from environment variables and an optional
// tabimport.yaml in the working directory.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("database", "tabimport.db")
	v.SetDefault("sample_limit", 0)

	v.SetEnvPrefix("TABIMPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("tabimport")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Config file is optional.
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

// Validate checks that the configuration names exactly one source.
func (c *Config) Validate() error {
	sources := 0
	if c.Source.Path != "" {
		sources++
	}
	if c.Source.DSN != "" {
		sources++
	}
	if c.Source.MongoURI != "" {
		sources++
	}
	switch sources {
	case 0:
		return fmt.Errorf("no source configured: set a file path, a database DSN, or a MongoDB URI")
	case 1:
		return nil
	default:
		return fmt.Errorf("multiple sources configured: pick one of file path, database DSN, or MongoDB URI")
	}
}
