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
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tabimport"
)

// sniffSampleSize bounds how much of the file the dialect sniffer examines.
const sniffSampleSize = 8 * 1024

// delimiterCandidates are tried in order; the most consistently repeating
// one wins, comma as the fallback.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// CSVOptions configures the CSV reader.
type CSVOptions struct {
	// Delimiter forces a field delimiter instead of sniffing one.
	Delimiter rune
	// Quote forces a quote character ('"' or '\'') instead of sniffing one.
	Quote rune
	// SourceName tags errors with the source path.
	SourceName string
}

// CSVOption allows functional customization of the CSV reader.
type CSVOption func(*CSVOptions)

// WithDelimiter forces the field delimiter.
func WithDelimiter(r rune) CSVOption {
	return func(o *CSVOptions) { o.Delimiter = r }
}

// WithQuote forces the quote character.
func WithQuote(r rune) CSVOption {
	return func(o *CSVOptions) { o.Quote = r }
}

// WithSourceName tags reader errors with the originating path.
func WithSourceName(name string) CSVOption {
	return func(o *CSVOptions) { o.SourceName = name }
}

// ReadCSV parses delimited text into a batch. The delimiter and quote
// character are sniffed from a leading sample unless forced via options.
// The first row is the header; empty fields become null; short rows are
// padded with null and long rows truncated to the header width.
func ReadCSV(r io.Reader, options ...CSVOption) (*tabimport.Batch, error) {
	opts := CSVOptions{SourceName: "csv"}
	for _, opt := range options {
		opt(&opts)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &tabimport.SourceFormatError{Source: opts.SourceName, Err: err}
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	delim := opts.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(data)
	}
	quote := opts.Quote
	if quote == 0 {
		quote = sniffQuote(data, delim)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			err = fmt.Errorf("file is empty")
		}
		return nil, &tabimport.SourceFormatError{Source: opts.SourceName, Err: err}
	}

	columns := make([]string, 0, len(header))
	blank := true
	for i, h := range header {
		name := strings.TrimSpace(trimQuote(h, quote))
		if name == "" {
			name = "col_" + strconv.Itoa(i)
		} else {
			blank = false
		}
		columns = append(columns, name)
	}
	if blank {
		return nil, &tabimport.SourceFormatError{
			Source: opts.SourceName,
			Err:    fmt.Errorf("no header row found"),
		}
	}

	batch := tabimport.NewBatch(columns)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &tabimport.SourceFormatError{Source: opts.SourceName, Err: err}
		}

		row := make(tabimport.Row, len(columns))
		for i, col := range columns {
			if i >= len(record) {
				row[col] = tabimport.Null()
				continue
			}
			field := strings.TrimSpace(trimQuote(record[i], quote))
			if field == "" {
				row[col] = tabimport.Null()
			} else {
				row[col] = tabimport.Text(field)
			}
		}
		batch.Append(row)
	}
	return batch, nil
}

// sniffDelimiter scores each candidate by how consistently it repeats
// across the sample's leading lines. Comma wins ties and empty samples.
func sniffDelimiter(data []byte) rune {
	sample := data
	if len(sample) > sniffSampleSize {
		sample = sample[:sniffSampleSize]
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(sample))
	for scanner.Scan() && len(lines) < 10 {
		if line := scanner.Text(); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return ','
	}

	best, bestScore := ',', 0
	for _, cand := range delimiterCandidates {
		first := strings.Count(lines[0], string(cand))
		if first == 0 {
			continue
		}
		consistent := true
		for _, line := range lines[1:] {
			if strings.Count(line, string(cand)) != first {
				consistent = false
				break
			}
		}
		score := first
		if consistent {
			score *= 2
		}
		if score > bestScore {
			best, bestScore = cand, score
		}
	}
	return best
}

// sniffQuote picks the quote character: double quote whenever present,
// single quote when fields are visibly wrapped in it, double otherwise.
func sniffQuote(data []byte, delim rune) rune {
	sample := data
	if len(sample) > sniffSampleSize {
		sample = sample[:sniffSampleSize]
	}
	if bytes.ContainsRune(sample, '"') {
		return '"'
	}
	markers := []string{"'" + string(delim), string(delim) + "'"}
	for _, m := range markers {
		if bytes.Contains(sample, []byte(m)) {
			return '\''
		}
	}
	return '"'
}

// trimQuote strips a matching pair of non-standard quote characters from a
// field. encoding/csv only understands double quotes, so single-quoted
// dialects are unwrapped after parsing.
func trimQuote(field string, quote rune) string {
	if quote == '"' {
		return field
	}
	q := string(quote)
	if len(field) >= 2 && strings.HasPrefix(field, q) && strings.HasSuffix(field, q) {
		return field[1 : len(field)-1]
	}
	return field
}
