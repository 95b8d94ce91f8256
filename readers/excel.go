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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"tabimport"
)

// ReadExcel parses the first worksheet of an Excel workbook into a batch.
// The first row supplies the headers, subsequent rows the data; reading
// stops at the first fully blank row or the sheet's used range, whichever
// comes first.
func ReadExcel(r io.Reader, source string) (*tabimport.Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &tabimport.SourceFormatError{Source: source, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &tabimport.SourceFormatError{
			Source: source,
			Err:    fmt.Errorf("workbook has no sheets"),
		}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &tabimport.SourceFormatError{Source: source, Err: err}
	}
	if len(rows) == 0 || blankRow(rows[0]) {
		return nil, &tabimport.SourceFormatError{
			Source: source,
			Err:    fmt.Errorf("first sheet has no header row"),
		}
	}

	columns := make([]string, 0, len(rows[0]))
	for i, h := range rows[0] {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "col_" + strconv.Itoa(i)
		}
		columns = append(columns, name)
	}

	batch := tabimport.NewBatch(columns)
	for _, cells := range rows[1:] {
		if blankRow(cells) {
			break
		}
		row := make(tabimport.Row, len(columns))
		for i, col := range columns {
			if i >= len(cells) {
				row[col] = tabimport.Null()
				continue
			}
			cell := strings.TrimSpace(cells[i])
			if cell == "" {
				row[col] = tabimport.Null()
			} else {
				row[col] = tabimport.Text(cell)
			}
		}
		batch.Append(row)
	}
	return batch, nil
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
