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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tabimport"
)

// ReadJSON parses a top-level JSON array of objects into a batch. The
// union of all keys across objects, in first-seen order, becomes the
// column list; keys missing from a given object yield null for that row.
// Nested objects are flattened into dot-joined key paths (address.city);
// nested arrays are kept as their compact JSON text. Any element that is
// not an object fails the read.
func ReadJSON(r io.Reader, source string) (*tabimport.Batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &tabimport.SourceFormatError{Source: source, Err: err}
	}

	// First pass: walk the token stream to validate the shape and collect
	// flattened key paths in first-seen order. encoding/json maps lose key
	// order, the token stream does not.
	columns, err := scanJSONColumns(data)
	if err != nil {
		return nil, &tabimport.SourceFormatError{Source: source, Err: err}
	}

	// Second pass: decode values. The shape was validated above, so a
	// plain decode into maps is safe here.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var items []map[string]interface{}
	if err := dec.Decode(&items); err != nil {
		return nil, &tabimport.SourceFormatError{Source: source, Err: err}
	}

	batch := tabimport.NewBatch(columns)
	for _, item := range items {
		row := make(tabimport.Row, len(columns))
		flattenJSON(item, "", row)
		batch.Append(row)
	}
	return batch, nil
}

// scanJSONColumns validates that the document is an array of objects and
// returns the flattened key paths in first-seen order.
func scanJSONColumns(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("file is empty")
		}
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("JSON file must contain a list of objects")
	}

	var columns []string
	seen := make(map[string]bool)
	index := 0
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, fmt.Errorf("element %d is not an object", index)
		}
		if err := scanObjectKeys(dec, "", &columns, seen); err != nil {
			return nil, err
		}
		index++
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return nil, err
	}
	return columns, nil
}

// scanObjectKeys records the object's flattened leaf paths, recursing into
// nested objects. The caller has already consumed the opening '{'.
func scanObjectKeys(dec *json.Decoder, prefix string, columns *[]string, seen map[string]bool) error {
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", keyTok)
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := valTok.(json.Delim); ok {
			switch d {
			case '{':
				if err := scanObjectKeys(dec, path, columns, seen); err != nil {
					return err
				}
				continue
			case '[':
				if err := skipJSONValue(dec, 1); err != nil {
					return err
				}
			}
		}
		if !seen[path] {
			seen[path] = true
			*columns = append(*columns, path)
		}
	}
	_, err := dec.Token() // closing '}'
	return err
}

// skipJSONValue consumes tokens until the composite value opened at the
// given depth is closed.
func skipJSONValue(dec *json.Decoder, depth int) error {
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// flattenJSON fills a row from one decoded object, flattening nested
// objects into dot paths and serializing nested arrays as JSON text.
func flattenJSON(item map[string]interface{}, prefix string, row tabimport.Row) {
	for key, raw := range item {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch v := raw.(type) {
		case map[string]interface{}:
			flattenJSON(v, path, row)
		case []interface{}:
			encoded, err := json.Marshal(v)
			if err != nil {
				row[path] = tabimport.Text(fmt.Sprintf("%v", v))
				continue
			}
			row[path] = tabimport.Text(string(encoded))
		case json.Number:
			row[path] = numberValue(v)
		case string:
			if strings.TrimSpace(v) == "" {
				row[path] = tabimport.Null()
			} else {
				row[path] = tabimport.Text(v)
			}
		case bool:
			row[path] = tabimport.Bool(v)
		case nil:
			row[path] = tabimport.Null()
		default:
			row[path] = tabimport.Text(fmt.Sprintf("%v", v))
		}
	}
}

// numberValue keeps whole JSON numbers as integers and everything else as
// reals, so inference sees the distinction the source made.
func numberValue(n json.Number) tabimport.Value {
	if i, err := n.Int64(); err == nil && !strings.ContainsAny(n.String(), ".eE") {
		return tabimport.Integer(i)
	}
	if f, err := strconv.ParseFloat(n.String(), 64); err == nil {
		return tabimport.Real(f)
	}
	return tabimport.Text(n.String())
}
