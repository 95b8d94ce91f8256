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
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tabimport"
)

// ReadMongo materializes a MongoDB collection as a batch. A collection of
// flat documents is batch-shaped exactly like a JSON array of objects: the
// union of field names across documents, in first-seen order, becomes the
// column list, and fields missing from a document yield null. Nested
// documents flatten into dot-joined paths.
func ReadMongo(ctx context.Context, uri, database, collection string) (*tabimport.Batch, error) {
	source := fmt.Sprintf("mongodb %s.%s", database, collection)
	if database == "" || collection == "" {
		return nil, &tabimport.SourceFormatError{
			Source: source,
			Err:    fmt.Errorf("database and collection are required"),
		}
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &tabimport.SourceFormatError{Source: source, Err: err}
	}
	defer client.Disconnect(ctx)

	cursor, err := client.Database(database).Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, &tabimport.SourceFormatError{Source: source, Err: err}
	}
	defer cursor.Close(ctx)

	var columns []string
	seen := make(map[string]bool)
	var rows []tabimport.Row

	for cursor.Next(ctx) {
		var doc bson.D
		if err := cursor.Decode(&doc); err != nil {
			return nil, &tabimport.SourceFormatError{Source: source, Err: err}
		}
		row := make(tabimport.Row, len(doc))
		flattenBSON(doc, "", row, &columns, seen)
		rows = append(rows, row)
	}
	if err := cursor.Err(); err != nil {
		return nil, &tabimport.SourceFormatError{Source: source, Err: err}
	}

	batch := tabimport.NewBatch(columns)
	for _, row := range rows {
		batch.Append(row)
	}
	return batch, nil
}

// flattenBSON fills a row from one document, recording new field paths in
// first-seen order and recursing into embedded documents.
func flattenBSON(doc bson.D, prefix string, row tabimport.Row, columns *[]string, seen map[string]bool) {
	for _, elem := range doc {
		path := elem.Key
		if prefix != "" {
			path = prefix + "." + elem.Key
		}
		if nested, ok := elem.Value.(bson.D); ok {
			flattenBSON(nested, path, row, columns, seen)
			continue
		}
		if !seen[path] {
			seen[path] = true
			*columns = append(*columns, path)
		}
		row[path] = bsonValue(elem.Value)
	}
}

// bsonValue maps BSON primitives onto the Value union.
func bsonValue(raw interface{}) tabimport.Value {
	switch v := raw.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return tabimport.Null()
	case string:
		return tabimport.Text(v)
	case bool:
		return tabimport.Bool(v)
	case int32:
		return tabimport.Integer(int64(v))
	case int64:
		return tabimport.Integer(v)
	case float64:
		return tabimport.Real(v)
	case primitive.DateTime:
		return tabimport.Time(v.Time())
	case primitive.ObjectID:
		return tabimport.Text(v.Hex())
	case primitive.Decimal128:
		return tabimport.Text(v.String())
	case bson.A:
		return tabimport.Text(fmt.Sprintf("%v", v))
	default:
		return tabimport.Text(fmt.Sprintf("%v", v))
	}
}
