// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package json reads the row-set handover format of the external sync
// collaborator: a sheet's column headers (with inferred data types) plus its
// ordered rows.
package json

import (
	"fmt"

	"github.com/consensys/bedrock/pkg/schema"
	"github.com/consensys/bedrock/pkg/value"
	"github.com/consensys/bedrock/pkg/view"
	"github.com/tidwall/gjson"
)

// FromBytes parses a sheet handover document.  For example,
//
//	{"headers": [{"name": "X", "type": "number"}],
//	 "rows": [{"X": 1}, {"X": 2}]}
//
// is a sheet with one numeric column and two rows.  Cells are decoded by
// their JSON type; date columns arrive as strings and are coerced lazily at
// the calculator boundary, not here.
func FromBytes(data []byte) ([]schema.Header, []view.Row, error) {
	if !gjson.ValidBytes(data) {
		return nil, nil, fmt.Errorf("malformed row document")
	}
	//
	doc := gjson.ParseBytes(data)
	//
	headers, err := readHeaders(doc.Get("headers"))
	if err != nil {
		return nil, nil, err
	}
	//
	var rows []view.Row
	//
	doc.Get("rows").ForEach(func(_, raw gjson.Result) bool {
		row := make(view.Row)
		//
		raw.ForEach(func(name, cell gjson.Result) bool {
			row[name.String()] = decodeCell(cell)
			//
			return true
		})
		//
		rows = append(rows, row)
		//
		return true
	})
	//
	return headers, rows, nil
}

// Read the header list, mapping each inferred type name onto a DataType.
func readHeaders(list gjson.Result) ([]schema.Header, error) {
	var (
		headers []schema.Header
		err     error
	)
	//
	list.ForEach(func(_, h gjson.Result) bool {
		var datatype schema.DataType
		//
		name := h.Get("name").String()
		if name == "" {
			err = fmt.Errorf("header with empty name")
			return false
		}
		//
		if datatype, err = schema.ParseDataType(h.Get("type").String()); err != nil {
			err = fmt.Errorf("header %q: %w", name, err)
			return false
		}
		//
		headers = append(headers, schema.Header{Name: name, DataType: datatype})
		//
		return true
	})
	//
	if err != nil {
		return nil, err
	} else if len(headers) == 0 {
		return nil, fmt.Errorf("row document declares no headers")
	}
	//
	return headers, nil
}

// Decode one cell by its JSON type.  Nested objects and arrays degrade to
// their raw text, since a spreadsheet cell has no structure.
func decodeCell(cell gjson.Result) value.Value {
	switch cell.Type {
	case gjson.Null:
		return value.Null()
	case gjson.Number:
		return value.Number(cell.Num)
	case gjson.True:
		return value.Bool(true)
	case gjson.False:
		return value.Bool(false)
	case gjson.String:
		return value.Text(cell.Str)
	default:
		return value.Text(cell.Raw)
	}
}
