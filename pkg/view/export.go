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
package view

import "github.com/consensys/bedrock/pkg/schema"

// Cell is one exported field of one row: label, stringified value and
// resolved alignment.  This shape is consumed by the CSV/PDF export
// collaborator and must stay stable and free of UI-only concerns.
type Cell struct {
	// Label of the field.
	Label string
	// Value rendered as text (empty for null).
	Value string
	// TextAlign resolved for the field.
	TextAlign schema.TextAlign
}

// FlatRows projects the view into flat export rows: per row, the visible
// fields in display order.  Group structure is flattened; rows appear in
// group order.
func FlatRows(v *View) [][]Cell {
	var out [][]Cell
	//
	for _, row := range v.Rows() {
		cells := make([]Cell, len(v.Fields))
		//
		for i, f := range v.Fields {
			cells[i] = Cell{
				Label:     f.Label,
				Value:     row.Get(f.Column).AsText(),
				TextAlign: f.TextAlign,
			}
		}
		//
		out = append(out, cells)
	}
	//
	return out
}
