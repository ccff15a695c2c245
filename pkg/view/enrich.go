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

import (
	"context"

	"github.com/consensys/bedrock/pkg/calc"
	"github.com/consensys/bedrock/pkg/schema"
	"github.com/consensys/bedrock/pkg/value"
)

// Enricher applies the active virtual columns of one sheet to raw rows.
// Calculators run strictly in display order, so a later virtual column may
// reference the output of an earlier one.  Cyclic references are rejected at
// configuration time by the catalog.
type Enricher struct {
	catalog *schema.Catalog
	// Virtual columns in application order, snapshotted at construction.
	virtuals []*schema.ColumnDefinition
}

// NewEnricher constructs an enricher over the given catalog snapshot.
func NewEnricher(catalog *schema.Catalog) *Enricher {
	return &Enricher{catalog: catalog, virtuals: catalog.VirtualColumns()}
}

// EnrichAll enriches every row of a sheet, returning fresh rows in input
// order.  The input rows are never mutated.  Cancellation is checked between
// rows; on cancellation no partial result is returned.
func (e *Enricher) EnrichAll(ctx context.Context, rows []Row) ([]*EnrichedRow, error) {
	out := make([]*EnrichedRow, len(rows))
	//
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		//
		out[i] = e.Enrich(row)
	}
	//
	return out, nil
}

// Enrich applies every active virtual column to one row, writing each result
// under the virtual column's name into a new row.  A failing calculator
// nulls its own cell and records a diagnostic; it never aborts the row.
func (e *Enricher) Enrich(row Row) *EnrichedRow {
	enriched := &EnrichedRow{
		Cells: row.Clone(),
		Diags: make(map[string]*calc.ComputationError),
	}
	//
	for _, col := range e.virtuals {
		result, diag := col.Calculator.Eval(enriched.Cells)
		//
		if diag != nil {
			enriched.Cells[col.Name] = value.Null()
			enriched.Diags[col.Name] = diag
		} else {
			enriched.Cells[col.Name] = result
		}
	}
	//
	return enriched
}
