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
	"github.com/consensys/bedrock/pkg/calc"
	"github.com/consensys/bedrock/pkg/value"
)

// Row maps column names to cell values.  Ordering is irrelevant; projection
// order comes from the display configuration.  The engine treats incoming
// rows as immutable and always constructs fresh rows during enrichment.
type Row map[string]value.Value

// Lookup implements calc.Env, resolving a column name against this row.
func (r Row) Lookup(name string) (value.Value, bool) {
	v, ok := r[name]
	//
	return v, ok
}

// Clone produces an independent copy of this row.
func (r Row) Clone() Row {
	fresh := make(Row, len(r))
	//
	for name, v := range r {
		fresh[name] = v
	}
	//
	return fresh
}

// EnrichedRow is a raw row extended with the values of all active virtual
// columns of its sheet, any per-cell computation diagnostics captured along
// the way, and (after joining) the matching detail rows.
type EnrichedRow struct {
	// Cells of this row, physical and virtual.
	Cells Row
	// Diags records the per-cell failures absorbed during enrichment, keyed
	// by column name.  A cell with a diagnostic holds the null value.
	Diags map[string]*calc.ComputationError
	// Details holds the joined detail rows (empty when nothing matched, nil
	// before joining).
	Details []*EnrichedRow
}

// Get returns the value of the named cell, or null when the column is absent
// from this row.
func (r *EnrichedRow) Get(name string) value.Value {
	if v, ok := r.Cells[name]; ok {
		return v
	}
	//
	return value.Null()
}

// Failed reports whether the named cell carries a computation diagnostic.
func (r *EnrichedRow) Failed(name string) bool {
	_, failed := r.Diags[name]
	//
	return failed
}
