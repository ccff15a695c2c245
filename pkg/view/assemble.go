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
	"sort"
	"strings"

	"github.com/consensys/bedrock/pkg/schema"
	"github.com/consensys/bedrock/pkg/value"
	log "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

// ResolvedField is the final per-column display metadata of a view: label,
// order and alignment with all fallbacks applied, plus the resolved
// definition's data type.
type ResolvedField struct {
	// Column name this field projects.
	Column string
	// Label displayed for this field (column name when not configured).
	Label string
	// Order of this field within the projection.
	Order int
	// TextAlign with the type-based default applied.
	TextAlign schema.TextAlign
	// DataType of the resolved column definition.
	DataType schema.DataType
	// Visible reports whether the field is projected.
	Visible bool
	// GroupingKey marks the partitioning field.
	GroupingKey bool
	// Analysis operations enabled for this field.
	Analysis schema.Analysis
}

// FieldDiagnostic records a display field dropped from the projection
// because its column could not be resolved at all.
type FieldDiagnostic struct {
	// Column name which failed to resolve.
	Column string
	// Err describing the resolution failure.
	Err error
}

// Aggregate holds the values of the enabled analysis operations for one
// column.  Disabled operations are nil, as is every operation when the
// column had no countable values (never zero, never an error).
type Aggregate struct {
	// Subtotal of the countable values.
	Subtotal *float64
	// Count of the countable values.
	Count *int
	// Average of the countable values (subtotal / count).
	Average *float64
	// Min of the countable values.
	Min *float64
	// Max of the countable values.
	Max *float64
}

// Group is one partition of the assembled view.
type Group struct {
	// Key value shared by the rows of this group.
	Key value.Value
	// Rows of this group, in assembled order.
	Rows []*EnrichedRow
	// Aggregates per analysed column.
	Aggregates map[string]*Aggregate
}

// View is the assembled, projected output of the engine.  It lives for one
// request and is never persisted.
type View struct {
	// Fields of the projection: visible fields only, in display order.
	Fields []*ResolvedField
	// Groups of the view, in group order.
	Groups []*Group
	// Overall aggregates across the full row set.
	Overall map[string]*Aggregate
	// Diags records fields dropped from the projection.
	Diags []FieldDiagnostic
}

// Rows returns every row of the view in group order, which is the order the
// export collaborator receives them in.
func (v *View) Rows() []*EnrichedRow {
	var rows []*EnrichedRow
	//
	for _, g := range v.Groups {
		rows = append(rows, g.Rows...)
	}
	//
	return rows
}

// Assembler groups, sorts and aggregates enriched (and possibly joined) rows
// under a display configuration, then projects the result.  An assembler
// holds only configuration snapshots; it is safe for concurrent use across
// invocations.
type Assembler struct {
	catalog *schema.Catalog
	config  schema.DisplayConfig
}

// NewAssembler constructs an assembler over the given catalog and display
// configuration snapshots.
func NewAssembler(catalog *schema.Catalog, config schema.DisplayConfig) *Assembler {
	return &Assembler{catalog: catalog, config: config}
}

// Assemble builds the computed view over the given rows.  Dangling field
// references drop the affected field with a diagnostic; only cancellation
// aborts the whole computation, and then with no partial result.
func (a *Assembler) Assemble(ctx context.Context, rows []*EnrichedRow) (*View, error) {
	fields, diags := a.resolveFields()
	//
	if a.config.Search != "" {
		rows = filterRows(rows, fields, a.config.Search)
	}
	//
	rows = sortRows(rows, a.config.Sort)
	//
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	//
	groups := groupRows(rows, groupingField(fields))
	//
	if err := aggregateGroups(ctx, groups, rows, fields); err != nil {
		return nil, err
	}
	//
	overall := aggregateAll(rows, fields)
	//
	return &View{
		Fields:  visibleFields(fields),
		Groups:  groups,
		Overall: overall,
		Diags:   diags,
	}, nil
}

// Resolve every configured field through the catalog, applying the label and
// alignment fallbacks.  Unresolvable fields are dropped with a diagnostic;
// they do not abort the view.
func (a *Assembler) resolveFields() ([]*ResolvedField, []FieldDiagnostic) {
	var (
		fields []*ResolvedField
		diags  []FieldDiagnostic
	)
	//
	for _, fc := range a.config.Fields {
		def, err := a.catalog.Resolve(fc.Column)
		if err != nil {
			log.Debugf("dropping display field %q: %v", fc.Column, err)
			diags = append(diags, FieldDiagnostic{Column: fc.Column, Err: err})
			//
			continue
		}
		//
		label := fc.Label
		if label == "" {
			label = fc.Column
		}
		//
		align := fc.TextAlign
		if align == "" {
			align = schema.DefaultAlign(def.DataType)
		}
		//
		fields = append(fields, &ResolvedField{
			Column:      fc.Column,
			Label:       label,
			Order:       fc.Order,
			TextAlign:   align,
			DataType:    def.DataType,
			Visible:     fc.Visible,
			GroupingKey: fc.GroupingKey,
			Analysis:    fc.Analysis,
		})
	}
	//
	return fields, diags
}

// Filter rows to those whose visible fields contain the search term,
// case-insensitively.
func filterRows(rows []*EnrichedRow, fields []*ResolvedField, term string) []*EnrichedRow {
	var (
		needle = strings.ToLower(term)
		kept   []*EnrichedRow
	)
	//
	for _, row := range rows {
		for _, f := range fields {
			if !f.Visible {
				continue
			}
			//
			if strings.Contains(strings.ToLower(row.Get(f.Column).AsText()), needle) {
				kept = append(kept, row)
				break
			}
		}
	}
	//
	return kept
}

// Sort rows by the configured keys, primary first, using a stable sort so
// equal keys retain their input order.  Null values sort last regardless of
// direction.
func sortRows(rows []*EnrichedRow, keys []schema.SortKey) []*EnrichedRow {
	if len(keys) == 0 {
		return rows
	}
	//
	sorted := make([]*EnrichedRow, len(rows))
	copy(sorted, rows)
	//
	sort.SliceStable(sorted, func(i, j int) bool {
		for _, key := range keys {
			l, r := sorted[i].Get(key.Column), sorted[j].Get(key.Column)
			// Null sorts last, whatever the direction.
			switch {
			case l.IsNull() && r.IsNull():
				continue
			case l.IsNull():
				return false
			case r.IsNull():
				return true
			}
			//
			if c := l.Compare(r); c != 0 {
				if key.Descending {
					return c > 0
				}
				//
				return c < 0
			}
		}
		//
		return false
	})
	//
	return sorted
}

// Identify the partitioning field, if any.
func groupingField(fields []*ResolvedField) *ResolvedField {
	for _, f := range fields {
		if f.GroupingKey {
			return f
		}
	}
	//
	return nil
}

// groupKey indexes a group by the kind and textual rendering of its key, so
// that values of differing kinds (null vs the word "null", a number vs its
// textual twin) never merge into one group.
type groupKey struct {
	kind value.Kind
	text string
}

// Partition rows by the grouping field's value in first-occurrence order.
// With no grouping field the view is a single group keyed by null.
func groupRows(rows []*EnrichedRow, key *ResolvedField) []*Group {
	if key == nil {
		return []*Group{{Key: value.Null(), Rows: rows}}
	}
	//
	var (
		groups []*Group
		index  = make(map[groupKey]*Group)
	)
	//
	for _, row := range rows {
		k := row.Get(key.Column)
		gk := groupKey{k.Kind(), k.AsText()}
		//
		g, ok := index[gk]
		if !ok {
			g = &Group{Key: k}
			index[gk] = g
			groups = append(groups, g)
		}
		//
		g.Rows = append(g.Rows, row)
	}
	//
	return groups
}

// Compute per-group aggregates.  Groups fan out across goroutines, but
// accumulation within one group is strictly sequential in row order so that
// floating point summation is reproducible.
func aggregateGroups(ctx context.Context, groups []*Group, rows []*EnrichedRow, fields []*ResolvedField) error {
	p := pool.New().WithErrors().WithContext(ctx)
	//
	for _, g := range groups {
		g := g
		//
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			//
			g.Aggregates = aggregateAll(g.Rows, fields)
			//
			return nil
		})
	}
	//
	if err := p.Wait(); err != nil {
		return err
	}
	//
	return nil
}

// Compute the aggregates of every analysed field over the given rows,
// sequentially in row order.
func aggregateAll(rows []*EnrichedRow, fields []*ResolvedField) map[string]*Aggregate {
	aggregates := make(map[string]*Aggregate)
	//
	for _, f := range fields {
		if f.Analysis.Any() {
			aggregates[f.Column] = aggregateColumn(rows, f)
		}
	}
	//
	return aggregates
}

// Accumulate one column over the given rows.  Only numeric, non-null,
// non-error cells count; a column with no countable values yields null
// aggregates rather than zero.
func aggregateColumn(rows []*EnrichedRow, f *ResolvedField) *Aggregate {
	var (
		subtotal float64
		count    int
		min, max float64
	)
	//
	for _, row := range rows {
		if row.Failed(f.Column) {
			continue
		}
		//
		v := row.Get(f.Column)
		if v.IsNull() {
			continue
		}
		//
		n, err := v.AsNumber()
		if err != nil {
			continue
		}
		//
		if count == 0 || n < min {
			min = n
		}
		//
		if count == 0 || n > max {
			max = n
		}
		//
		subtotal += n
		count++
	}
	//
	agg := &Aggregate{}
	if count == 0 {
		return agg
	}
	//
	if f.Analysis.Subtotal {
		agg.Subtotal = ptr(subtotal)
	}
	//
	if f.Analysis.Count {
		agg.Count = ptr(count)
	}
	//
	if f.Analysis.Average {
		agg.Average = ptr(subtotal / float64(count))
	}
	//
	if f.Analysis.Min {
		agg.Min = ptr(min)
	}
	//
	if f.Analysis.Max {
		agg.Max = ptr(max)
	}
	//
	return agg
}

// Project the visible fields in display order, name-tiebroken so that equal
// orders remain deterministic.
func visibleFields(fields []*ResolvedField) []*ResolvedField {
	var visible []*ResolvedField
	//
	for _, f := range fields {
		if f.Visible {
			visible = append(visible, f)
		}
	}
	//
	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].Order != visible[j].Order {
			return visible[i].Order < visible[j].Order
		}
		//
		return visible[i].Column < visible[j].Column
	})
	//
	return visible
}

func ptr[T any](v T) *T {
	return &v
}
