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
package schema

// TextAlign positions a field's values within its display column.
type TextAlign string

const (
	// ALIGN_LEFT aligns values to the left (default for text).
	ALIGN_LEFT TextAlign = "left"
	// ALIGN_RIGHT aligns values to the right (default for numerics).
	ALIGN_RIGHT TextAlign = "right"
	// ALIGN_CENTER centres values (default for booleans).
	ALIGN_CENTER TextAlign = "center"
)

// DefaultAlign returns the type-based alignment fallback applied when a
// field configures none: numbers and currency right, booleans centre,
// everything else left.
func DefaultAlign(datatype DataType) TextAlign {
	switch {
	case datatype.IsNumeric():
		return ALIGN_RIGHT
	case datatype == BOOLEAN_TYPE:
		return ALIGN_CENTER
	default:
		return ALIGN_LEFT
	}
}

// Analysis flags the aggregate operations enabled for a field.  Each enabled
// operation is computed once per group and once over the full row set.
type Analysis struct {
	// Subtotal sums the countable values.
	Subtotal bool
	// Count tallies the countable values.
	Count bool
	// Average divides subtotal by count.
	Average bool
	// Min takes the smallest countable value.
	Min bool
	// Max takes the largest countable value.
	Max bool
}

// Any reports whether at least one aggregate operation is enabled.
func (a Analysis) Any() bool {
	return a.Subtotal || a.Count || a.Average || a.Min || a.Max
}

// FieldConfig layers presentation and aggregation configuration over one
// column (physical or virtual) of the view.
type FieldConfig struct {
	// Column names the configured column.  It must resolve through the
	// catalog; a dangling reference drops the field from the projection with
	// a diagnostic.
	Column string
	// Label overrides the displayed column heading.  Empty falls back to the
	// column name.
	Label string
	// Visible includes this field in the projection.
	Visible bool
	// Order positions this field within the projection.
	Order int
	// TextAlign overrides the type-based alignment default.  Empty applies
	// the default.
	TextAlign TextAlign
	// GroupingKey partitions the view by this field's values.
	GroupingKey bool
	// Analysis operations enabled for this field.
	Analysis Analysis
}

// SortKey orders rows by one column.
type SortKey struct {
	// Column to sort by.
	Column string
	// Descending reverses the ordering.  Null values sort last regardless of
	// direction.
	Descending bool
}

// DisplayConfig is the full per-view presentation configuration: the field
// list plus sort and search settings.
type DisplayConfig struct {
	// Fields configured for this view.
	Fields []FieldConfig
	// Sort keys, applied primary-first via a stable comparison.
	Sort []SortKey
	// Search filters rows to those whose visible fields contain this term
	// (case-insensitive).  Empty disables filtering.
	Search string
}
