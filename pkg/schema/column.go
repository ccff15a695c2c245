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

import (
	"fmt"
	"strings"
	"time"

	"github.com/consensys/bedrock/pkg/calc"
	"github.com/google/uuid"
)

// Kind distinguishes physical columns (present in the raw source) from
// virtual columns (computed by a calculator).
type Kind uint8

const (
	// PHYSICAL_COLUMN is read directly from the external row source.  Such
	// columns are refreshed each time the sync collaborator re-reads headers
	// and deactivated (never deleted) when their header disappears.
	PHYSICAL_COLUMN Kind = iota
	// VIRTUAL_COLUMN is computed by a calculator.  Such columns are created
	// and destroyed by administrative configuration.
	VIRTUAL_COLUMN
)

// String returns a stable textual name for this kind.
func (k Kind) String() string {
	if k == PHYSICAL_COLUMN {
		return "physical"
	}

	return "virtual"
}

// DataType identifies the declared type of a column.  Cell values are not
// guaranteed to conform (the source is a spreadsheet); the declared type
// drives display defaults and date coercion.
type DataType uint8

const (
	// TEXT_TYPE holds free text.
	TEXT_TYPE DataType = iota
	// NUMBER_TYPE holds numeric values.
	NUMBER_TYPE
	// DATE_TYPE holds dates.
	DATE_TYPE
	// BOOLEAN_TYPE holds booleans.
	BOOLEAN_TYPE
	// CURRENCY_TYPE holds monetary amounts.
	CURRENCY_TYPE
)

// String returns a stable textual name for this data type.
func (t DataType) String() string {
	switch t {
	case NUMBER_TYPE:
		return "number"
	case DATE_TYPE:
		return "date"
	case BOOLEAN_TYPE:
		return "boolean"
	case CURRENCY_TYPE:
		return "currency"
	default:
		return "text"
	}
}

// IsNumeric reports whether values of this type align right by default and
// participate in aggregation.
func (t DataType) IsNumeric() bool {
	return t == NUMBER_TYPE || t == CURRENCY_TYPE
}

// ParseDataType maps a textual type name (as reported by the sync
// collaborator, or written in configuration) to a DataType.
func ParseDataType(name string) (DataType, error) {
	switch strings.ToLower(name) {
	case "text", "string", "":
		return TEXT_TYPE, nil
	case "number", "numeric", "float", "integer":
		return NUMBER_TYPE, nil
	case "date", "datetime":
		return DATE_TYPE, nil
	case "boolean", "bool":
		return BOOLEAN_TYPE, nil
	case "currency", "money":
		return CURRENCY_TYPE, nil
	default:
		return TEXT_TYPE, fmt.Errorf("unknown data type %q", name)
	}
}

// ColumnId uniquely identifies a column definition.  Identity is id-based
// internally; the column name is merely the externally visible (and
// potentially colliding) identifier.
type ColumnId = uuid.UUID

// ColumnDefinition describes one physical or virtual column of a sheet.
type ColumnDefinition struct {
	// Id of this definition.
	Id ColumnId
	// Name is the externally visible identifier.  Names are not required to
	// be unique across the physical and virtual namespaces; the catalog's
	// resolution policy picks one definition per name.
	Name string
	// Kind of column (physical / virtual).
	Kind Kind
	// DataType declared for this column.
	DataType DataType
	// Active reports whether this column participates in views.  Physical
	// columns are deactivated when their header disappears from the source.
	Active bool
	// DisplayOrder positions this column, and fixes the order in which
	// virtual columns are applied during enrichment.
	DisplayOrder int
	// UpdatedAt records the last modification, used to break ties between
	// colliding virtual definitions.
	UpdatedAt time.Time
	// Calculator producing this column's values (virtual columns only).
	Calculator *calc.Spec
}

// NewPhysical constructs an active physical column definition.
func NewPhysical(name string, datatype DataType, order int) *ColumnDefinition {
	return &ColumnDefinition{
		Id:           uuid.New(),
		Name:         name,
		Kind:         PHYSICAL_COLUMN,
		DataType:     datatype,
		Active:       true,
		DisplayOrder: order,
		UpdatedAt:    time.Now(),
	}
}

// NewVirtual constructs an active virtual column definition backed by the
// given calculator.
func NewVirtual(name string, datatype DataType, order int, spec *calc.Spec) *ColumnDefinition {
	return &ColumnDefinition{
		Id:           uuid.New(),
		Name:         name,
		Kind:         VIRTUAL_COLUMN,
		DataType:     datatype,
		Active:       true,
		DisplayOrder: order,
		UpdatedAt:    time.Now(),
		Calculator:   spec,
	}
}

// IsVirtual reports whether this is a virtual column definition.
func (c *ColumnDefinition) IsVirtual() bool {
	return c.Kind == VIRTUAL_COLUMN
}
