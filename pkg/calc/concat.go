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
package calc

import (
	"strings"

	"github.com/consensys/bedrock/pkg/value"
)

// DEFAULT_SEPARATOR joins concatenated values when no separator is
// configured.
const DEFAULT_SEPARATOR = " "

// ConcatSpec joins the values of several source columns into one string.
// Null and empty values are skipped entirely (not replaced by empty
// placeholders), which preserves natural-language joins such as
// "FirstName LastName" when a middle name is absent.
type ConcatSpec struct {
	// Columns to join, in configured order.
	Columns []string
	// Prefix prepended when at least one value survives.
	Prefix string
	// Separator between surviving values.
	Separator string
	// Suffix appended when at least one value survives.
	Suffix string
}

// NewConcatSpec constructs a concatenation with the default separator.
func NewConcatSpec(columns ...string) *ConcatSpec {
	return &ConcatSpec{Columns: columns, Separator: DEFAULT_SEPARATOR}
}

// Validate checks this spec names at least one source column.
func (c *ConcatSpec) Validate() error {
	if len(c.Columns) == 0 {
		return Validationf(INVALID_SPEC, "concatenation names no source columns")
	}
	//
	return nil
}

// References returns the source columns this concatenation reads.
func (c *ConcatSpec) References() []string {
	return c.Columns
}

// Eval joins the surviving source values in configured column order.  When
// no column produces a usable value the result is the empty string with
// neither prefix nor suffix applied, so an all-null row never yields a bare
// prefix+suffix artefact.
func (c *ConcatSpec) Eval(env Env) (value.Value, *ComputationError) {
	var parts []string
	//
	for _, col := range c.Columns {
		v, ok := env.Lookup(col)
		if !ok || v.IsEmpty() {
			continue
		}
		//
		parts = append(parts, v.AsText())
	}
	//
	if len(parts) == 0 {
		return value.Text(""), nil
	}
	//
	return value.Text(c.Prefix + strings.Join(parts, c.Separator) + c.Suffix), nil
}
