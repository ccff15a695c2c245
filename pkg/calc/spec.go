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

// Package calc provides the value-producing units behind virtual columns:
// structured formula evaluation, regex transformation, concatenation and the
// currency / date format converters.  Calculators are pure: they read cell
// values through a row environment and construct a fresh result value,
// reporting per-cell failures as ComputationError diagnostics which never
// propagate past the single-column boundary.
package calc

import (
	"github.com/consensys/bedrock/pkg/value"
)

// Env resolves a column name to its cell value within the current row.  Rows
// implement this directly; the indirection keeps calculators independent of
// how rows are stored.
type Env interface {
	// Lookup the value of the named column, reporting whether the column is
	// present in the row at all.
	Lookup(name string) (value.Value, bool)
}

// Method identifies which calculator a specification selects.
type Method uint8

const (
	// FORMULA evaluates a structured arithmetic expression.
	FORMULA Method = iota
	// REGEX transforms a source column through a regular expression.
	REGEX
	// CONCAT joins several source columns into one string.
	CONCAT
	// CURRENCY converts between numbers and currency display strings.
	CURRENCY
	// DATE_FORMAT converts a date into a display string.
	DATE_FORMAT
)

// String returns a stable textual name for this method.
func (m Method) String() string {
	switch m {
	case FORMULA:
		return "formula"
	case REGEX:
		return "regex"
	case CONCAT:
		return "concat"
	case CURRENCY:
		return "currency"
	default:
		return "date"
	}
}

// Spec is the tagged union of calculator specifications attached to a
// virtual column.  Exactly one branch is populated, selected by Method.
type Spec struct {
	// Method selects the populated branch.
	Method Method
	// Formula branch.
	Formula *FormulaSpec
	// Regex branch.
	Regex *RegexSpec
	// Concat branch.
	Concat *ConcatSpec
	// Currency branch.
	Currency *CurrencySpec
	// DateFormat branch.
	DateFormat *DateFormatSpec
}

// NewFormula wraps a formula specification.
func NewFormula(parts ...Part) *Spec {
	return &Spec{Method: FORMULA, Formula: &FormulaSpec{Parts: parts}}
}

// NewRegex wraps a regex specification.
func NewRegex(spec RegexSpec) *Spec {
	return &Spec{Method: REGEX, Regex: &spec}
}

// NewConcat wraps a concatenation specification.
func NewConcat(spec ConcatSpec) *Spec {
	return &Spec{Method: CONCAT, Concat: &spec}
}

// NewCurrency wraps a currency specification.
func NewCurrency(spec CurrencySpec) *Spec {
	return &Spec{Method: CURRENCY, Currency: &spec}
}

// NewDateFormat wraps a date format specification.
func NewDateFormat(spec DateFormatSpec) *Spec {
	return &Spec{Method: DATE_FORMAT, DateFormat: &spec}
}

// Validate checks the populated branch at configuration time, blocking the
// save on failure.
func (s *Spec) Validate() error {
	switch {
	case s.Method == FORMULA && s.Formula != nil:
		return s.Formula.Validate()
	case s.Method == REGEX && s.Regex != nil:
		return s.Regex.Validate()
	case s.Method == CONCAT && s.Concat != nil:
		return s.Concat.Validate()
	case s.Method == CURRENCY && s.Currency != nil:
		return s.Currency.Validate()
	case s.Method == DATE_FORMAT && s.DateFormat != nil:
		return s.DateFormat.Validate()
	default:
		return Validationf(INVALID_SPEC, "calculator branch for method %q is missing", s.Method)
	}
}

// References returns the column names the populated branch reads, used for
// cyclic reference detection between virtual columns.
func (s *Spec) References() []string {
	switch s.Method {
	case FORMULA:
		return s.Formula.References()
	case REGEX:
		return s.Regex.References()
	case CONCAT:
		return s.Concat.References()
	case CURRENCY:
		return s.Currency.References()
	default:
		return s.DateFormat.References()
	}
}

// Eval evaluates the populated branch against the given row environment.  On
// failure the result is null and the returned diagnostic describes the
// per-cell error.
func (s *Spec) Eval(env Env) (value.Value, *ComputationError) {
	switch s.Method {
	case FORMULA:
		return s.Formula.Eval(env)
	case REGEX:
		return s.Regex.Eval(env)
	case CONCAT:
		return s.Concat.Eval(env)
	case CURRENCY:
		return s.Currency.Eval(env)
	default:
		return s.DateFormat.Eval(env)
	}
}
