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
	"strconv"
	"strings"

	"github.com/consensys/bedrock/pkg/value"
)

// CurrencyMode selects the direction of a currency conversion.
type CurrencyMode uint8

const (
	// TO_CURRENCY formats a numeric value as a currency display string.
	TO_CURRENCY CurrencyMode = iota
	// FROM_CURRENCY parses a currency-formatted string back to a number.
	FROM_CURRENCY
)

// MAX_DECIMAL_PLACES bounds the configurable precision of a formatted
// currency value.
const MAX_DECIMAL_PLACES = 4

// CurrencySpec converts between numbers and currency display strings.  The
// symbol, its position, the fixed number of decimal places and the thousands
// separator are all admin-configured rather than locale-derived.
type CurrencySpec struct {
	// Source column whose value is converted.
	Source string
	// Mode of conversion.
	Mode CurrencyMode
	// Symbol placed before (or after) the formatted amount, e.g. "$".
	Symbol string
	// SymbolAfter places the symbol after the amount instead of before.
	SymbolAfter bool
	// Places is the fixed number of decimal places (0..4).
	Places int
	// Thousands separates groups of three integer digits, e.g. ",".  Empty
	// disables grouping.
	Thousands string
}

// Validate checks the configured precision and mode.
func (c *CurrencySpec) Validate() error {
	if c.Places < 0 || c.Places > MAX_DECIMAL_PLACES {
		return Validationf(INVALID_SPEC, "decimal places out of range (%d)", c.Places)
	} else if c.Mode != TO_CURRENCY && c.Mode != FROM_CURRENCY {
		return Validationf(INVALID_SPEC, "unknown currency mode (%d)", c.Mode)
	}
	//
	return nil
}

// References returns the single source column this conversion reads.
func (c *CurrencySpec) References() []string {
	return []string{c.Source}
}

// Eval converts the source value for the current row.  A null source yields
// a null result with no diagnostic; conversion failures are per-cell errors.
func (c *CurrencySpec) Eval(env Env) (value.Value, *ComputationError) {
	v, ok := env.Lookup(c.Source)
	if !ok || v.IsNull() {
		return value.Null(), nil
	}
	//
	if c.Mode == TO_CURRENCY {
		return c.format(v)
	}
	//
	return c.parse(v)
}

// Format a numeric source value as a currency display string.
func (c *CurrencySpec) format(v value.Value) (value.Value, *ComputationError) {
	n, err := v.AsNumber()
	if err != nil {
		return value.Null(), Computationf(NON_NUMERIC_OPERAND, c.Source, "cannot format %q as currency", v.AsText())
	}
	//
	amount := strconv.FormatFloat(n, 'f', c.Places, 64)
	//
	if c.Thousands != "" {
		amount = groupThousands(amount, c.Thousands)
	}
	//
	if c.SymbolAfter {
		return value.Text(amount + c.Symbol), nil
	}
	//
	return value.Text(c.Symbol + amount), nil
}

// Parse a currency-formatted string back to a number by stripping the symbol
// and separators.  A value with no numeric content fails with
// UNPARSEABLE_CURRENCY.
func (c *CurrencySpec) parse(v value.Value) (value.Value, *ComputationError) {
	text := v.AsText()
	//
	if c.Symbol != "" {
		text = strings.ReplaceAll(text, c.Symbol, "")
	}
	//
	if c.Thousands != "" {
		text = strings.ReplaceAll(text, c.Thousands, "")
	}
	// Drop everything which cannot be part of a number.
	var sb strings.Builder
	//
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' {
			sb.WriteRune(r)
		}
	}
	//
	n, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		return value.Null(), Computationf(UNPARSEABLE_CURRENCY, c.Source, "no numeric content in %q", v.AsText())
	}
	//
	return value.Number(n), nil
}

// Insert a thousands separator into the integer part of a fixed-point
// decimal rendering, respecting any leading sign.
func groupThousands(amount, sep string) string {
	var sign string
	//
	if strings.HasPrefix(amount, "-") {
		sign, amount = "-", amount[1:]
	}
	//
	intPart, fracPart, hasFrac := strings.Cut(amount, ".")
	//
	var sb strings.Builder
	//
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteString(sep)
		}
		//
		sb.WriteRune(d)
	}
	//
	if hasFrac {
		return sign + sb.String() + "." + fracPart
	}
	//
	return sign + sb.String()
}
