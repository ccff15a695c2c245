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
package value

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Kind identifies which variant of the closed value union a given Value
// holds.  Cell values coming out of the row source are always one of these
// five kinds; there is deliberately no "any" escape hatch.
type Kind uint8

const (
	// NULL indicates an absent or unknown cell value.
	NULL Kind = iota
	// TEXT indicates a textual cell value.
	TEXT
	// NUMBER indicates a numeric cell value (IEEE double).
	NUMBER
	// BOOL indicates a boolean cell value.
	BOOL
	// DATE indicates a timestamped cell value.
	DATE
)

// ErrNull is returned by coercions applied to a null value, allowing callers
// to distinguish "absent" from "present but wrongly typed".
var ErrNull = errors.New("null value")

// ErrNotNumeric is returned when a value cannot be coerced to a number.
var ErrNotNumeric = errors.New("not a numeric value")

// ErrNotBoolean is returned when a value cannot be coerced to a boolean.
var ErrNotBoolean = errors.New("not a boolean value")

// ErrNotDate is returned when a value cannot be coerced to a date.
var ErrNotDate = errors.New("not a date value")

// Value is a tagged variant representing a single cell.  The zero Value is
// null.  Values are immutable; calculators always construct fresh values
// rather than updating cells in place.
type Value struct {
	kind Kind
	text string
	num  float64
	flag bool
	date time.Time
}

// Null constructs the null value.
func Null() Value {
	return Value{}
}

// Text constructs a textual value.
func Text(s string) Value {
	return Value{kind: TEXT, text: s}
}

// Number constructs a numeric value.
func Number(n float64) Value {
	return Value{kind: NUMBER, num: n}
}

// Bool constructs a boolean value.
func Bool(b bool) Value {
	return Value{kind: BOOL, flag: b}
}

// Date constructs a date value.
func Date(t time.Time) Value {
	return Value{kind: DATE, date: t}
}

// Parse maps a raw dynamically-typed cell (as handed over by the row source)
// into the closed variant.  Unrecognised types degrade to their textual
// rendering rather than failing, since the row source is not under our
// control.
func Parse(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Null()
	case string:
		return Text(v)
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case int:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case uint:
		return Number(float64(v))
	case bool:
		return Bool(v)
	case time.Time:
		return Date(v)
	default:
		return Text(fmt.Sprintf("%v", v))
	}
}

// Kind returns the variant tag of this value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether this value is the null value.
func (v Value) IsNull() bool {
	return v.kind == NULL
}

// IsEmpty reports whether this value is null or the empty string.  Empty
// values are skipped by concatenation and excluded from aggregation.
func (v Value) IsEmpty() bool {
	return v.kind == NULL || (v.kind == TEXT && v.text == "")
}

// AsNumber coerces this value to a number.  Textual values are parsed
// leniently (surrounding whitespace is ignored).  Null values fail with
// ErrNull so that callers can report missing operands precisely.
func (v Value) AsNumber() (float64, error) {
	switch v.kind {
	case NUMBER:
		return v.num, nil
	case TEXT:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		if err != nil {
			return 0, ErrNotNumeric
		}

		return n, nil
	case NULL:
		return 0, ErrNull
	default:
		return 0, ErrNotNumeric
	}
}

// AsBool coerces this value to a boolean.
func (v Value) AsBool() (bool, error) {
	switch v.kind {
	case BOOL:
		return v.flag, nil
	case TEXT:
		b, err := strconv.ParseBool(strings.TrimSpace(v.text))
		if err != nil {
			return false, ErrNotBoolean
		}

		return b, nil
	case NULL:
		return false, ErrNull
	default:
		return false, ErrNotBoolean
	}
}

// AsDate coerces this value to a date.  Textual values are parsed using a
// lenient, format-detecting parser since the row source reports dates in
// whatever format the spreadsheet happened to contain.
func (v Value) AsDate() (time.Time, error) {
	switch v.kind {
	case DATE:
		return v.date, nil
	case TEXT:
		t, err := dateparse.ParseAny(strings.TrimSpace(v.text))
		if err != nil {
			return time.Time{}, ErrNotDate
		}

		return t, nil
	case NULL:
		return time.Time{}, ErrNull
	default:
		return time.Time{}, ErrNotDate
	}
}

// AsText renders this value as a string.  Numeric rendering uses the
// shortest exact representation so that repeated view computations are
// byte-identical.  The null value renders as the empty string.
func (v Value) AsText() string {
	switch v.kind {
	case TEXT:
		return v.text
	case NUMBER:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case BOOL:
		return strconv.FormatBool(v.flag)
	case DATE:
		return v.date.Format(time.RFC3339)
	default:
		return ""
	}
}

// String implements fmt.Stringer, rendering null explicitly for debugging.
func (v Value) String() string {
	if v.kind == NULL {
		return "null"
	}

	return v.AsText()
}

// Compare imposes a total, type-appropriate ordering on values: numbers
// compare numerically, dates chronologically, booleans false-before-true and
// text lexicographically.  Values of differing kinds compare via their
// textual rendering.  Null ordering (always last) is a view-level concern
// and is handled by the caller; here null simply sorts before everything.
func (v Value) Compare(o Value) int {
	if v.kind == NULL || o.kind == NULL {
		return compareNulls(v.kind, o.kind)
	}
	//
	if v.kind == o.kind {
		switch v.kind {
		case NUMBER:
			return compareFloats(v.num, o.num)
		case DATE:
			return v.date.Compare(o.date)
		case BOOL:
			return compareBools(v.flag, o.flag)
		case TEXT:
			return strings.Compare(v.text, o.text)
		}
	}
	// Mixed kinds fall back on textual ordering.
	return strings.Compare(v.AsText(), o.AsText())
}

func compareNulls(l, r Kind) int {
	switch {
	case l == NULL && r == NULL:
		return 0
	case l == NULL:
		return -1
	default:
		return 1
	}
}

func compareFloats(l, r float64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func compareBools(l, r bool) int {
	switch {
	case l == r:
		return 0
	case !l:
		return -1
	default:
		return 1
	}
}
