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
	"testing"

	"github.com/consensys/bedrock/pkg/value"
	"github.com/stretchr/testify/assert"
)

func Test_Currency_01(t *testing.T) {
	spec := CurrencySpec{Source: "Amt", Mode: TO_CURRENCY, Symbol: "$", Places: 2, Thousands: ","}
	//
	check_Currency(t, "$1,234,567.80", spec, value.Number(1234567.8))
	check_Currency(t, "$0.00", spec, value.Number(0))
	check_Currency(t, "$-1,000.00", spec, value.Number(-1000))
}

func Test_Currency_02(t *testing.T) {
	// Symbol after, no grouping, no decimals.
	spec := CurrencySpec{Source: "Amt", Mode: TO_CURRENCY, Symbol: " kr", SymbolAfter: true}
	//
	check_Currency(t, "1235 kr", spec, value.Number(1234.6))
}

func Test_Currency_03(t *testing.T) {
	spec := CurrencySpec{Source: "Amt", Mode: FROM_CURRENCY, Symbol: "$", Thousands: ","}
	//
	v, diag := spec.Eval(testEnv{"Amt": value.Text("$1,234.50")})
	assert.Nil(t, diag)
	//
	n, err := v.AsNumber()
	assert.NoError(t, err)
	assert.Equal(t, 1234.5, n)
}

func Test_Currency_04(t *testing.T) {
	spec := CurrencySpec{Source: "Amt", Mode: FROM_CURRENCY, Symbol: "$"}
	//
	v, diag := spec.Eval(testEnv{"Amt": value.Text("no money")})
	if diag == nil || diag.Kind != UNPARSEABLE_CURRENCY {
		t.Fatalf("expected UnparseableCurrency, got %v", diag)
	}
	//
	if !v.IsNull() {
		t.Error("failed parse must produce null")
	}
}

func Test_Currency_05(t *testing.T) {
	// Numeric strings format fine; non-numeric sources are diagnosed.
	spec := CurrencySpec{Source: "Amt", Mode: TO_CURRENCY, Symbol: "$", Places: 1}
	check_Currency(t, "$2.5", spec, value.Text("2.5"))
	//
	if _, diag := spec.Eval(testEnv{"Amt": value.Text("abc")}); diag == nil || diag.Kind != NON_NUMERIC_OPERAND {
		t.Errorf("expected NonNumericOperand, got %v", diag)
	}
}

func Test_Currency_06(t *testing.T) {
	assert.Error(t, (&CurrencySpec{Places: 5}).Validate())
	assert.Error(t, (&CurrencySpec{Places: -1}).Validate())
	assert.NoError(t, (&CurrencySpec{Places: 4}).Validate())
}

func Test_Currency_07(t *testing.T) {
	// Null sources pass through as null with no diagnostic.
	spec := CurrencySpec{Source: "Amt", Mode: TO_CURRENCY}
	//
	v, diag := spec.Eval(testEnv{"Amt": value.Null()})
	assert.Nil(t, diag)
	assert.True(t, v.IsNull())
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Currency(t *testing.T, expected string, spec CurrencySpec, source value.Value) {
	v, diag := spec.Eval(testEnv{spec.Source: source})
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	//
	if v.AsText() != expected {
		t.Errorf("expected %q, got %q", expected, v.AsText())
	}
}
