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
)

// testEnv is a fixed row environment for calculator tests.
type testEnv map[string]value.Value

func (e testEnv) Lookup(name string) (value.Value, bool) {
	v, ok := e[name]
	//
	return v, ok
}

func Test_Formula_01(t *testing.T) {
	// Multiplicative operators reduce before additive ones.
	check_Formula(t, 34, Literal(10), Op("*"), Literal(3), Op("+"), Literal(4))
}

func Test_Formula_02(t *testing.T) {
	check_Formula(t, 1, Literal(1))
	check_Formula(t, 7, Literal(10), Op("-"), Literal(3))
	check_Formula(t, 2, Literal(10), Op("/"), Literal(5))
	check_Formula(t, 1, Literal(10), Op("%"), Literal(3))
}

func Test_Formula_03(t *testing.T) {
	// Left-to-right within a precedence level: 10 - 2 + 3 = 11, not 5.
	check_Formula(t, 11, Literal(10), Op("-"), Literal(2), Op("+"), Literal(3))
	// 100 / 10 / 5 = 2, not 50.
	check_Formula(t, 2, Literal(100), Op("/"), Literal(10), Op("/"), Literal(5))
	// 2 + 3 * 4 - 1 = 13.
	check_Formula(t, 13, Literal(2), Op("+"), Literal(3), Op("*"), Literal(4), Op("-"), Literal(1))
}

func Test_Formula_04(t *testing.T) {
	env := testEnv{"Price": value.Number(12.5), "Qty": value.Number(4)}
	//
	f := FormulaSpec{Parts: []Part{Column("Price"), Op("*"), Column("Qty")}}
	//
	v, diag := f.Eval(env)
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	//
	if n, _ := v.AsNumber(); n != 50 {
		t.Errorf("expected 50, got %v", n)
	}
}

func Test_Formula_05(t *testing.T) {
	check_FormulaFails(t, DIVISION_BY_ZERO, Literal(10), Op("/"), Literal(0))
	check_FormulaFails(t, DIVISION_BY_ZERO, Literal(10), Op("%"), Literal(0))
}

func Test_Formula_06(t *testing.T) {
	// Null operands are a hard failure, never silently zero.
	env := testEnv{"A": value.Null()}
	f := FormulaSpec{Parts: []Part{Column("A"), Op("+"), Literal(1)}}
	//
	v, diag := f.Eval(env)
	if diag == nil || diag.Kind != MISSING_OPERAND {
		t.Fatalf("expected MissingOperand, got %v", diag)
	}
	//
	if !v.IsNull() {
		t.Error("failed evaluation must produce null")
	}
	// Unknown columns likewise.
	f = FormulaSpec{Parts: []Part{Column("Nope"), Op("+"), Literal(1)}}
	//
	if _, diag = f.Eval(env); diag == nil || diag.Kind != MISSING_OPERAND {
		t.Fatalf("expected MissingOperand, got %v", diag)
	}
}

func Test_Formula_07(t *testing.T) {
	env := testEnv{"A": value.Text("abc")}
	f := FormulaSpec{Parts: []Part{Column("A"), Op("*"), Literal(2)}}
	//
	if _, diag := f.Eval(env); diag == nil || diag.Kind != NON_NUMERIC_OPERAND {
		t.Fatalf("expected NonNumericOperand, got %v", diag)
	}
}

func Test_Formula_08(t *testing.T) {
	check_Malformed(t)
	check_Malformed(t, Op("+"), Literal(1))
	check_Malformed(t, Literal(1), Op("+"))
	check_Malformed(t, Literal(1), Op("+"), Op("+"), Literal(2))
	check_Malformed(t, Literal(1), Literal(2))
	check_Malformed(t, Literal(1), Op("^"), Literal(2))
}

func Test_Formula_09(t *testing.T) {
	f := FormulaSpec{Parts: []Part{Column("A"), Op("+"), Literal(1), Op("*"), Column("B")}}
	//
	refs := f.References()
	if len(refs) != 2 || refs[0] != "A" || refs[1] != "B" {
		t.Errorf("wrong references: %v", refs)
	}
}

func Test_Formula_10(t *testing.T) {
	// Evaluating an empty (unvalidated) expression diagnoses rather than
	// panicking.
	check_FormulaFails(t, MISSING_OPERAND)
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Formula(t *testing.T, expected float64, parts ...Part) {
	f := FormulaSpec{Parts: parts}
	//
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	//
	v, diag := f.Eval(testEnv{})
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	//
	n, err := v.AsNumber()
	if err != nil {
		t.Fatalf("result not numeric: %v", err)
	}
	//
	if n != expected {
		t.Errorf("expected %v, got %v", expected, n)
	}
}

func check_FormulaFails(t *testing.T, kind ComputationKind, parts ...Part) {
	f := FormulaSpec{Parts: parts}
	//
	v, diag := f.Eval(testEnv{})
	if diag == nil || diag.Kind != kind {
		t.Fatalf("expected %s, got %v", kind, diag)
	}
	//
	if !v.IsNull() {
		t.Error("failed evaluation must produce null")
	}
}

func check_Malformed(t *testing.T, parts ...Part) {
	f := FormulaSpec{Parts: parts}
	//
	err := f.Validate()
	if err == nil {
		t.Fatalf("expected MalformedExpression for %v", parts)
	}
	//
	verr, ok := err.(*ValidationError)
	if !ok || verr.Kind != MALFORMED_EXPRESSION {
		t.Errorf("expected MalformedExpression, got %v", err)
	}
}
