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
	"math"

	"github.com/consensys/bedrock/pkg/value"
)

// PartKind identifies the variant of a formula part.
type PartKind uint8

const (
	// COLUMN_REF is an operand naming a column whose cell value is resolved
	// against the current row.
	COLUMN_REF PartKind = iota
	// NUMBER_LITERAL is a constant numeric operand.
	NUMBER_LITERAL
	// OPERATOR is one of the five arithmetic operators.
	OPERATOR
)

// Operators supported by formula expressions.
const (
	OP_ADD = "+"
	OP_SUB = "-"
	OP_MUL = "*"
	OP_DIV = "/"
	OP_MOD = "%"
)

// Part is one element of a structured formula expression.  Formulas are
// admin-built token sequences, not free text; there is no parsing involved
// and no way to express parentheses.
type Part struct {
	// Kind of this part.
	Kind PartKind
	// Column names the referenced column (COLUMN_REF only).
	Column string
	// Number holds the literal value (NUMBER_LITERAL only).
	Number float64
	// Op holds the operator symbol (OPERATOR only).
	Op string
}

// Column constructs a column-reference operand.
func Column(name string) Part {
	return Part{Kind: COLUMN_REF, Column: name}
}

// Literal constructs a numeric-literal operand.
func Literal(n float64) Part {
	return Part{Kind: NUMBER_LITERAL, Number: n}
}

// Op constructs an operator part.
func Op(symbol string) Part {
	return Part{Kind: OPERATOR, Op: symbol}
}

// IsOperand reports whether this part is an operand (rather than an
// operator).
func (p Part) IsOperand() bool {
	return p.Kind != OPERATOR
}

// FormulaSpec is a structured arithmetic expression over column references
// and numeric literals.  Evaluation applies standard precedence by reducing
// all multiplicative operators left-to-right first, then the additive
// operators left-to-right.
type FormulaSpec struct {
	// Parts of the expression, strictly alternating operand / operator.
	Parts []Part
}

// Validate checks the structural invariant of the part sequence: non-empty,
// starts and ends with an operand, strictly alternates, and uses only known
// operators.  Violations are reported as MALFORMED_EXPRESSION.
func (f *FormulaSpec) Validate() error {
	if len(f.Parts) == 0 {
		return Validationf(MALFORMED_EXPRESSION, "formula is empty")
	} else if len(f.Parts)%2 == 0 {
		return Validationf(MALFORMED_EXPRESSION, "formula has even length (%d)", len(f.Parts))
	}
	//
	for i, p := range f.Parts {
		// Even positions hold operands, odd positions hold operators.
		if (i%2 == 0) != p.IsOperand() {
			return Validationf(MALFORMED_EXPRESSION, "operand/operator alternation broken at position %d", i)
		}
		//
		if p.Kind == OPERATOR && !knownOperator(p.Op) {
			return Validationf(MALFORMED_EXPRESSION, "unknown operator %q at position %d", p.Op, i)
		}
	}
	//
	return nil
}

// References returns the column names this formula reads.
func (f *FormulaSpec) References() []string {
	var refs []string
	//
	for _, p := range f.Parts {
		if p.Kind == COLUMN_REF {
			refs = append(refs, p.Column)
		}
	}
	//
	return refs
}

// Eval evaluates this formula against the given row environment, producing a
// single number.  Null operands fail with MISSING_OPERAND rather than being
// coerced to zero, since the row source cannot distinguish missing data from
// a legitimate zero.
func (f *FormulaSpec) Eval(env Env) (value.Value, *ComputationError) {
	// Guard against direct evaluation of an unvalidated, empty expression.
	if len(f.Parts) == 0 {
		return value.Null(), Computationf(MISSING_OPERAND, "", "formula has no operands")
	}
	//
	operands, operators, err := f.resolve(env)
	if err != nil {
		return value.Null(), err
	}
	// First pass: reduce *, / and % left-to-right.
	reduced := []float64{operands[0]}
	//
	var additive []string
	//
	for i, op := range operators {
		rhs := operands[i+1]
		//
		switch op {
		case OP_MUL, OP_DIV, OP_MOD:
			last := len(reduced) - 1
			//
			out, err := applyMultiplicative(op, reduced[last], rhs)
			if err != nil {
				return value.Null(), err
			}
			//
			reduced[last] = out
		default:
			additive = append(additive, op)
			reduced = append(reduced, rhs)
		}
	}
	// Second pass: reduce + and - left-to-right.
	acc := reduced[0]
	//
	for i, op := range additive {
		if op == OP_ADD {
			acc += reduced[i+1]
		} else {
			acc -= reduced[i+1]
		}
	}
	//
	return value.Number(acc), nil
}

// Resolve all operands of this formula against the row environment, splitting
// the flat part sequence into operand values and operator symbols.
func (f *FormulaSpec) resolve(env Env) ([]float64, []string, *ComputationError) {
	var (
		operands  []float64
		operators []string
	)
	//
	for _, p := range f.Parts {
		switch p.Kind {
		case NUMBER_LITERAL:
			operands = append(operands, p.Number)
		case OPERATOR:
			operators = append(operators, p.Op)
		case COLUMN_REF:
			v, ok := env.Lookup(p.Column)
			if !ok || v.IsNull() {
				return nil, nil, Computationf(MISSING_OPERAND, p.Column, "operand is null")
			}
			//
			n, err := v.AsNumber()
			if err != nil {
				return nil, nil, Computationf(NON_NUMERIC_OPERAND, p.Column, "operand %q is not numeric", v.AsText())
			}
			//
			operands = append(operands, n)
		}
	}
	//
	return operands, operators, nil
}

func applyMultiplicative(op string, lhs, rhs float64) (float64, *ComputationError) {
	switch op {
	case OP_MUL:
		return lhs * rhs, nil
	case OP_DIV:
		if rhs == 0 {
			return 0, Computationf(DIVISION_BY_ZERO, "", "division by zero")
		}
		//
		return lhs / rhs, nil
	default:
		if rhs == 0 {
			return 0, Computationf(DIVISION_BY_ZERO, "", "modulo by zero")
		}
		//
		return math.Mod(lhs, rhs), nil
	}
}

func knownOperator(op string) bool {
	switch op {
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD:
		return true
	default:
		return false
	}
}
