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

import "fmt"

// ValidationKind enumerates the configuration-time failures which block a
// column definition from being saved.
type ValidationKind uint8

const (
	// DUPLICATE_NAME_CONFLICT indicates a new virtual column would collide
	// with an active column of the same name.
	DUPLICATE_NAME_CONFLICT ValidationKind = iota
	// MALFORMED_EXPRESSION indicates a formula part sequence which does not
	// strictly alternate operands and operators.
	MALFORMED_EXPRESSION
	// INVALID_PATTERN indicates a regex pattern which does not compile.
	INVALID_PATTERN
	// CYCLIC_REFERENCE indicates virtual columns which (transitively)
	// reference each other.
	CYCLIC_REFERENCE
	// INVALID_SPEC indicates a calculator specification which is internally
	// inconsistent (unknown mode, out-of-range parameter, etc).
	INVALID_SPEC
)

// String returns a stable textual name for this validation kind.
func (k ValidationKind) String() string {
	switch k {
	case DUPLICATE_NAME_CONFLICT:
		return "DuplicateNameConflict"
	case MALFORMED_EXPRESSION:
		return "MalformedExpression"
	case INVALID_PATTERN:
		return "InvalidPattern"
	case CYCLIC_REFERENCE:
		return "CyclicVirtualColumnReference"
	default:
		return "InvalidSpec"
	}
}

// ValidationError is a configuration-time failure.  It is surfaced
// synchronously to the configuration caller and blocks the save.
type ValidationError struct {
	// Kind of failure.
	Kind ValidationKind
	// Detail provides a human-readable description.
	Detail string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Validationf constructs a validation error from a format string.
func Validationf(kind ValidationKind, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// ComputationKind enumerates the per-cell failures which can arise whilst
// evaluating a calculator.
type ComputationKind uint8

const (
	// MISSING_OPERAND indicates a formula operand resolved to null.  Null is
	// deliberately not coerced to zero: the row source cannot distinguish
	// "missing" from "legitimately zero".
	MISSING_OPERAND ComputationKind = iota
	// NON_NUMERIC_OPERAND indicates a formula operand which could not be
	// coerced to a number.
	NON_NUMERIC_OPERAND
	// DIVISION_BY_ZERO indicates division or modulo by zero.
	DIVISION_BY_ZERO
	// UNPARSEABLE_CURRENCY indicates a currency string with no numeric
	// content.
	UNPARSEABLE_CURRENCY
	// INVALID_DATE indicates a source value which could not be parsed as a
	// date.
	INVALID_DATE
)

// String returns a stable textual name for this computation kind.
func (k ComputationKind) String() string {
	switch k {
	case MISSING_OPERAND:
		return "MissingOperand"
	case NON_NUMERIC_OPERAND:
		return "NonNumericOperand"
	case DIVISION_BY_ZERO:
		return "DivisionByZero"
	case UNPARSEABLE_CURRENCY:
		return "UnparseableCurrency"
	default:
		return "InvalidDate"
	}
}

// ComputationError is an evaluation-time, per-cell failure.  It never aborts
// view assembly: the affected cell becomes null and the error is attached to
// that cell as a diagnostic.
type ComputationError struct {
	// Kind of failure.
	Kind ComputationKind
	// Column names the offending column (operand or source), where known.
	Column string
	// Detail provides a human-readable description.
	Detail string
}

// Error implements the error interface.
func (e *ComputationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s (column %q): %s", e.Kind, e.Column, e.Detail)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Computationf constructs a computation error from a format string.
func Computationf(kind ComputationKind, column, format string, args ...any) *ComputationError {
	return &ComputationError{Kind: kind, Column: column, Detail: fmt.Sprintf(format, args...)}
}
