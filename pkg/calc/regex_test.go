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

func Test_Regex_01(t *testing.T) {
	// Extraction yields the captured group, not the whole source.
	check_Regex(t, "12", RegexSpec{Pattern: `U(\d+)`, Replacement: "$1"}, "U12")
}

func Test_Regex_02(t *testing.T) {
	// Multiple groups with a separator stay in extraction mode.
	spec := RegexSpec{Pattern: `(\d+)-(\d+)`, Replacement: "$2/$1"}
	check_Regex(t, "34/12", spec, "order 12-34 pending")
}

func Test_Regex_03(t *testing.T) {
	// Extraction of an unmatched pattern yields the empty string.
	check_Regex(t, "", RegexSpec{Pattern: `U(\d+)`, Replacement: "$1"}, "nothing here")
	// A non-participating group substitutes as empty.
	check_Regex(t, "a", RegexSpec{Pattern: `(a)(b)?`, Replacement: "$1$2"}, "a")
}

func Test_Regex_04(t *testing.T) {
	// Literal text beyond separators selects replacement mode.
	spec := RegexSpec{Pattern: `\d+`, Replacement: "N"}
	check_Regex(t, "N and 456", spec, "123 and 456")
	// The global flag replaces every occurrence.
	spec.Flags = "g"
	check_Regex(t, "N and N", spec, "123 and 456")
}

func Test_Regex_05(t *testing.T) {
	// Replacement of an unmatched pattern returns the source unchanged.
	spec := RegexSpec{Pattern: `xyz`, Replacement: "N", Flags: "g"}
	check_Regex(t, "hello", spec, "hello")
}

func Test_Regex_06(t *testing.T) {
	// Case-insensitive matching via the i flag.
	spec := RegexSpec{Pattern: `u(\d+)`, Replacement: "$1", Flags: "i"}
	check_Regex(t, "12", spec, "U12")
}

func Test_Regex_07(t *testing.T) {
	// Backreferences participate in replacement mode too.
	spec := RegexSpec{Pattern: `(\w+)@example\.com`, Replacement: "user $1", Flags: "g"}
	check_Regex(t, "user bob", spec, "bob@example.com")
}

func Test_Regex_08(t *testing.T) {
	spec := RegexSpec{Pattern: `(unclosed`, Replacement: "$1"}
	//
	err := spec.Validate()
	if err == nil {
		t.Fatal("expected InvalidPattern")
	}
	//
	verr, ok := err.(*ValidationError)
	if !ok || verr.Kind != INVALID_PATTERN {
		t.Errorf("expected InvalidPattern, got %v", err)
	}
	// Unknown flags are also rejected.
	spec = RegexSpec{Pattern: `a`, Replacement: "b", Flags: "x"}
	if spec.Validate() == nil {
		t.Error("expected InvalidPattern for unknown flag")
	}
}

func Test_Regex_09(t *testing.T) {
	// A null source produces a null result.
	spec := RegexSpec{Source: "Code", Pattern: `U(\d+)`, Replacement: "$1"}
	//
	v, diag := spec.Eval(testEnv{"Code": value.Null()})
	if diag != nil || !v.IsNull() {
		t.Errorf("expected null without diagnostic, got %s / %v", v, diag)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Regex(t *testing.T, expected string, spec RegexSpec, source string) {
	spec.Source = "Src"
	//
	if err := spec.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	//
	v, diag := spec.Eval(testEnv{"Src": value.Text(source)})
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	//
	if v.AsText() != expected {
		t.Errorf("expected %q, got %q", expected, v.AsText())
	}
}
