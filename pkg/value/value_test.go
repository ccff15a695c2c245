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
	"testing"
	"time"
)

func Test_Value_01(t *testing.T) {
	check_Number(t, Number(42), 42)
	check_Number(t, Text("42"), 42)
	check_Number(t, Text(" 3.5 "), 3.5)
}

func Test_Value_02(t *testing.T) {
	if _, err := Null().AsNumber(); err != ErrNull {
		t.Errorf("expected ErrNull, got %v", err)
	}
	//
	if _, err := Text("abc").AsNumber(); err != ErrNotNumeric {
		t.Errorf("expected ErrNotNumeric, got %v", err)
	}
	//
	if _, err := Bool(true).AsNumber(); err != ErrNotNumeric {
		t.Errorf("expected ErrNotNumeric, got %v", err)
	}
}

func Test_Value_03(t *testing.T) {
	// Textual rendering must be stable for determinism.
	if s := Number(1200).AsText(); s != "1200" {
		t.Errorf("expected \"1200\", got %q", s)
	}
	//
	if s := Number(0.5).AsText(); s != "0.5" {
		t.Errorf("expected \"0.5\", got %q", s)
	}
	//
	if s := Null().AsText(); s != "" {
		t.Errorf("expected empty string, got %q", s)
	}
}

func Test_Value_04(t *testing.T) {
	if !Null().IsEmpty() || !Text("").IsEmpty() {
		t.Error("null and empty text must be empty")
	}
	//
	if Number(0).IsEmpty() || Text("x").IsEmpty() || Bool(false).IsEmpty() {
		t.Error("zero, non-empty text and false are not empty")
	}
}

func Test_Value_05(t *testing.T) {
	d, err := Text("2024-12-31").AsDate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	//
	if d.Year() != 2024 || d.Month() != time.December || d.Day() != 31 {
		t.Errorf("wrong date: %v", d)
	}
	//
	if _, err := Text("not a date").AsDate(); err != ErrNotDate {
		t.Errorf("expected ErrNotDate, got %v", err)
	}
}

func Test_Value_06(t *testing.T) {
	check_Ordered(t, Number(1), Number(2))
	check_Ordered(t, Text("a"), Text("b"))
	check_Ordered(t, Bool(false), Bool(true))
	check_Ordered(t, Date(time.Unix(0, 0)), Date(time.Unix(1, 0)))
	// Numbers order numerically, not lexically.
	check_Ordered(t, Number(9), Number(10))
}

func Test_Value_07(t *testing.T) {
	checks := map[any]Kind{
		nil:             NULL,
		"x":             TEXT,
		float64(1):      NUMBER,
		int(1):          NUMBER,
		true:            BOOL,
		time.Unix(0, 0): DATE,
	}
	//
	for raw, kind := range checks {
		if v := Parse(raw); v.Kind() != kind {
			t.Errorf("Parse(%v): expected kind %d, got %d", raw, kind, v.Kind())
		}
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Number(t *testing.T, v Value, expected float64) {
	n, err := v.AsNumber()
	if err != nil {
		t.Errorf("unexpected error coercing %s: %v", v, err)
	} else if n != expected {
		t.Errorf("expected %v, got %v", expected, n)
	}
}

func check_Ordered(t *testing.T, lo, hi Value) {
	if lo.Compare(hi) >= 0 {
		t.Errorf("expected %s < %s", lo, hi)
	}
	//
	if hi.Compare(lo) <= 0 {
		t.Errorf("expected %s > %s", hi, lo)
	}
	//
	if lo.Compare(lo) != 0 {
		t.Errorf("expected %s == %s", lo, lo)
	}
}
