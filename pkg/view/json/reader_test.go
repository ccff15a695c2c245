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
package json

import (
	"testing"

	"github.com/consensys/bedrock/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Reader_01(t *testing.T) {
	doc := `{
		"headers": [
			{"name": "Product", "type": "text"},
			{"name": "Amount", "type": "number"}
		],
		"rows": [
			{"Product": "widget", "Amount": 12.5},
			{"Product": "gadget", "Amount": null}
		]
	}`
	//
	headers, rows, err := FromBytes([]byte(doc))
	require.NoError(t, err)
	require.Len(t, headers, 2)
	require.Len(t, rows, 2)
	//
	assert.Equal(t, schema.Header{Name: "Product", DataType: schema.TEXT_TYPE}, headers[0])
	assert.Equal(t, schema.Header{Name: "Amount", DataType: schema.NUMBER_TYPE}, headers[1])
	//
	n, err2 := rows[0]["Amount"].AsNumber()
	require.NoError(t, err2)
	assert.Equal(t, 12.5, n)
	assert.True(t, rows[1]["Amount"].IsNull())
}

func Test_Reader_02(t *testing.T) {
	// Cells decode by JSON type: booleans, numbers, strings, nulls.
	doc := `{
		"headers": [{"name": "X", "type": "boolean"}],
		"rows": [{"X": true}, {"X": false}, {"X": "yes"}]
	}`
	//
	_, rows, err := FromBytes([]byte(doc))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	//
	b, _ := rows[0]["X"].AsBool()
	assert.True(t, b)
	//
	b, _ = rows[1]["X"].AsBool()
	assert.False(t, b)
	// Type declarations do not coerce; the string stays a string.
	assert.Equal(t, "yes", rows[2]["X"].AsText())
}

func Test_Reader_03(t *testing.T) {
	// Type names accept the usual aliases.
	doc := `{
		"headers": [
			{"name": "A", "type": "numeric"},
			{"name": "B", "type": "datetime"},
			{"name": "C", "type": "money"},
			{"name": "D"}
		],
		"rows": []
	}`
	//
	headers, _, err := FromBytes([]byte(doc))
	require.NoError(t, err)
	//
	assert.Equal(t, schema.NUMBER_TYPE, headers[0].DataType)
	assert.Equal(t, schema.DATE_TYPE, headers[1].DataType)
	assert.Equal(t, schema.CURRENCY_TYPE, headers[2].DataType)
	assert.Equal(t, schema.TEXT_TYPE, headers[3].DataType)
}

func Test_Reader_04(t *testing.T) {
	check_ReaderFails(t, `{"headers": [`)
	check_ReaderFails(t, `{"rows": [{"X": 1}]}`)
	check_ReaderFails(t, `{"headers": [{"type": "text"}], "rows": []}`)
	check_ReaderFails(t, `{"headers": [{"name": "X", "type": "blob"}], "rows": []}`)
}

func Test_Reader_05(t *testing.T) {
	// Structured cells degrade to their raw text.
	doc := `{
		"headers": [{"name": "X", "type": "text"}],
		"rows": [{"X": [1,2]}]
	}`
	//
	_, rows, err := FromBytes([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", rows[0]["X"].AsText())
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_ReaderFails(t *testing.T, doc string) {
	if _, _, err := FromBytes([]byte(doc)); err == nil {
		t.Errorf("expected failure for %s", doc)
	}
}
