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
package view

import (
	"context"
	"testing"

	"github.com/consensys/bedrock/pkg/calc"
	"github.com/consensys/bedrock/pkg/schema"
	"github.com/consensys/bedrock/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Join_01(t *testing.T) {
	masters := enrichedRows(
		Row{"OrderId": value.Number(1)},
		Row{"OrderId": value.Number(2)},
	)
	details := enrichedRows(
		Row{"Order": value.Number(1), "Item": value.Text("a")},
		Row{"Order": value.Number(1), "Item": value.Text("b")},
		Row{"Order": value.Number(2), "Item": value.Text("c")},
	)
	//
	joined := check_Join(t, masters, details)
	//
	assert.Len(t, joined[0].Details, 2)
	assert.Len(t, joined[1].Details, 1)
	assert.Equal(t, "c", joined[1].Details[0].Get("Item").AsText())
}

func Test_Join_02(t *testing.T) {
	// A master with no matching details keeps an empty (non-nil) list.
	masters := enrichedRows(Row{"OrderId": value.Number(9)})
	details := enrichedRows(Row{"Order": value.Number(1)})
	//
	joined := check_Join(t, masters, details)
	//
	require.NotNil(t, joined[0].Details)
	assert.Empty(t, joined[0].Details)
}

func Test_Join_03(t *testing.T) {
	// Null keys never match, on either side.
	masters := enrichedRows(Row{"OrderId": value.Null()})
	details := enrichedRows(Row{"Order": value.Null()}, Row{"Order": value.Number(1)})
	//
	joined := check_Join(t, masters, details)
	//
	assert.Empty(t, joined[0].Details)
}

func Test_Join_04(t *testing.T) {
	// Keys compare by stringified value, so a numeric master key matches a
	// textual detail key.
	masters := enrichedRows(Row{"OrderId": value.Number(7)})
	details := enrichedRows(Row{"Order": value.Text("7")})
	//
	joined := check_Join(t, masters, details)
	//
	assert.Len(t, joined[0].Details, 1)
}

func Test_Join_05(t *testing.T) {
	// A detail set may be shared by several masters holding the same key.
	masters := enrichedRows(
		Row{"OrderId": value.Number(1)},
		Row{"OrderId": value.Number(1)},
	)
	details := enrichedRows(Row{"Order": value.Number(1)})
	//
	joined := check_Join(t, masters, details)
	//
	assert.Len(t, joined[0].Details, 1)
	assert.Len(t, joined[1].Details, 1)
}

func Test_Join_06(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	//
	rel := schema.NewRelationship("Orders", "OrderId", "Items", "Order")
	//
	_, err := Join(ctx, enrichedRows(Row{}), enrichedRows(Row{}), rel)
	assert.ErrorIs(t, err, context.Canceled)
}

// ===================================================================
// Test Helpers
// ===================================================================

func enrichedRows(rows ...Row) []*EnrichedRow {
	out := make([]*EnrichedRow, len(rows))
	//
	for i, r := range rows {
		out[i] = &EnrichedRow{Cells: r, Diags: make(map[string]*calc.ComputationError)}
	}
	//
	return out
}

func check_Join(t *testing.T, masters, details []*EnrichedRow) []*EnrichedRow {
	rel := schema.NewRelationship("Orders", "OrderId", "Items", "Order")
	//
	joined, err := Join(context.Background(), masters, details, rel)
	require.NoError(t, err)
	require.Len(t, joined, len(masters))
	//
	return joined
}
