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

func Test_Enrich_01(t *testing.T) {
	catalog := salesCatalog(t)
	//
	row := Row{"Price": value.Number(12.5), "Qty": value.Number(4)}
	enriched := NewEnricher(catalog).Enrich(row)
	//
	total, _ := enriched.Get("Total").AsNumber()
	assert.Equal(t, 50.0, total)
	assert.Empty(t, enriched.Diags)
}

func Test_Enrich_02(t *testing.T) {
	// A later virtual column may read an earlier one.
	catalog := salesCatalog(t)
	require.NoError(t, catalog.Register(schema.NewVirtual("Gross", schema.NUMBER_TYPE, 11,
		calc.NewFormula(calc.Column("Total"), calc.Op("*"), calc.Literal(1.2)))))
	//
	row := Row{"Price": value.Number(10), "Qty": value.Number(1)}
	enriched := NewEnricher(catalog).Enrich(row)
	//
	gross, _ := enriched.Get("Gross").AsNumber()
	assert.Equal(t, 12.0, gross)
}

func Test_Enrich_03(t *testing.T) {
	// A failing calculator nulls its own cell with a diagnostic and never
	// aborts the row.
	catalog := salesCatalog(t)
	require.NoError(t, catalog.Register(schema.NewVirtual("Ratio", schema.NUMBER_TYPE, 12,
		calc.NewFormula(calc.Column("Price"), calc.Op("/"), calc.Column("Qty")))))
	//
	row := Row{"Price": value.Number(10), "Qty": value.Number(0)}
	enriched := NewEnricher(catalog).Enrich(row)
	//
	assert.True(t, enriched.Get("Ratio").IsNull())
	assert.True(t, enriched.Failed("Ratio"))
	assert.Equal(t, calc.DIVISION_BY_ZERO, enriched.Diags["Ratio"].Kind)
	// The other virtual column still computed.
	total, _ := enriched.Get("Total").AsNumber()
	assert.Equal(t, 0.0, total)
	assert.False(t, enriched.Failed("Total"))
}

func Test_Enrich_04(t *testing.T) {
	// Input rows are never mutated.
	catalog := salesCatalog(t)
	row := Row{"Price": value.Number(2), "Qty": value.Number(3)}
	//
	_ = NewEnricher(catalog).Enrich(row)
	//
	assert.Len(t, row, 2)
	//
	if _, ok := row["Total"]; ok {
		t.Error("enrichment mutated the input row")
	}
}

func Test_Enrich_05(t *testing.T) {
	catalog := salesCatalog(t)
	rows := []Row{
		{"Price": value.Number(1), "Qty": value.Number(1)},
		{"Price": value.Number(2), "Qty": value.Number(2)},
	}
	//
	enriched, err := NewEnricher(catalog).EnrichAll(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, enriched, 2)
	//
	first, _ := enriched[0].Get("Total").AsNumber()
	second, _ := enriched[1].Get("Total").AsNumber()
	assert.Equal(t, 1.0, first)
	assert.Equal(t, 4.0, second)
}

func Test_Enrich_06(t *testing.T) {
	// Cancellation yields no partial result.
	catalog := salesCatalog(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	//
	enriched, err := NewEnricher(catalog).EnrichAll(ctx, []Row{{"Price": value.Number(1)}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, enriched)
}

// ===================================================================
// Test Helpers
// ===================================================================

// Construct a catalog with physical Price / Qty columns and a virtual Total
// column multiplying them.
func salesCatalog(t *testing.T) *schema.Catalog {
	catalog := schema.NewCatalog("Sales")
	catalog.RefreshPhysical([]schema.Header{
		{Name: "Price", DataType: schema.NUMBER_TYPE},
		{Name: "Qty", DataType: schema.NUMBER_TYPE},
	})
	//
	total := schema.NewVirtual("Total", schema.NUMBER_TYPE, 10,
		calc.NewFormula(calc.Column("Price"), calc.Op("*"), calc.Column("Qty")))
	require.NoError(t, catalog.Register(total))
	//
	return catalog
}
