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

// Package view assembles computed tabular views: it enriches raw rows with
// virtual column values, joins detail rows into master rows, then groups,
// sorts and aggregates the result under a display configuration.  The
// engine is stateless per invocation; every call receives its own catalog
// and configuration snapshots and shares no mutable state with concurrent
// calls.
package view

import (
	"context"
	"fmt"

	"github.com/consensys/bedrock/pkg/schema"
	"github.com/consensys/bedrock/pkg/util"
	"github.com/sourcegraph/conc/pool"
)

// Request carries the complete input of one view computation: the raw rows
// and catalog of the master sheet, optionally those of a detail sheet with
// the relationship joining them, and the display configuration.
type Request struct {
	// MasterCatalog describes the master sheet's columns.
	MasterCatalog *schema.Catalog
	// MasterRows are the master sheet's raw rows, in source order.
	MasterRows []Row
	// DetailCatalog describes the detail sheet's columns (nil when the view
	// has no join).
	DetailCatalog *schema.Catalog
	// DetailRows are the detail sheet's raw rows.
	DetailRows []Row
	// Relationship joining the two sheets (nil when the view has no join).
	Relationship *schema.Relationship
	// Display configures projection, grouping, sorting and aggregation.
	Display schema.DisplayConfig
}

// Compute runs the full pipeline: enrich, join, assemble.  Master and detail
// enrichment run in parallel since they share no mutable state; the join
// waits on both.  Cancellation at any point returns the context error with
// no partial view.
func Compute(ctx context.Context, req Request) (*View, error) {
	if req.MasterCatalog == nil {
		return nil, fmt.Errorf("view request has no master catalog")
	}
	// An unresolvable relationship is a catastrophic configuration error
	// which aborts the whole computation.
	if req.Relationship != nil {
		if req.DetailCatalog == nil {
			return nil, fmt.Errorf("relationship %s configured without a detail catalog", req.Relationship.Id)
		}
		//
		if err := req.Relationship.Validate(req.MasterCatalog, req.DetailCatalog); err != nil {
			return nil, err
		}
	}
	//
	stats := util.NewPerfStats()
	//
	masters, details, err := enrichSheets(ctx, req)
	if err != nil {
		return nil, err
	}
	//
	stats.Log("enrichment", len(masters)+len(details))
	//
	if req.Relationship != nil {
		if masters, err = Join(ctx, masters, details, *req.Relationship); err != nil {
			return nil, err
		}
	}
	//
	stats = util.NewPerfStats()
	//
	assembled, err := NewAssembler(req.MasterCatalog, req.Display).Assemble(ctx, masters)
	if err != nil {
		return nil, err
	}
	//
	stats.Log("assembly", len(masters))
	//
	return assembled, nil
}

// Enrich the master and detail sheets in parallel (fork/join).  Each sheet
// gets its own enricher over its own catalog snapshot.
func enrichSheets(ctx context.Context, req Request) ([]*EnrichedRow, []*EnrichedRow, error) {
	var (
		masters []*EnrichedRow
		details []*EnrichedRow
		p       = pool.New().WithErrors().WithContext(ctx)
	)
	//
	p.Go(func(ctx context.Context) error {
		var err error
		masters, err = NewEnricher(req.MasterCatalog).EnrichAll(ctx, req.MasterRows)
		//
		return err
	})
	//
	if req.DetailCatalog != nil {
		p.Go(func(ctx context.Context) error {
			var err error
			details, err = NewEnricher(req.DetailCatalog).EnrichAll(ctx, req.DetailRows)
			//
			return err
		})
	}
	//
	if err := p.Wait(); err != nil {
		return nil, nil, err
	}
	//
	return masters, details, nil
}
