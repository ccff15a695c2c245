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
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/consensys/bedrock/pkg/schema"
	"github.com/consensys/bedrock/pkg/view"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// computeCmd assembles a view from a dataset configuration and one or two
// row files (master, and optionally detail when a relationship is
// configured).
var computeCmd = &cobra.Command{
	Use:   "compute [flags] config_file master_rows [detail_rows]",
	Short: "compute a tabular view.",
	Long: `Compute a grouped, sorted and aggregated view over the given row
	files under the given dataset configuration, printing the projected
	result as a table (or as JSON).`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		asJson := GetFlag(cmd, "json")
		timeout := GetDuration(cmd, "timeout")
		//
		ctx := context.Background()
		//
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			//
			defer cancel()
		}
		//
		result, err := computeView(ctx, args[0], args[1:])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		if asJson {
			printJsonView(result)
		} else {
			printView(result)
		}
	},
}

// Build the engine request from the given files and run it.
func computeView(ctx context.Context, configFile string, rowFiles []string) (*view.View, error) {
	cfg, err := ReadConfigFile(configFile)
	if err != nil {
		return nil, err
	}
	//
	catalogs, errs := cfg.BuildCatalogs()
	if len(errs) > 0 {
		return nil, errs[0]
	}
	//
	display, errs := cfg.BuildDisplay()
	if len(errs) > 0 {
		return nil, errs[0]
	}
	//
	if len(cfg.Sheets) == 0 {
		return nil, fmt.Errorf("configuration declares no sheets")
	}
	//
	req := view.Request{
		Display:      display,
		Relationship: cfg.BuildRelationship(),
	}
	// Master sheet
	masterSheet := cfg.Sheets[0].Name
	if req.Relationship != nil {
		masterSheet = req.Relationship.MasterSheet
	}
	//
	req.MasterCatalog = catalogs[masterSheet]
	if req.MasterCatalog == nil {
		return nil, fmt.Errorf("master sheet %q is not configured", masterSheet)
	}
	//
	headers, rows := ReadRowsFile(rowFiles[0])
	req.MasterCatalog.RefreshPhysical(headers)
	req.MasterRows = rows
	// Detail sheet
	if req.Relationship != nil {
		if len(rowFiles) < 2 {
			return nil, fmt.Errorf("relationship configured but no detail rows given")
		}
		//
		req.DetailCatalog = catalogs[req.Relationship.DetailSheet]
		if req.DetailCatalog == nil {
			return nil, fmt.Errorf("detail sheet %q is not configured", req.Relationship.DetailSheet)
		}
		//
		headers, rows = ReadRowsFile(rowFiles[1])
		req.DetailCatalog.RefreshPhysical(headers)
		req.DetailRows = rows
	}
	//
	return view.Compute(ctx, req)
}

// Print the projected view as an aligned text table, one section per group.
func printView(v *view.View) {
	widths := columnWidths(v)
	aligns := columnAligns(v)
	//
	printRule(widths)
	printCells(headerCells(v), widths, aligns)
	printRule(widths)
	//
	for _, g := range v.Groups {
		if !g.Key.IsNull() || len(v.Groups) > 1 {
			fmt.Printf("-- %s (%d rows)\n", g.Key.String(), len(g.Rows))
		}
		//
		for _, row := range g.Rows {
			printCells(rowCells(v, row), widths, aligns)
		}
		//
		printAggregates("group", v, g.Aggregates)
	}
	//
	printRule(widths)
	printAggregates("overall", v, v.Overall)
	//
	for _, diag := range v.Diags {
		fmt.Printf("dropped field %q: %v\n", diag.Column, diag.Err)
	}
}

func headerCells(v *view.View) []string {
	cells := make([]string, len(v.Fields))
	//
	for i, f := range v.Fields {
		cells[i] = f.Label
	}
	//
	return cells
}

func rowCells(v *view.View, row *view.EnrichedRow) []string {
	cells := make([]string, len(v.Fields))
	//
	for i, f := range v.Fields {
		cells[i] = row.Get(f.Column).AsText()
	}
	//
	return cells
}

func columnWidths(v *view.View) []int {
	widths := make([]int, len(v.Fields))
	//
	for i, f := range v.Fields {
		widths[i] = len(f.Label)
	}
	//
	for _, row := range v.Rows() {
		for i, f := range v.Fields {
			if w := len(row.Get(f.Column).AsText()); w > widths[i] {
				widths[i] = w
			}
		}
	}
	//
	return widths
}

func columnAligns(v *view.View) []schema.TextAlign {
	aligns := make([]schema.TextAlign, len(v.Fields))
	//
	for i, f := range v.Fields {
		aligns[i] = f.TextAlign
	}
	//
	return aligns
}

func printRule(widths []int) {
	total := 1
	//
	for _, w := range widths {
		total += w + 3
	}
	//
	fmt.Println(strings.Repeat("-", total))
}

func printCells(cells []string, widths []int, aligns []schema.TextAlign) {
	fmt.Print("|")
	//
	for i, cell := range cells {
		pad := widths[i] - len(cell)
		//
		switch aligns[i] {
		case schema.ALIGN_RIGHT:
			fmt.Printf(" %s%s |", strings.Repeat(" ", pad), cell)
		case schema.ALIGN_CENTER:
			fmt.Printf(" %s%s%s |", strings.Repeat(" ", pad/2), cell, strings.Repeat(" ", pad-pad/2))
		default:
			fmt.Printf(" %s%s |", cell, strings.Repeat(" ", pad))
		}
	}
	//
	fmt.Println()
}

func printAggregates(scope string, v *view.View, aggregates map[string]*view.Aggregate) {
	for _, f := range v.Fields {
		agg := aggregates[f.Column]
		if agg == nil {
			continue
		}
		//
		var parts []string
		//
		if agg.Subtotal != nil {
			parts = append(parts, fmt.Sprintf("subtotal=%v", *agg.Subtotal))
		}
		//
		if agg.Count != nil {
			parts = append(parts, fmt.Sprintf("count=%d", *agg.Count))
		}
		//
		if agg.Average != nil {
			parts = append(parts, fmt.Sprintf("average=%v", *agg.Average))
		}
		//
		if agg.Min != nil {
			parts = append(parts, fmt.Sprintf("min=%v", *agg.Min))
		}
		//
		if agg.Max != nil {
			parts = append(parts, fmt.Sprintf("max=%v", *agg.Max))
		}
		//
		if len(parts) > 0 {
			fmt.Printf("%s %s: %s\n", scope, f.Column, strings.Join(parts, " "))
		}
	}
}

// JSON projection of a view, shaped for downstream consumers.
type jsonView struct {
	Fields  []jsonField              `json:"fields"`
	Groups  []jsonGroup              `json:"groups"`
	Overall map[string]jsonAggregate `json:"overallAggregates,omitempty"`
}

type jsonField struct {
	Column    string `json:"columnName"`
	Label     string `json:"label"`
	TextAlign string `json:"textAlign"`
	DataType  string `json:"dataType"`
}

type jsonGroup struct {
	Key        string                   `json:"key"`
	Rows       [][]string               `json:"rows"`
	Aggregates map[string]jsonAggregate `json:"groupAggregates,omitempty"`
}

type jsonAggregate struct {
	Subtotal *float64 `json:"subtotal,omitempty"`
	Count    *int     `json:"count,omitempty"`
	Average  *float64 `json:"average,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}

func printJsonView(v *view.View) {
	out := jsonView{Overall: jsonAggregates(v, v.Overall)}
	//
	for _, f := range v.Fields {
		out.Fields = append(out.Fields, jsonField{
			Column:    f.Column,
			Label:     f.Label,
			TextAlign: string(f.TextAlign),
			DataType:  f.DataType.String(),
		})
	}
	//
	for _, g := range v.Groups {
		jg := jsonGroup{Key: g.Key.String(), Aggregates: jsonAggregates(v, g.Aggregates)}
		//
		for _, row := range g.Rows {
			jg.Rows = append(jg.Rows, rowCells(v, row))
		}
		//
		out.Groups = append(out.Groups, jg)
	}
	//
	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	fmt.Println(string(bytes))
}

// Render aggregates keyed by column; map marshalling sorts the keys.
func jsonAggregates(v *view.View, aggregates map[string]*view.Aggregate) map[string]jsonAggregate {
	if len(aggregates) == 0 {
		return nil
	}
	//
	out := make(map[string]jsonAggregate, len(aggregates))
	//
	for col, agg := range aggregates {
		out[col] = jsonAggregate{
			Subtotal: agg.Subtotal,
			Count:    agg.Count,
			Average:  agg.Average,
			Min:      agg.Min,
			Max:      agg.Max,
		}
	}
	//
	return out
}

func init() {
	rootCmd.AddCommand(computeCmd)
	computeCmd.Flags().Bool("json", false, "emit the view as JSON")
	computeCmd.Flags().Duration("timeout", 0, "bound the computation (0 disables)")
}
