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
	"fmt"
	"os"

	"github.com/consensys/bedrock/pkg/calc"
	"github.com/consensys/bedrock/pkg/schema"
	"gopkg.in/yaml.v3"
)

// VIRTUAL_ORDER_BASE offsets the display order of virtual columns past the
// physical headers, which occupy orders 0..n-1 in source order.
const VIRTUAL_ORDER_BASE = 1000

// Config is the on-disk dataset configuration: per-sheet virtual columns,
// an optional master/detail relationship, and the display configuration.
// Physical columns are not configured here; they come from the row files'
// header lists.
type Config struct {
	Sheets       []SheetConfig       `yaml:"sheets"`
	Relationship *RelationshipConfig `yaml:"relationship,omitempty"`
	Display      DisplayConfig       `yaml:"display"`
}

// SheetConfig configures the virtual columns of one sheet.
type SheetConfig struct {
	Name    string         `yaml:"name"`
	Columns []ColumnConfig `yaml:"columns"`
}

// ColumnConfig configures one virtual column.
type ColumnConfig struct {
	Name       string           `yaml:"name"`
	Type       string           `yaml:"type"`
	Order      *int             `yaml:"order,omitempty"`
	Calculator CalculatorConfig `yaml:"calculator"`
}

// CalculatorConfig holds exactly one calculator branch.
type CalculatorConfig struct {
	Formula  []any           `yaml:"formula,omitempty"`
	Regex    *RegexConfig    `yaml:"regex,omitempty"`
	Concat   *ConcatConfig   `yaml:"concat,omitempty"`
	Currency *CurrencyConfig `yaml:"currency,omitempty"`
	Date     *DateConfig     `yaml:"date,omitempty"`
}

// RegexConfig configures a regex transform.
type RegexConfig struct {
	Source      string `yaml:"source"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
	Flags       string `yaml:"flags,omitempty"`
}

// ConcatConfig configures a concatenation.  A nil separator means the
// default (single space); an explicit empty string disables separation.
type ConcatConfig struct {
	Columns   []string `yaml:"columns"`
	Prefix    string   `yaml:"prefix,omitempty"`
	Separator *string  `yaml:"separator,omitempty"`
	Suffix    string   `yaml:"suffix,omitempty"`
}

// CurrencyConfig configures a currency conversion.
type CurrencyConfig struct {
	Source      string `yaml:"source"`
	Mode        string `yaml:"mode"`
	Symbol      string `yaml:"symbol,omitempty"`
	SymbolAfter bool   `yaml:"symbolAfter,omitempty"`
	Places      int    `yaml:"places,omitempty"`
	Thousands   string `yaml:"thousands,omitempty"`
}

// DateConfig configures a date format conversion.
type DateConfig struct {
	Source string `yaml:"source"`
	Format string `yaml:"format"`
	Custom string `yaml:"custom,omitempty"`
}

// RelationshipConfig configures the master/detail join.
type RelationshipConfig struct {
	Master    string `yaml:"master"`
	Detail    string `yaml:"detail"`
	MasterKey string `yaml:"masterKey"`
	DetailKey string `yaml:"detailKey"`
}

// DisplayConfig configures projection, grouping, sorting and aggregation.
type DisplayConfig struct {
	Fields []FieldConfig `yaml:"fields"`
	Sort   []SortConfig  `yaml:"sort,omitempty"`
	Search string        `yaml:"search,omitempty"`
}

// FieldConfig configures one display field.  Visibility defaults to true.
type FieldConfig struct {
	Column   string   `yaml:"column"`
	Label    string   `yaml:"label,omitempty"`
	Visible  *bool    `yaml:"visible,omitempty"`
	Order    int      `yaml:"order"`
	Align    string   `yaml:"align,omitempty"`
	Group    bool     `yaml:"group,omitempty"`
	Analysis []string `yaml:"analysis,omitempty"`
}

// SortConfig configures one sort key.
type SortConfig struct {
	Column     string `yaml:"column"`
	Descending bool   `yaml:"descending,omitempty"`
}

// ReadConfigFile loads and decodes a dataset configuration.
func ReadConfigFile(filename string) (*Config, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	var cfg Config
	//
	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	//
	return &cfg, nil
}

// BuildCatalogs constructs one catalog per configured sheet, registering its
// virtual columns in listed order.  Registration and calculator validation
// failures are collected per sheet rather than stopping at the first.
func (c *Config) BuildCatalogs() (map[string]*schema.Catalog, []error) {
	var (
		catalogs = make(map[string]*schema.Catalog)
		errs     []error
	)
	//
	for _, sc := range c.Sheets {
		catalog := schema.NewCatalog(sc.Name)
		catalogs[sc.Name] = catalog
		//
		for i, cc := range sc.Columns {
			def, err := cc.build(i)
			if err != nil {
				errs = append(errs, fmt.Errorf("sheet %q column %q: %w", sc.Name, cc.Name, err))
				continue
			}
			//
			if err := catalog.Register(def); err != nil {
				errs = append(errs, fmt.Errorf("sheet %q: %w", sc.Name, err))
			}
		}
		//
		if err := catalog.CheckCycles(); err != nil {
			errs = append(errs, fmt.Errorf("sheet %q: %w", sc.Name, err))
		}
	}
	//
	return catalogs, errs
}

// BuildRelationship constructs the configured relationship, if any.
func (c *Config) BuildRelationship() *schema.Relationship {
	if c.Relationship == nil {
		return nil
	}
	//
	rel := schema.NewRelationship(
		c.Relationship.Master, c.Relationship.MasterKey,
		c.Relationship.Detail, c.Relationship.DetailKey)
	//
	return &rel
}

// BuildDisplay translates the display section into engine configuration.
func (c *Config) BuildDisplay() (schema.DisplayConfig, []error) {
	var (
		display schema.DisplayConfig
		errs    []error
	)
	//
	for _, fc := range c.Display.Fields {
		visible := fc.Visible == nil || *fc.Visible
		//
		align, err := parseAlign(fc.Align)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", fc.Column, err))
		}
		//
		analysis, err := parseAnalysis(fc.Analysis)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", fc.Column, err))
		}
		//
		display.Fields = append(display.Fields, schema.FieldConfig{
			Column:      fc.Column,
			Label:       fc.Label,
			Visible:     visible,
			Order:       fc.Order,
			TextAlign:   align,
			GroupingKey: fc.Group,
			Analysis:    analysis,
		})
	}
	//
	for _, sc := range c.Display.Sort {
		display.Sort = append(display.Sort, schema.SortKey{Column: sc.Column, Descending: sc.Descending})
	}
	//
	display.Search = c.Display.Search
	//
	return display, errs
}

// Build one virtual column definition, validating its calculator.
func (cc *ColumnConfig) build(position int) (*schema.ColumnDefinition, error) {
	datatype, err := schema.ParseDataType(cc.Type)
	if err != nil {
		return nil, err
	}
	//
	spec, err := cc.Calculator.build()
	if err != nil {
		return nil, err
	}
	//
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	//
	order := VIRTUAL_ORDER_BASE + position
	if cc.Order != nil {
		order = *cc.Order
	}
	//
	return schema.NewVirtual(cc.Name, datatype, order, spec), nil
}

// Build the calculator spec from whichever branch is populated.
func (cal *CalculatorConfig) build() (*calc.Spec, error) {
	switch {
	case cal.Formula != nil:
		parts, err := parseFormula(cal.Formula)
		if err != nil {
			return nil, err
		}
		//
		return calc.NewFormula(parts...), nil
	case cal.Regex != nil:
		return calc.NewRegex(calc.RegexSpec{
			Source:      cal.Regex.Source,
			Pattern:     cal.Regex.Pattern,
			Replacement: cal.Regex.Replacement,
			Flags:       cal.Regex.Flags,
		}), nil
	case cal.Concat != nil:
		separator := calc.DEFAULT_SEPARATOR
		if cal.Concat.Separator != nil {
			separator = *cal.Concat.Separator
		}
		//
		return calc.NewConcat(calc.ConcatSpec{
			Columns:   cal.Concat.Columns,
			Prefix:    cal.Concat.Prefix,
			Separator: separator,
			Suffix:    cal.Concat.Suffix,
		}), nil
	case cal.Currency != nil:
		mode, err := parseCurrencyMode(cal.Currency.Mode)
		if err != nil {
			return nil, err
		}
		//
		return calc.NewCurrency(calc.CurrencySpec{
			Source:      cal.Currency.Source,
			Mode:        mode,
			Symbol:      cal.Currency.Symbol,
			SymbolAfter: cal.Currency.SymbolAfter,
			Places:      cal.Currency.Places,
			Thousands:   cal.Currency.Thousands,
		}), nil
	case cal.Date != nil:
		return calc.NewDateFormat(calc.DateFormatSpec{
			Source: cal.Date.Source,
			Format: calc.DateFormat(cal.Date.Format),
			Custom: cal.Date.Custom,
		}), nil
	default:
		return nil, fmt.Errorf("no calculator configured")
	}
}

// Parse a formula part list.  Numeric scalars are literals, operator symbols
// are operators, and any other string is a column reference.
func parseFormula(raw []any) ([]calc.Part, error) {
	var parts []calc.Part
	//
	for i, elem := range raw {
		switch v := elem.(type) {
		case int:
			parts = append(parts, calc.Literal(float64(v)))
		case float64:
			parts = append(parts, calc.Literal(v))
		case string:
			switch v {
			case calc.OP_ADD, calc.OP_SUB, calc.OP_MUL, calc.OP_DIV, calc.OP_MOD:
				parts = append(parts, calc.Op(v))
			default:
				parts = append(parts, calc.Column(v))
			}
		default:
			return nil, fmt.Errorf("formula part %d has unsupported type %T", i, elem)
		}
	}
	//
	return parts, nil
}

func parseAlign(name string) (schema.TextAlign, error) {
	switch name {
	case "":
		return "", nil
	case "left":
		return schema.ALIGN_LEFT, nil
	case "right":
		return schema.ALIGN_RIGHT, nil
	case "center", "centre":
		return schema.ALIGN_CENTER, nil
	default:
		return "", fmt.Errorf("unknown alignment %q", name)
	}
}

func parseAnalysis(ops []string) (schema.Analysis, error) {
	var analysis schema.Analysis
	//
	for _, op := range ops {
		switch op {
		case "subtotal", "sum":
			analysis.Subtotal = true
		case "count":
			analysis.Count = true
		case "average", "avg":
			analysis.Average = true
		case "min":
			analysis.Min = true
		case "max":
			analysis.Max = true
		default:
			return analysis, fmt.Errorf("unknown analysis operation %q", op)
		}
	}
	//
	return analysis, nil
}

func parseCurrencyMode(name string) (calc.CurrencyMode, error) {
	switch name {
	case "to", "toCurrency", "":
		return calc.TO_CURRENCY, nil
	case "from", "fromCurrency":
		return calc.FROM_CURRENCY, nil
	default:
		return calc.TO_CURRENCY, fmt.Errorf("unknown currency mode %q", name)
	}
}
