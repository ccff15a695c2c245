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

// Package schema maintains the column catalog of each sheet: the id-keyed
// registry of physical and virtual column definitions, the name index over
// it, and the deterministic policy resolving a (potentially colliding)
// column name to exactly one definition.
package schema

import (
	"fmt"
	"sort"

	"github.com/consensys/bedrock/pkg/calc"
	log "github.com/sirupsen/logrus"
)

// ErrNotFound is returned when a column name resolves to no active
// definition at all, in neither the physical nor the virtual namespace.
var ErrNotFound = fmt.Errorf("column not found")

// ConflictKind reports which namespace a proposed column name collides with.
type ConflictKind uint8

const (
	// NO_CONFLICT indicates the name is free.
	NO_CONFLICT ConflictKind = iota
	// PHYSICAL_CONFLICT indicates an active physical column holds the name.
	PHYSICAL_CONFLICT
	// VIRTUAL_CONFLICT indicates an active virtual column holds the name.
	VIRTUAL_CONFLICT
)

// String returns a stable textual name for this conflict kind.
func (k ConflictKind) String() string {
	switch k {
	case PHYSICAL_CONFLICT:
		return "physical"
	case VIRTUAL_CONFLICT:
		return "virtual"
	default:
		return "none"
	}
}

// Header describes one column header as re-read from the external source,
// together with its inferred data type.
type Header struct {
	// Name of the column header.
	Name string
	// DataType inferred for the column.
	DataType DataType
}

// Catalog registers the column definitions of a single sheet.  Identity is
// id-based: the name index is a multimap, since the underlying store can
// legitimately contain colliding names (e.g. a physical column re-activated
// after a virtual override existed).  Resolution is nonetheless
// deterministic; raw map iteration order is never exposed.
type Catalog struct {
	// Sheet identifies the sheet this catalog describes.
	Sheet string
	// Definitions keyed by column id.
	defs map[ColumnId]*ColumnDefinition
	// Name index over the definitions.
	names map[string][]ColumnId
}

// NewCatalog constructs an empty catalog for the named sheet.
func NewCatalog(sheet string) *Catalog {
	return &Catalog{
		Sheet: sheet,
		defs:  make(map[ColumnId]*ColumnDefinition),
		names: make(map[string][]ColumnId),
	}
}

// Register adds or updates a column definition.  A new virtual column whose
// name collides with any active column of this sheet is rejected with
// DuplicateNameConflict, unless it updates the same id.  Physical
// registrations always succeed (the external sync owns that namespace).
func (c *Catalog) Register(def *ColumnDefinition) error {
	if def.IsVirtual() {
		if kind := c.ValidateUniqueName(def.Name, def.Id); kind != NO_CONFLICT {
			return calc.Validationf(calc.DUPLICATE_NAME_CONFLICT,
				"sheet %q already has an active %s column named %q", c.Sheet, kind, def.Name)
		}
	}
	//
	c.put(def)
	//
	return nil
}

// ValidateUniqueName checks whether the given name is taken by an active
// column other than excludeId, across both the physical and virtual
// namespaces.  Configuration callers use this before persisting.
func (c *Catalog) ValidateUniqueName(name string, excludeId ColumnId) ConflictKind {
	for _, id := range c.names[name] {
		def := c.defs[id]
		//
		if !def.Active || id == excludeId {
			continue
		}
		//
		if def.IsVirtual() {
			return VIRTUAL_CONFLICT
		}
		//
		return PHYSICAL_CONFLICT
	}
	//
	return NO_CONFLICT
}

// Resolve maps a column name to its single authoritative definition.  When
// several active definitions share the name, a virtual definition is
// preferred over a physical one; amongst colliding virtuals the most
// recently updated wins and a diagnostic is recorded.
func (c *Catalog) Resolve(name string) (*ColumnDefinition, error) {
	var candidates []*ColumnDefinition
	//
	for _, id := range c.names[name] {
		if def := c.defs[id]; def.Active {
			candidates = append(candidates, def)
		}
	}
	//
	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("%w: %q in sheet %q", ErrNotFound, name, c.Sheet)
	case 1:
		return candidates[0], nil
	}
	// Collision: prefer virtual, then latest update.
	var chosen *ColumnDefinition
	//
	for _, def := range candidates {
		if chosen == nil || prefer(def, chosen) {
			chosen = def
		}
	}
	//
	log.Debugf("ambiguous column name %q in sheet %q (%d active definitions); resolved to %s column %s",
		name, c.Sheet, len(candidates), chosen.Kind, chosen.Id)
	//
	return chosen, nil
}

// Deactivate marks a definition inactive, retaining it in the registry.
func (c *Catalog) Deactivate(id ColumnId) {
	if def, ok := c.defs[id]; ok {
		def.Active = false
	}
}

// RefreshPhysical reconciles the physical namespace against a freshly
// re-read header list: existing physical columns are updated (and
// re-activated) in place, new headers create new definitions, and physical
// columns whose header disappeared are deactivated, never deleted.
func (c *Catalog) RefreshPhysical(headers []Header) {
	seen := make(map[ColumnId]bool)
	//
	for i, h := range headers {
		if def := c.physicalByName(h.Name); def != nil {
			def.DataType = h.DataType
			def.DisplayOrder = i
			def.Active = true
			seen[def.Id] = true
		} else {
			fresh := NewPhysical(h.Name, h.DataType, i)
			c.put(fresh)
			seen[fresh.Id] = true
		}
	}
	//
	for id, def := range c.defs {
		if def.Kind == PHYSICAL_COLUMN && !seen[id] {
			def.Active = false
		}
	}
}

// ActiveColumns returns all active definitions of this sheet, ordered by
// display order (name-tiebroken for determinism).
func (c *Catalog) ActiveColumns() []*ColumnDefinition {
	var cols []*ColumnDefinition
	//
	for _, def := range c.defs {
		if def.Active {
			cols = append(cols, def)
		}
	}
	//
	sortColumns(cols)
	//
	return cols
}

// VirtualColumns returns the active virtual definitions of this sheet in
// display order.  This is the order in which the enricher applies
// calculators, so a later virtual column may reference an earlier one.
func (c *Catalog) VirtualColumns() []*ColumnDefinition {
	var cols []*ColumnDefinition
	//
	for _, def := range c.defs {
		if def.Active && def.IsVirtual() {
			cols = append(cols, def)
		}
	}
	//
	sortColumns(cols)
	//
	return cols
}

// CheckCycles rejects configurations in which virtual columns (transitively)
// reference each other.  Such configurations cannot be ordered for
// enrichment and must be caught before save.
func (c *Catalog) CheckCycles() error {
	// Map each name onto the virtual columns it denotes.
	virtuals := make(map[string]*ColumnDefinition)
	//
	for _, def := range c.VirtualColumns() {
		virtuals[def.Name] = def
	}
	// Colours: 0 unvisited, 1 on stack, 2 done.
	colour := make(map[string]uint8)
	//
	var visit func(name string) error
	//
	visit = func(name string) error {
		def, ok := virtuals[name]
		if !ok || colour[name] == 2 {
			return nil
		} else if colour[name] == 1 {
			return calc.Validationf(calc.CYCLIC_REFERENCE,
				"virtual column %q in sheet %q participates in a reference cycle", name, c.Sheet)
		}
		//
		colour[name] = 1
		//
		for _, ref := range def.Calculator.References() {
			if err := visit(ref); err != nil {
				return err
			}
		}
		//
		colour[name] = 2
		//
		return nil
	}
	//
	for _, def := range c.VirtualColumns() {
		if err := visit(def.Name); err != nil {
			return err
		}
	}
	//
	return nil
}

// Insert a definition into the registry, keeping the name index in sync when
// an update renames an existing column.
func (c *Catalog) put(def *ColumnDefinition) {
	if old, ok := c.defs[def.Id]; ok && old.Name != def.Name {
		c.unindex(old.Name, def.Id)
	}
	//
	if !c.indexed(def.Name, def.Id) {
		c.names[def.Name] = append(c.names[def.Name], def.Id)
	}
	//
	c.defs[def.Id] = def
}

func (c *Catalog) indexed(name string, id ColumnId) bool {
	for _, existing := range c.names[name] {
		if existing == id {
			return true
		}
	}
	//
	return false
}

func (c *Catalog) unindex(name string, id ColumnId) {
	ids := c.names[name]
	//
	for i, existing := range ids {
		if existing == id {
			c.names[name] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// Find the physical definition (active or not) holding a given name, if any.
func (c *Catalog) physicalByName(name string) *ColumnDefinition {
	for _, id := range c.names[name] {
		if def := c.defs[id]; def.Kind == PHYSICAL_COLUMN {
			return def
		}
	}
	//
	return nil
}

// Determine whether candidate should win over incumbent under the resolution
// policy: virtual beats physical, then the later update wins.
func prefer(candidate, incumbent *ColumnDefinition) bool {
	if candidate.IsVirtual() != incumbent.IsVirtual() {
		return candidate.IsVirtual()
	}
	//
	return candidate.UpdatedAt.After(incumbent.UpdatedAt)
}

func sortColumns(cols []*ColumnDefinition) {
	sort.SliceStable(cols, func(i, j int) bool {
		if cols[i].DisplayOrder != cols[j].DisplayOrder {
			return cols[i].DisplayOrder < cols[j].DisplayOrder
		}
		//
		return cols[i].Name < cols[j].Name
	})
}
