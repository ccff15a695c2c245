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
package schema

import (
	"fmt"

	"github.com/google/uuid"
)

// Relationship configures a one-to-many master/detail join between two
// sheets, keyed by equal column values.  Relationships are created and
// edited by configuration and used read-only by the joiner.
type Relationship struct {
	// Id of this relationship.
	Id uuid.UUID
	// MasterSheet identifies the sheet whose rows anchor the join.
	MasterSheet string
	// DetailSheet identifies the sheet whose rows are merged in.
	DetailSheet string
	// MasterKey names the join key column on the master sheet.
	MasterKey string
	// DetailKey names the join key column on the detail sheet.
	DetailKey string
}

// NewRelationship constructs a relationship between the given sheets.
func NewRelationship(masterSheet, masterKey, detailSheet, detailKey string) Relationship {
	return Relationship{
		Id:          uuid.New(),
		MasterSheet: masterSheet,
		MasterKey:   masterKey,
		DetailSheet: detailSheet,
		DetailKey:   detailKey,
	}
}

// Validate checks both key columns resolve in their respective catalogs.  An
// unresolvable key is a catastrophic configuration error which aborts the
// whole computation, unlike a dangling display field.
func (r Relationship) Validate(master, detail *Catalog) error {
	if master.Sheet != r.MasterSheet {
		return fmt.Errorf("relationship %s expects master sheet %q, got %q", r.Id, r.MasterSheet, master.Sheet)
	} else if detail.Sheet != r.DetailSheet {
		return fmt.Errorf("relationship %s expects detail sheet %q, got %q", r.Id, r.DetailSheet, detail.Sheet)
	}
	//
	if _, err := master.Resolve(r.MasterKey); err != nil {
		return fmt.Errorf("relationship %s master key: %w", r.Id, err)
	}
	//
	if _, err := detail.Resolve(r.DetailKey); err != nil {
		return fmt.Errorf("relationship %s detail key: %w", r.Id, err)
	}
	//
	return nil
}
