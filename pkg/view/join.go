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

	"github.com/consensys/bedrock/pkg/schema"
	log "github.com/sirupsen/logrus"
)

// Join merges detail rows into master rows under the given relationship,
// using a hash index over the stringified detail key.  The index keeps large
// joins O(n+m); a nested scan is not acceptable here.  Keys compare as
// strings, which side-steps cross-type mismatches between the two sheets.
//
// A master row with no matching details keeps an empty detail list.  Detail
// rows matching no master are dropped; a count is logged so the policy is
// observable.  Rows with a null key on either side never match.
func Join(ctx context.Context, masters, details []*EnrichedRow, rel schema.Relationship) ([]*EnrichedRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Index detail rows by stringified key.
	index := make(map[string][]*EnrichedRow, len(details))
	nullKeyed := 0
	//
	for _, d := range details {
		key := d.Get(rel.DetailKey)
		//
		if key.IsNull() {
			nullKeyed++
			continue
		}
		//
		index[key.AsText()] = append(index[key.AsText()], d)
	}
	// Probe with each master row.
	used := make(map[string]bool, len(index))
	//
	for _, m := range masters {
		m.Details = []*EnrichedRow{}
		//
		key := m.Get(rel.MasterKey)
		if key.IsNull() {
			continue
		}
		//
		if rows := index[key.AsText()]; rows != nil {
			m.Details = rows
			used[key.AsText()] = true
		}
	}
	// Account for dropped detail rows.
	dropped := 0
	//
	for key, rows := range index {
		if !used[key] {
			dropped += len(rows)
		}
	}
	//
	if dropped > 0 || nullKeyed > 0 {
		log.Debugf("join %s: dropped %d unmatched and %d null-keyed detail rows", rel.Id, dropped, nullKeyed)
	}
	//
	return masters, nil
}
