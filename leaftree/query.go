// Copyright 2026 The HADS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package leaftree

// Query names the set of keys a caller wants proved or fetched in one
// round trip, scoped to explicit keys since that is all the proof
// planner ever needs.
type Query struct {
	Keys [][]byte
}

// NewQuery returns an empty Query.
func NewQuery() Query {
	return Query{}
}

// InsertKey adds key to the set of keys this query asks about.
func (q *Query) InsertKey(key []byte) {
	q.Keys = append(q.Keys, key)
}
