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

// Package leaftree implements the authenticated ordered key/value map
// primitive that backs every subtree: get, apply(batch), root_hash(),
// prove(query), each key bound to the tree's Merkle root.
//
// Hashing follows the RFC6962 Merkle Tree Hash convention
// (domain-separated leaf/node hashes), applied here to (key, value)
// pairs sorted by key rather than to an append-only log, which is the
// ordered-map analogue of the same idea.
//
// Each tree keeps its whole key set in memory and recomputes hashes over
// the sorted entries on demand; there is no balancing and no paging.
package leaftree

import (
	"sort"

	"github.com/hadsdb/hads/errs"
	"github.com/hadsdb/hads/merkleproof"
	"github.com/hadsdb/hads/store"
)

// Op is a single staged mutation passed to Apply.
type Op struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// Tree is one leaf tree: an authenticated ordered map backed by a
// prefixed View, with its entire key set held in memory for simplicity
// (no balancing, no paging — see the package doc).
type Tree struct {
	view    *store.View
	entries map[string][]byte
}

// Open loads every entry under view's prefix into memory.
func Open(view *store.View) (*Tree, error) {
	t := &Tree{view: view, entries: make(map[string][]byte)}
	err := view.Iterate(func(e store.Entry) error {
		t.entries[string(e.Key)] = e.Value
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.Storage, "load leaf tree", err)
	}
	return t, nil
}

// Get fetches the raw encoded element stored under key.
func (t *Tree) Get(key []byte) ([]byte, bool) {
	v, ok := t.entries[string(key)]
	return v, ok
}

// Apply stages and persists a batch of puts/deletes, updating the
// in-memory index. When b is non-nil the writes join its atomic commit
// instead of being written immediately, so the leaf-tree batch can be
// combined with a meta-topology update into one atomic commit.
func (t *Tree) Apply(ops []Op, b *store.Batch) error {
	for _, op := range ops {
		ks := string(op.Key)
		if op.Delete {
			delete(t.entries, ks)
			if b != nil {
				if err := b.Delete(t.view, op.Key); err != nil {
					return err
				}
			} else if err := t.view.Delete(op.Key); err != nil {
				return err
			}
			continue
		}
		t.entries[ks] = op.Value
		if b != nil {
			if err := b.Put(t.view, op.Key, op.Value); err != nil {
				return err
			}
		} else if err := t.view.Put(op.Key, op.Value); err != nil {
			return err
		}
	}
	return nil
}

// sortedKeys returns every key currently in the tree, ascending.
func (t *Tree) sortedKeys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func leafHash(key, value []byte) merkleproof.Hash {
	buf := make([]byte, 0, len(key)+len(value)+1)
	buf = append(buf, key...)
	buf = append(buf, 0)
	buf = append(buf, value...)
	return merkleproof.LeafHash(buf)
}

// RootHash computes the tree's current Merkle Tree Hash over its sorted
// (key, value) entries.
func (t *Tree) RootHash() merkleproof.Hash {
	sorted := t.sortedKeys()
	leaves := make([]merkleproof.Hash, len(sorted))
	for i, k := range sorted {
		leaves[i] = leafHash([]byte(k), t.entries[k])
	}
	return merkleproof.Root(leaves)
}
