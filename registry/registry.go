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

// Package registry implements the leaf-tree handle registry: the
// mapping from a compressed path to the open handle of the leaf tree
// rooted there, plus that tree's prefixed store view.
package registry

import (
	"github.com/hadsdb/hads/leaftree"
	"github.com/hadsdb/hads/store"
)

// Registry owns every open leaf-tree handle for the lifetime of the
// process. There is no delete operation: once opened, a leaf tree stays
// registered.
type Registry struct {
	backing *store.Store
	trees   map[string]*leaftree.Tree
}

// New returns an empty Registry backed by s.
func New(s *store.Store) *Registry {
	return &Registry{backing: s, trees: make(map[string]*leaftree.Tree)}
}

// Open opens (or re-opens) the leaf tree at compressedPath and registers
// it. Open is idempotent: opening an already-open prefix simply reloads
// it from storage.
func (r *Registry) Open(compressedPath []byte) (*leaftree.Tree, error) {
	view := r.backing.Prefixed(compressedPath)
	tree, err := leaftree.Open(view)
	if err != nil {
		return nil, err
	}
	r.trees[string(compressedPath)] = tree
	return tree, nil
}

// Lookup returns the handle registered at compressedPath, if any.
func (r *Registry) Lookup(compressedPath []byte) (*leaftree.Tree, bool) {
	t, ok := r.trees[string(compressedPath)]
	return t, ok
}

// Insert registers an already-open handle under compressedPath.
func (r *Registry) Insert(compressedPath []byte, t *leaftree.Tree) {
	r.trees[string(compressedPath)] = t
}

// Prefixes returns every compressed path currently registered, in no
// particular order.
func (r *Registry) Prefixes() [][]byte {
	out := make([][]byte, 0, len(r.trees))
	for k := range r.trees {
		out = append(out, []byte(k))
	}
	return out
}

// Len reports how many leaf trees are currently registered.
func (r *Registry) Len() int { return len(r.trees) }
