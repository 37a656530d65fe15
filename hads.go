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

// Package hads implements a hierarchical authenticated data store: a
// persistent key/value database whose contents are bound to a single
// root hash by a two-level Merkle tree composition — a top tree over
// the roots of per-path "leaf trees", each an authenticated ordered
// map. Any key's value can be proved against the current root hash
// without exposing the rest of the database, and disjoint subtrees can
// be proved together in a single batched proof.
//
// This package wires together the compressed-path codec (keycodec), the
// tagged element union (element), the leaf-tree handle registry
// (registry), the root-leaf position index (rootindex), the top tree
// (toptree), the backing key/value store (store/meta) and the leaf-tree
// primitive (leaftree) into the composed operations: Insert, Get, Proof
// and the package-level ExecuteProof verifier.
package hads

import (
	"github.com/golang/glog"

	"github.com/hadsdb/hads/errs"
	"github.com/hadsdb/hads/merkleproof"
	"github.com/hadsdb/hads/meta"
	"github.com/hadsdb/hads/registry"
	"github.com/hadsdb/hads/rootindex"
	"github.com/hadsdb/hads/store"
	"github.com/hadsdb/hads/toptree"
)

// MaxReferenceHops bounds how many indirections followReference will
// chase before giving up, so a malformed or adversarial reference chain
// can't hang a caller.
const MaxReferenceHops = 10

// Store is a single hierarchical authenticated data store, backed by one
// on-disk key/value database. All methods assume a single writer; reads
// may run concurrently with each other but not with a write.
type Store struct {
	backing  *store.Store
	registry *registry.Registry
	rootIdx  *rootindex.Index
	top      toptree.Tree
}

// Open opens (creating if absent) the store at path and rebuilds its
// in-memory topology — the registry of open leaf trees and the top tree
// — from the persisted prefix set and root-leaf index.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := defaultOptions()
	for _, o := range opts {
		o(cfg)
	}

	backing, err := store.Open(path, cfg.pebbleOptions)
	if err != nil {
		return nil, err
	}

	prefixes, idx, err := meta.Load(backing)
	if err != nil {
		return nil, err
	}

	reg := registry.New(backing)
	for _, p := range prefixes {
		if _, err := reg.Open(p); err != nil {
			return nil, errs.Wrap(errs.CorruptedData, "reopen persisted leaf tree", err)
		}
	}

	s := &Store{backing: backing, registry: reg, rootIdx: idx}
	s.rebuildTopTree()
	glog.V(1).Infof("hads: opened %s with %d top-level subtrees", path, idx.Len())
	return s, nil
}

// Close releases the backing store's resources.
func (s *Store) Close() error {
	return s.backing.Close()
}

// Checkpoint writes a consistent on-disk copy of the store to destPath.
// The copy can be opened independently with Open(destPath).
func (s *Store) Checkpoint(destPath string) error {
	return s.backing.Checkpoint(destPath)
}

// RootHash returns the database's current root hash: the top tree's
// root, or 32 zero bytes when no top-level subtree has been created yet.
func (s *Store) RootHash() [32]byte {
	return s.top.RootHash()
}

// rebuildTopTree recomputes the top tree from every top-level subtree's
// current root hash, ordered by root-leaf position. The top tree
// is a derived cache and is never itself persisted.
func (s *Store) rebuildTopTree() {
	n := s.rootIdx.Len()
	leaves := make([]merkleproof.Hash, n)
	for path, pos := range s.rootIdx.Entries() {
		tree, ok := s.registry.Lookup([]byte(path))
		if !ok {
			// Every assigned position should have a registered subtree;
			// this should be unreachable. Leave the leaf at its zero
			// value rather than panic on a corrupted store.
			glog.Warningf("hads: root-leaf position %d has no registered subtree", pos)
			continue
		}
		leaves[pos] = tree.RootHash()
	}
	s.top = toptree.Build(leaves)
}

// RootIndexBytes returns the serialized root-leaf index, the trailing
// element OrderedProofs callers must append to the proof list passed to
// ExecuteProof.
func (s *Store) RootIndexBytes() []byte {
	return rootindex.Encode(s.rootIdx)
}
