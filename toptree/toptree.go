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

// Package toptree implements the fixed-arity binary Merkle tree over
// the sequence of top-level subtree root hashes. Leaves are indexed by
// the root-leaf index and used directly as tree leaves: they are
// already hashes (subtree roots), not raw content, so no further
// leaf-domain hashing is applied to them.
package toptree

import (
	"github.com/hadsdb/hads/errs"
	"github.com/hadsdb/hads/merkleproof"
)

// Tree is a derived cache: never persisted directly, always rebuilt
// from the current subtree root hashes.
type Tree struct {
	leaves []merkleproof.Hash
}

// Build constructs the top tree from leafHashes, already ordered by
// root-leaf position (leafHashes[i] is the root of the subtree assigned
// position i).
func Build(leafHashes []merkleproof.Hash) Tree {
	leaves := make([]merkleproof.Hash, len(leafHashes))
	copy(leaves, leafHashes)
	return Tree{leaves: leaves}
}

// RootHash returns the database root hash: 32 zero bytes when there are
// no top-level subtrees yet.
func (t Tree) RootHash() [32]byte {
	if len(t.leaves) == 0 {
		return [32]byte{}
	}
	return [32]byte(merkleproof.Root(t.leaves))
}

// Prove returns a multi-proof over the given leaf positions.
func (t Tree) Prove(indices []int) merkleproof.Proof {
	return merkleproof.BuildProof(t.leaves, indices)
}

// Len reports the number of top-level subtrees (leaves) in the tree.
func (t Tree) Len() int { return len(t.leaves) }

// RecomputeRoot recomputes the root hash from a top-tree proof within a
// tree of totalLeaves, with leafHash taking the place of the proof's
// revealed leaf at position index — the shape a verifier's terminal,
// top-tree proof element takes. The proof may reveal other leaves too
// (a batched proof over several root-level subtrees); their hashes are
// used as carried. It fails with errs.InvalidProof when the proof does
// not reveal position index.
func RecomputeRoot(proof merkleproof.Proof, index int, leafHash merkleproof.Hash, totalLeaves int) ([32]byte, error) {
	leafHashes := make([]merkleproof.Hash, len(proof.Indices))
	copy(leafHashes, proof.LeafHashes)
	found := false
	for i, idx := range proof.Indices {
		if idx == index {
			leafHashes[i] = leafHash
			found = true
		}
	}
	if !found {
		return [32]byte{}, errs.New(errs.InvalidProof, "top-tree proof does not reveal that position")
	}
	p := merkleproof.Proof{
		TotalLeaves: totalLeaves,
		Indices:     proof.Indices,
		LeafHashes:  leafHashes,
		Nodes:       proof.Nodes,
	}
	root, err := p.Root()
	if err != nil {
		return [32]byte{}, err
	}
	return [32]byte(root), nil
}
