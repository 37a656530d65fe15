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

// Package merkleproof implements a fixed-arity binary Merkle tree over
// an ordered vector of 32-byte leaf hashes, plus the combined
// (index-set) multi-proof the rest of this module needs: one proof
// object that lets a verifier, knowing only a subset of leaves by
// index, recompute the same root a prover holding every leaf would get.
//
// It follows the RFC6962 Merkle Tree Hash definition (domain-separated
// leaf/node hashing, recursive split at the largest power of two below
// n), generalized from a single-leaf audit path to an arbitrary index
// set. Both the top tree and the leaf-tree primitive reuse this
// construction.
package merkleproof

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"github.com/hadsdb/hads/errs"
)

// HashSize is the width of every node/leaf hash in this tree.
const HashSize = 32

// Hash is a single tree node or leaf digest.
type Hash [HashSize]byte

const (
	leafPrefix = byte(0)
	nodePrefix = byte(1)
)

// NodeHash combines two child hashes into their parent's hash.
func NodeHash(left, right Hash) Hash {
	buf := make([]byte, 0, 1+2*HashSize)
	buf = append(buf, nodePrefix)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return sha256.Sum256(buf)
}

// LeafHash hashes raw leaf content with the domain-separation byte.
// Used by the leaf-tree primitive, whose leaves are (key, value) pairs.
// The top tree does not call this: its leaves are already hashes
// (subtree roots) and are used as-is.
func LeafHash(data []byte) Hash {
	buf := make([]byte, 0, 1+len(data))
	buf = append(buf, leafPrefix)
	buf = append(buf, data...)
	return sha256.Sum256(buf)
}

// EmptyHash is the Merkle Tree Hash of the empty leaf list.
var EmptyHash = Hash(sha256.Sum256(nil))

// largestPowerOf2Below returns the largest power of two strictly less
// than n, or 0 if n < 2.
func largestPowerOf2Below(n int) int {
	if n < 2 {
		return 0
	}
	k := 1
	for k*2 < n {
		k *= 2
	}
	return k
}

// Root computes the Merkle Tree Hash over leaves in order.
func Root(leaves []Hash) Hash {
	if len(leaves) == 0 {
		return EmptyHash
	}
	return mth(leaves)
}

func mth(d []Hash) Hash {
	n := len(d)
	if n == 1 {
		return d[0]
	}
	k := largestPowerOf2Below(n)
	return NodeHash(mth(d[:k]), mth(d[k:]))
}

// Proof lets a verifier who only knows the leaves at Indices recompute
// Root(leaves) given the full leaf count and the Nodes emitted during
// BuildProof's depth-first walk.
type Proof struct {
	// TotalLeaves is the number of leaves in the tree the proof was built from.
	TotalLeaves int
	// Indices are the proved leaf positions, strictly ascending, no duplicates.
	Indices []int
	// LeafHashes are the proved leaves' hashes, aligned with Indices.
	LeafHashes []Hash
	// Nodes are the sibling-subtree hashes needed to fill every gap between
	// proved leaves, in depth-first (left-to-right) order.
	Nodes []Hash
}

// BuildProof builds a Proof for the given leaf indices (need not be sorted
// or deduplicated by the caller).
func BuildProof(leaves []Hash, indices []int) Proof {
	queried := make(map[int]bool, len(indices))
	for _, i := range indices {
		queried[i] = true
	}
	sorted := make([]int, 0, len(queried))
	for i := range queried {
		sorted = append(sorted, i)
	}
	sort.Ints(sorted)

	leafHashes := make([]Hash, len(sorted))
	for i, idx := range sorted {
		leafHashes[i] = leaves[idx]
	}

	var nodes []Hash
	if len(leaves) > 0 {
		var walk func(lo, hi int) Hash
		walk = func(lo, hi int) Hash {
			n := hi - lo
			if n == 1 {
				if queried[lo] {
					return leaves[lo]
				}
				nodes = append(nodes, leaves[lo])
				return leaves[lo]
			}
			any := false
			for i := lo; i < hi; i++ {
				if queried[i] {
					any = true
					break
				}
			}
			if !any {
				h := mth(leaves[lo:hi])
				nodes = append(nodes, h)
				return h
			}
			k := lo + largestPowerOf2Below(n)
			left := walk(lo, k)
			right := walk(k, hi)
			return NodeHash(left, right)
		}
		walk(0, len(leaves))
	}

	return Proof{
		TotalLeaves: len(leaves),
		Indices:     sorted,
		LeafHashes:  leafHashes,
		Nodes:       nodes,
	}
}

// Root recomputes the tree root this proof was built from, consuming
// p.Nodes in the same depth-first order BuildProof emitted them.
func (p Proof) Root() (Hash, error) {
	if p.TotalLeaves == 0 {
		return EmptyHash, nil
	}
	queried := make(map[int]Hash, len(p.Indices))
	for i, idx := range p.Indices {
		queried[idx] = p.LeafHashes[i]
	}
	cursor := 0
	var walk func(lo, hi int) (Hash, error)
	walk = func(lo, hi int) (Hash, error) {
		n := hi - lo
		if n == 1 {
			if h, ok := queried[lo]; ok {
				return h, nil
			}
			if cursor >= len(p.Nodes) {
				return Hash{}, errs.New(errs.InvalidProof, "proof exhausted before covering all leaves")
			}
			h := p.Nodes[cursor]
			cursor++
			return h, nil
		}
		any := false
		for i := lo; i < hi; i++ {
			if _, ok := queried[i]; ok {
				any = true
				break
			}
		}
		if !any {
			if cursor >= len(p.Nodes) {
				return Hash{}, errs.New(errs.InvalidProof, "proof exhausted before covering all leaves")
			}
			h := p.Nodes[cursor]
			cursor++
			return h, nil
		}
		k := lo + largestPowerOf2Below(n)
		left, err := walk(lo, k)
		if err != nil {
			return Hash{}, err
		}
		right, err := walk(k, hi)
		if err != nil {
			return Hash{}, err
		}
		return NodeHash(left, right), nil
	}
	root, err := walk(0, p.TotalLeaves)
	if err != nil {
		return Hash{}, err
	}
	if cursor != len(p.Nodes) {
		return Hash{}, errs.New(errs.InvalidProof, "proof carries unused node hashes")
	}
	return root, nil
}

// Verify reports whether p recomputes to expectedRoot.
func Verify(p Proof, expectedRoot Hash) bool {
	got, err := p.Root()
	if err != nil {
		return false
	}
	return got == expectedRoot
}

// Encode serializes a Proof to a stable, length-delimited binary form.
func Encode(p Proof) []byte {
	var buf []byte
	var varintBuf [binary.MaxVarintLen64]byte

	putUvarint := func(v uint64) {
		n := binary.PutUvarint(varintBuf[:], v)
		buf = append(buf, varintBuf[:n]...)
	}

	putUvarint(uint64(p.TotalLeaves))
	putUvarint(uint64(len(p.Indices)))
	for i, idx := range p.Indices {
		putUvarint(uint64(idx))
		buf = append(buf, p.LeafHashes[i][:]...)
	}
	putUvarint(uint64(len(p.Nodes)))
	for _, h := range p.Nodes {
		buf = append(buf, h[:]...)
	}
	return buf
}

// Decode parses Encode's output, failing with errs.CorruptedData on any
// truncation or malformed length.
func Decode(data []byte) (Proof, error) {
	var p Proof
	off := 0

	readUvarint := func() (uint64, error) {
		v, n := binary.Uvarint(data[off:])
		if n <= 0 {
			return 0, errs.New(errs.CorruptedData, "truncated proof varint")
		}
		off += n
		return v, nil
	}
	readHash := func() (Hash, error) {
		var h Hash
		if off+HashSize > len(data) {
			return h, errs.New(errs.CorruptedData, "truncated proof hash")
		}
		copy(h[:], data[off:off+HashSize])
		off += HashSize
		return h, nil
	}

	total, err := readUvarint()
	if err != nil {
		return p, err
	}
	p.TotalLeaves = int(total)

	numIdx, err := readUvarint()
	if err != nil {
		return p, err
	}
	p.Indices = make([]int, numIdx)
	p.LeafHashes = make([]Hash, numIdx)
	for i := 0; i < int(numIdx); i++ {
		idx, err := readUvarint()
		if err != nil {
			return p, err
		}
		p.Indices[i] = int(idx)
		h, err := readHash()
		if err != nil {
			return p, err
		}
		p.LeafHashes[i] = h
	}

	numNodes, err := readUvarint()
	if err != nil {
		return p, err
	}
	p.Nodes = make([]Hash, numNodes)
	for i := 0; i < int(numNodes); i++ {
		h, err := readHash()
		if err != nil {
			return p, err
		}
		p.Nodes[i] = h
	}

	if off != len(data) {
		return p, errs.New(errs.CorruptedData, "trailing bytes in proof encoding")
	}
	return p, nil
}
