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

import (
	"encoding/binary"
	"sort"

	"github.com/hadsdb/hads/errs"
	"github.com/hadsdb/hads/merkleproof"
)

// proofEntry is one revealed (index, key, value) triple: either a key
// the caller actually asked about, or a neighbor disclosed to prove
// that an asked-about key is absent (it falls strictly between two
// revealed keys, or outside the first/last key).
type proofEntry struct {
	Index int
	Key   []byte
	Value []byte
}

// Proof is the leaf tree's prove(query) -> proof_bytes output, decoded
// form. Encode/Decode give the wire shape.
type Proof struct {
	TotalLeaves int
	Entries     []proofEntry // ascending by Index
	Nodes       []merkleproof.Hash
}

// Prove builds a combined inclusion/absence proof for every key in q.
func (t *Tree) Prove(q Query) (Proof, error) {
	sorted := t.sortedKeys()
	indexOf := make(map[string]int, len(sorted))
	for i, k := range sorted {
		indexOf[k] = i
	}

	included := make(map[int]bool)
	var indices []int
	addIndex := func(idx int) {
		if !included[idx] {
			included[idx] = true
			indices = append(indices, idx)
		}
	}

	for _, qk := range q.Keys {
		ks := string(qk)
		if idx, ok := indexOf[ks]; ok {
			addIndex(idx)
			continue
		}
		pos := sort.SearchStrings(sorted, ks)
		if pos > 0 {
			addIndex(pos - 1)
		}
		if pos < len(sorted) {
			addIndex(pos)
		}
	}

	leaves := make([]merkleproof.Hash, len(sorted))
	for i, k := range sorted {
		leaves[i] = leafHash([]byte(k), t.entries[k])
	}
	mp := merkleproof.BuildProof(leaves, indices)

	entries := make([]proofEntry, len(mp.Indices))
	for i, idx := range mp.Indices {
		k := sorted[idx]
		entries[i] = proofEntry{Index: idx, Key: []byte(k), Value: t.entries[k]}
	}

	return Proof{
		TotalLeaves: len(sorted),
		Entries:     entries,
		Nodes:       mp.Nodes,
	}, nil
}

// Result is what executing a Proof yields: the recomputed tree root and
// the keys it was able to resolve (present keys only — an absent key
// simply has no entry in Entries).
type Result struct {
	Root    merkleproof.Hash
	Entries map[string][]byte
}

// Execute recomputes the leaf tree's root hash from p and returns the
// resolved key/value entries it carries, failing with errs.InvalidProof
// when p's node hashes do not exactly cover the tree's shape. It does not
// compare the recomputed root against any expected hash; that is left to
// the caller.
func Execute(p Proof) (Result, error) {
	indices := make([]int, len(p.Entries))
	leafHashes := make([]merkleproof.Hash, len(p.Entries))
	entries := make(map[string][]byte, len(p.Entries))
	for i, e := range p.Entries {
		indices[i] = e.Index
		leafHashes[i] = leafHash(e.Key, e.Value)
		entries[string(e.Key)] = e.Value
	}
	mp := merkleproof.Proof{
		TotalLeaves: p.TotalLeaves,
		Indices:     indices,
		LeafHashes:  leafHashes,
		Nodes:       p.Nodes,
	}
	root, err := mp.Root()
	if err != nil {
		return Result{}, errs.Wrap(errs.InvalidProof, "leaf tree proof", err)
	}
	return Result{Root: root, Entries: entries}, nil
}

// Encode serializes a Proof to a stable, length-delimited binary form.
func Encode(p Proof) []byte {
	var buf []byte
	var varintBuf [binary.MaxVarintLen64]byte
	putUvarint := func(v uint64) {
		n := binary.PutUvarint(varintBuf[:], v)
		buf = append(buf, varintBuf[:n]...)
	}
	putBytes := func(b []byte) {
		putUvarint(uint64(len(b)))
		buf = append(buf, b...)
	}

	putUvarint(uint64(p.TotalLeaves))
	putUvarint(uint64(len(p.Entries)))
	for _, e := range p.Entries {
		putUvarint(uint64(e.Index))
		putBytes(e.Key)
		putBytes(e.Value)
	}
	putUvarint(uint64(len(p.Nodes)))
	for _, h := range p.Nodes {
		buf = append(buf, h[:]...)
	}
	return buf
}

// Decode parses Encode's output.
func Decode(data []byte) (Proof, error) {
	var p Proof
	off := 0
	readUvarint := func() (uint64, error) {
		v, n := binary.Uvarint(data[off:])
		if n <= 0 {
			return 0, errs.New(errs.CorruptedData, "truncated leaf proof varint")
		}
		off += n
		return v, nil
	}
	readBytes := func() ([]byte, error) {
		n, err := readUvarint()
		if err != nil {
			return nil, err
		}
		if off+int(n) > len(data) {
			return nil, errs.New(errs.CorruptedData, "truncated leaf proof bytes")
		}
		b := data[off : off+int(n)]
		off += int(n)
		return b, nil
	}

	total, err := readUvarint()
	if err != nil {
		return p, err
	}
	p.TotalLeaves = int(total)

	numEntries, err := readUvarint()
	if err != nil {
		return p, err
	}
	p.Entries = make([]proofEntry, numEntries)
	for i := range p.Entries {
		idx, err := readUvarint()
		if err != nil {
			return p, err
		}
		key, err := readBytes()
		if err != nil {
			return p, err
		}
		val, err := readBytes()
		if err != nil {
			return p, err
		}
		p.Entries[i] = proofEntry{Index: int(idx), Key: key, Value: val}
	}

	numNodes, err := readUvarint()
	if err != nil {
		return p, err
	}
	if numNodes > 0 {
		// Left nil when empty, as Prove leaves it, so Decode(Encode(p)) == p.
		p.Nodes = make([]merkleproof.Hash, numNodes)
	}
	for i := range p.Nodes {
		if off+merkleproof.HashSize > len(data) {
			return p, errs.New(errs.CorruptedData, "truncated leaf proof node hash")
		}
		copy(p.Nodes[i][:], data[off:off+merkleproof.HashSize])
		off += merkleproof.HashSize
	}

	if off != len(data) {
		return p, errs.New(errs.CorruptedData, "trailing bytes in leaf proof encoding")
	}
	return p, nil
}
