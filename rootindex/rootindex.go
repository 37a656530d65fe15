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

// Package rootindex implements the root-leaf index: the stable mapping
// from a top-level subtree's compressed path to its position in the top
// Merkle tree. Positions are dense, start at 0, and are never reused or
// renumbered once assigned.
package rootindex

import (
	"encoding/binary"
	"sort"

	"github.com/hadsdb/hads/errs"
)

// Index is the root-leaf position assignment.
type Index struct {
	positions map[string]int
}

// New returns an empty Index.
func New() *Index {
	return &Index{positions: make(map[string]int)}
}

// AssignIfAbsent assigns compressedPath the next free position if it
// doesn't already have one, and returns its (possibly pre-existing)
// position.
func (idx *Index) AssignIfAbsent(compressedPath []byte) int {
	key := string(compressedPath)
	if p, ok := idx.positions[key]; ok {
		return p
	}
	p := len(idx.positions)
	idx.positions[key] = p
	return p
}

// PositionOf returns compressedPath's assigned position, if any.
func (idx *Index) PositionOf(compressedPath []byte) (int, bool) {
	p, ok := idx.positions[string(compressedPath)]
	return p, ok
}

// Len is the number of assigned positions (and hence the top tree's
// leaf count).
func (idx *Index) Len() int { return len(idx.positions) }

// PathAt returns the compressed path assigned to position p, scanning
// the map.
func (idx *Index) PathAt(p int) ([]byte, bool) {
	for k, v := range idx.positions {
		if v == p {
			return []byte(k), true
		}
	}
	return nil, false
}

// Entries returns every (compressedPath, position) pair, in no
// particular order.
func (idx *Index) Entries() map[string]int {
	out := make(map[string]int, len(idx.positions))
	for k, v := range idx.positions {
		out[k] = v
	}
	return out
}

// Encode serializes the full map; entry order in the wire format is
// irrelevant, but Encode writes positions ascending so the output is
// deterministic across calls for the same Index.
func Encode(idx *Index) []byte {
	type pair struct {
		path []byte
		pos  int
	}
	pairs := make([]pair, 0, len(idx.positions))
	for k, v := range idx.positions {
		pairs = append(pairs, pair{path: []byte(k), pos: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].pos < pairs[j].pos })

	var buf []byte
	var varintBuf [binary.MaxVarintLen64]byte
	putUvarint := func(v uint64) {
		n := binary.PutUvarint(varintBuf[:], v)
		buf = append(buf, varintBuf[:n]...)
	}
	putUvarint(uint64(len(pairs)))
	for _, p := range pairs {
		putUvarint(uint64(len(p.path)))
		buf = append(buf, p.path...)
		putUvarint(uint64(p.pos))
	}
	return buf
}

// Decode parses Encode's output, failing with errs.CorruptedData on
// truncation.
func Decode(data []byte) (*Index, error) {
	idx := New()
	off := 0
	readUvarint := func() (uint64, error) {
		v, n := binary.Uvarint(data[off:])
		if n <= 0 {
			return 0, errs.New(errs.CorruptedData, "truncated root-leaf index varint")
		}
		off += n
		return v, nil
	}

	count, err := readUvarint()
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < count; i++ {
		n, err := readUvarint()
		if err != nil {
			return nil, err
		}
		if off+int(n) > len(data) {
			return nil, errs.New(errs.CorruptedData, "truncated root-leaf index path")
		}
		path := append([]byte(nil), data[off:off+int(n)]...)
		off += int(n)
		pos, err := readUvarint()
		if err != nil {
			return nil, err
		}
		idx.positions[string(path)] = int(pos)
	}
	if off != len(data) {
		return nil, errs.New(errs.CorruptedData, "trailing bytes in root-leaf index encoding")
	}
	return idx, nil
}
