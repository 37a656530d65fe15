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

package hads

import (
	"github.com/hadsdb/hads/element"
	"github.com/hadsdb/hads/errs"
	"github.com/hadsdb/hads/keycodec"
	"github.com/hadsdb/hads/leaftree"
	"github.com/hadsdb/hads/merkleproof"
	"github.com/hadsdb/hads/rootindex"
	"github.com/hadsdb/hads/toptree"
)

// ExecuteProof verifies a single-path proof list (as produced by
// OrderedProofs plus the store's serialized root-leaf index appended as
// the final element) and returns the database root hash it recomputes
// to, together with the resolved entries from the innermost (queried)
// leaf tree.
//
// proofs must have exactly len(path)+2 elements: the queried leaf
// tree's proof, one intermediate proof per remaining path segment, the
// top-tree proof, and finally the serialized root-leaf index.
func ExecuteProof(path [][]byte, proofs [][]byte) ([32]byte, map[string][]byte, error) {
	if len(proofs) < 2 {
		return [32]byte{}, nil, errs.New(errs.InvalidProof, "proof list should have 2 or more elements")
	}
	if len(proofs)-2 != len(path) {
		return [32]byte{}, nil, errs.New(errs.InvalidProof, "proof list length should be two greater than the path length")
	}

	rootLeafsData := proofs[len(proofs)-1]
	proofs = proofs[:len(proofs)-1]
	idx, err := rootindex.Decode(rootLeafsData)
	if err != nil {
		return [32]byte{}, nil, errs.Wrap(errs.CorruptedData, "unable to deserialize root-leaf index", err)
	}

	leafProof, err := leaftree.Decode(proofs[0])
	if err != nil {
		return [32]byte{}, nil, errs.Wrap(errs.InvalidProof, "invalid proof element", err)
	}
	result, err := leaftree.Execute(leafProof)
	if err != nil {
		return [32]byte{}, nil, errs.Wrap(errs.InvalidProof, "invalid proof element", err)
	}
	lastRootHash := result.Root
	firstLevelEntries := result.Entries

	remaining := proofs[1:]
	reversedPath := make([][]byte, len(path))
	for i, seg := range path {
		reversedPath[len(path)-1-i] = seg
	}

	var rootHash [32]byte
	for i, proofBytes := range remaining {
		key := reversedPath[i]
		last := i == len(remaining)-1

		if !last {
			p, err := leaftree.Decode(proofBytes)
			if err != nil {
				return [32]byte{}, nil, errs.Wrap(errs.InvalidProof, "invalid proof element", err)
			}
			res, err := leaftree.Execute(p)
			if err != nil {
				return [32]byte{}, nil, errs.Wrap(errs.InvalidProof, "invalid proof element", err)
			}
			raw, ok := res.Entries[string(key)]
			if !ok {
				return [32]byte{}, nil, errs.New(errs.InvalidProof, "bad path: key not proved at intermediate level")
			}
			elem, err := element.Decode(raw)
			if err != nil {
				return [32]byte{}, nil, errs.Wrap(errs.InvalidProof, "invalid proof element", err)
			}
			if elem.Tag != element.TagTree {
				return [32]byte{}, nil, errs.New(errs.InvalidProof, "intermediate proofs should resolve to tree elements")
			}
			if elem.Tree != [32]byte(lastRootHash) {
				return [32]byte{}, nil, errs.New(errs.InvalidProof, "bad path: tree element does not match child subtree root")
			}
			lastRootHash = res.Root
			continue
		}

		mp, err := merkleproof.Decode(proofBytes)
		if err != nil {
			return [32]byte{}, nil, errs.Wrap(errs.InvalidProof, "invalid proof element", err)
		}
		pos, ok := idx.PositionOf(keycodec.Compress(nil, key))
		if !ok {
			return [32]byte{}, nil, errs.New(errs.InvalidProof, "root-level key not found in root-leaf index")
		}
		rootHash, err = toptree.RecomputeRoot(mp, pos, lastRootHash, idx.Len())
		if err != nil {
			return [32]byte{}, nil, errs.Wrap(errs.InvalidProof, "invalid proof element", err)
		}
	}

	return rootHash, firstLevelEntries, nil
}
