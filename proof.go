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
	"time"

	"github.com/golang/glog"

	"github.com/hadsdb/hads/errs"
	"github.com/hadsdb/hads/keycodec"
	"github.com/hadsdb/hads/leaftree"
	"github.com/hadsdb/hads/merkleproof"
)

// ProofQuery names one leaf tree (by path) and the keys within it a
// caller wants proved, or fetched, in the same batched proof.
type ProofQuery struct {
	Path  [][]byte
	Query leaftree.Query
}

// Proof is a batched multi-path proof: the ordered list of paths it was
// built to prove, one leaf-tree proof per subtree the query plan
// touched (including every ancestor whose Tree element had to be
// disclosed), plus the single top-tree proof covering every root-level
// subtree a query path passed through. QueryPaths lets a verifier that
// only has the serialized Proof recover which paths it covers, rather
// than needing to already know them out-of-band.
type Proof struct {
	QueryPaths [][][]byte        // one entry per ProofQuery, in caller order
	Proofs     map[string][]byte // compressed path -> leaftree.Encode(proof)
	RootProof  []byte            // merkleproof.Encode(proof) over the top tree
}

// Proof plans and builds a combined proof for every query. For each
// query, every leaf tree on the path from its subtree up to (but not
// including) the root is asked to prove the single key that names its
// child, and the top tree is asked to prove every root-level subtree
// the walk passed through — so a verifier can recompute the database
// root hash from the leaves up.
func (s *Store) Proof(queries []ProofQuery) (Proof, error) {
	start := time.Now()
	defer func() { proofBuildDuration.Observe(time.Since(start).Seconds()) }()

	plan := make(map[string]leaftree.Query)
	queryPaths := make([][][]byte, 0, len(queries))
	for _, q := range queries {
		plan[string(keycodec.CompressPath(q.Path))] = q.Query
		queryPaths = append(queryPaths, q.Path)
	}

	var topKeys [][]byte
	for _, q := range queries {
		path := q.Path
		for {
			key, parentPath, ok := keycodec.SplitLast(path)
			if !ok {
				break
			}
			if len(parentPath) == 0 {
				// A root-level subtree's root-leaf index key is its
				// compressed (path=nil, key) form, the same bytes used
				// to register it in the registry and root-leaf index
				// (see insertSubtree) — not the bare key.
				topKeys = append(topKeys, keycodec.Compress(nil, key))
			} else {
				pcp := string(keycodec.CompressPath(parentPath))
				pq, ok := plan[pcp]
				if !ok {
					pq = leaftree.NewQuery()
				}
				pq.InsertKey(key)
				plan[pcp] = pq
			}
			path = parentPath
		}
	}

	proofs := make(map[string][]byte, len(plan))
	for cp, q := range plan {
		tree, ok := s.registry.Lookup([]byte(cp))
		if !ok {
			proofsTotal.WithLabelValues("error").Inc()
			return Proof{}, errs.New(errs.InvalidPath, "no subtree found under that path")
		}
		p, err := tree.Prove(q)
		if err != nil {
			proofsTotal.WithLabelValues("error").Inc()
			return Proof{}, err
		}
		proofs[cp] = leaftree.Encode(p)
	}

	indices := make([]int, 0, len(topKeys))
	for _, k := range topKeys {
		pos, ok := s.rootIdx.PositionOf(k)
		if !ok {
			proofsTotal.WithLabelValues("error").Inc()
			return Proof{}, errs.New(errs.InvalidPath, "root-level key not found")
		}
		indices = append(indices, pos)
	}
	rootProof := s.top.Prove(indices)

	proofsTotal.WithLabelValues("ok").Inc()
	glog.V(2).Infof("hads: built proof over %d queries touching %d subtrees", len(queries), len(proofs))
	return Proof{QueryPaths: queryPaths, Proofs: proofs, RootProof: merkleproof.Encode(rootProof)}, nil
}

// ProveOne is a convenience wrapper over Proof for the common case of
// proving a single leaf tree's keys.
func (s *Store) ProveOne(path [][]byte, q leaftree.Query) (Proof, error) {
	return s.Proof([]ProofQuery{{Path: path, Query: q}})
}

// PathProof pairs one of a Proof's query paths with its flattened,
// ordered proof list, ready for ExecuteProof.
type PathProof struct {
	Path   [][]byte
	Proofs [][]byte
}

// OrderedProofs flattens p into one PathProof per path named in
// p.QueryPaths, so a verifier recovers which paths were proved, and
// their proof lists, entirely from p itself rather than needing to
// already know the query paths out-of-band. Each PathProof's Proofs
// holds: the queried leaf tree's proof, then each ancestor's proof up
// to the root, then the top-tree proof. Callers verifying against an
// untrusted root hash must append the store's RootIndexBytes() as each
// list's final element before calling ExecuteProof.
func OrderedProofs(p Proof) ([]PathProof, error) {
	out := make([]PathProof, 0, len(p.QueryPaths))
	for _, path := range p.QueryPaths {
		proofs, err := orderedProofsForPath(p, path)
		if err != nil {
			return nil, err
		}
		out = append(out, PathProof{Path: path, Proofs: proofs})
	}
	return out, nil
}

func orderedProofsForPath(p Proof, path [][]byte) ([][]byte, error) {
	cp := string(keycodec.CompressPath(path))
	leafProof, ok := p.Proofs[cp]
	if !ok {
		return nil, errs.New(errs.InvalidProof, "proof does not cover that path")
	}
	out := [][]byte{leafProof}

	cur := path
	for {
		_, parentPath, ok := keycodec.SplitLast(cur)
		if !ok {
			break
		}
		if len(parentPath) == 0 {
			out = append(out, p.RootProof)
			break
		}
		pcp := string(keycodec.CompressPath(parentPath))
		pb, ok := p.Proofs[pcp]
		if !ok {
			return nil, errs.New(errs.InvalidProof, "proof does not cover an ancestor subtree")
		}
		out = append(out, pb)
		cur = parentPath
	}
	return out, nil
}
