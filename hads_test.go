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

package hads_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadsdb/hads"
	"github.com/hadsdb/hads/element"
	"github.com/hadsdb/hads/errs"
	"github.com/hadsdb/hads/leaftree"
)

func openTestStore(t *testing.T) *hads.Store {
	t.Helper()
	s, err := hads.Open(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestEmptyDatabaseHasZeroRoot(t *testing.T) {
	s := openTestStore(t)
	assert.Equal(t, [32]byte{}, s.RootHash())
}

func TestSingleTopLevelSubtreeAndItem(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Insert(nil, []byte("people"), element.EmptyTree()))
	require.NoError(t, s.Insert([][]byte{[]byte("people")}, []byte("alice"), element.NewItem([]byte("engineer"))))

	got, err := s.Get([][]byte{[]byte("people")}, []byte("alice"))
	require.NoError(t, err)
	assert.Equal(t, []byte("engineer"), got.Item)
	assert.NotEqual(t, [32]byte{}, s.RootHash())
}

func TestNestedSubtrees(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Insert(nil, []byte("org"), element.EmptyTree()))
	require.NoError(t, s.Insert([][]byte{[]byte("org")}, []byte("people"), element.EmptyTree()))
	require.NoError(t, s.Insert(
		[][]byte{[]byte("org"), []byte("people")},
		[]byte("alice"),
		element.NewItem([]byte("engineer")),
	))

	got, err := s.Get([][]byte{[]byte("org"), []byte("people")}, []byte("alice"))
	require.NoError(t, err)
	assert.Equal(t, []byte("engineer"), got.Item)

	// Updating a nested item must change the database root.
	before := s.RootHash()
	require.NoError(t, s.Insert(
		[][]byte{[]byte("org"), []byte("people")},
		[]byte("alice"),
		element.NewItem([]byte("staff engineer")),
	))
	assert.NotEqual(t, before, s.RootHash())
}

func TestGetFollowsReference(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Insert(nil, []byte("people"), element.EmptyTree()))
	path := [][]byte{[]byte("people")}
	require.NoError(t, s.Insert(path, []byte("alice"), element.NewItem([]byte("engineer"))))
	require.NoError(t, s.Insert(path, []byte("alias"), element.NewReference([]byte("alice"))))

	got, err := s.Get(path, []byte("alias"))
	require.NoError(t, err)
	assert.Equal(t, []byte("engineer"), got.Item)
}

func TestGetDetectsReferenceCycle(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Insert(nil, []byte("people"), element.EmptyTree()))
	path := [][]byte{[]byte("people")}
	require.NoError(t, s.Insert(path, []byte("a"), element.NewReference([]byte("b"))))
	require.NoError(t, s.Insert(path, []byte("b"), element.NewReference([]byte("a"))))

	_, err := s.Get(path, []byte("a"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.CyclicReference))
}

func TestGetEnforcesReferenceHopLimit(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Insert(nil, []byte("people"), element.EmptyTree()))
	path := [][]byte{[]byte("people")}

	// Build a strictly increasing chain longer than MaxReferenceHops so no
	// cycle is hit before the hop limit is.
	const chainLen = hads.MaxReferenceHops + 2
	for i := 0; i < chainLen; i++ {
		key := []byte{byte(i)}
		if i == chainLen-1 {
			require.NoError(t, s.Insert(path, key, element.NewItem([]byte("end"))))
			continue
		}
		require.NoError(t, s.Insert(path, key, element.NewReference([]byte{byte(i + 1)})))
	}

	_, err := s.Get(path, []byte{0})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ReferenceLimit))
}

func TestInsertIfNotExists(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Insert(nil, []byte("people"), element.EmptyTree()))
	path := [][]byte{[]byte("people")}

	inserted, err := s.InsertIfNotExists(path, []byte("alice"), element.NewItem([]byte("first")))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.InsertIfNotExists(path, []byte("alice"), element.NewItem([]byte("second")))
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := s.Get(path, []byte("alice"))
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got.Item)
}

func TestNestedPathProofVerifiesAgainstRootHash(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Insert(nil, []byte("org"), element.EmptyTree()))
	require.NoError(t, s.Insert([][]byte{[]byte("org")}, []byte("people"), element.EmptyTree()))
	require.NoError(t, s.Insert(
		[][]byte{[]byte("org"), []byte("people")},
		[]byte("alice"),
		element.NewItem([]byte("engineer")),
	))

	path := [][]byte{[]byte("org"), []byte("people")}
	q := leaftree.NewQuery()
	q.InsertKey([]byte("alice"))

	proof, err := s.ProveOne(path, q)
	require.NoError(t, err)

	pathProofs, err := hads.OrderedProofs(proof)
	require.NoError(t, err)
	require.Len(t, pathProofs, 1)
	ordered := append(pathProofs[0].Proofs, s.RootIndexBytes())

	root, entries, err := hads.ExecuteProof(pathProofs[0].Path, ordered)
	require.NoError(t, err)
	assert.Equal(t, s.RootHash(), root)

	raw, ok := entries["alice"]
	require.True(t, ok)
	resolved, err := element.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, []byte("engineer"), resolved.Item)
}

func TestMultiPathProofCoversSeveralSubtreesAtOnce(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Insert(nil, []byte("a"), element.EmptyTree()))
	require.NoError(t, s.Insert(nil, []byte("b"), element.EmptyTree()))
	require.NoError(t, s.Insert([][]byte{[]byte("a")}, []byte("x"), element.NewItem([]byte("1"))))
	require.NoError(t, s.Insert([][]byte{[]byte("b")}, []byte("y"), element.NewItem([]byte("2"))))

	qa := leaftree.NewQuery()
	qa.InsertKey([]byte("x"))
	qb := leaftree.NewQuery()
	qb.InsertKey([]byte("y"))

	proof, err := s.Proof([]hads.ProofQuery{
		{Path: [][]byte{[]byte("a")}, Query: qa},
		{Path: [][]byte{[]byte("b")}, Query: qb},
	})
	require.NoError(t, err)
	assert.Len(t, proof.Proofs, 2)

	pathProofs, err := hads.OrderedProofs(proof)
	require.NoError(t, err)
	require.Len(t, pathProofs, 2)

	for _, pp := range pathProofs {
		ordered := append(pp.Proofs, s.RootIndexBytes())
		root, _, err := hads.ExecuteProof(pp.Path, ordered)
		require.NoError(t, err)
		assert.Equal(t, s.RootHash(), root)
	}
}

func TestProofCarriesItsOwnQueryPaths(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Insert(nil, []byte("a"), element.EmptyTree()))
	require.NoError(t, s.Insert(nil, []byte("b"), element.EmptyTree()))
	require.NoError(t, s.Insert([][]byte{[]byte("a")}, []byte("x"), element.NewItem([]byte("1"))))
	require.NoError(t, s.Insert([][]byte{[]byte("b")}, []byte("y"), element.NewItem([]byte("2"))))

	qa := leaftree.NewQuery()
	qa.InsertKey([]byte("x"))
	qb := leaftree.NewQuery()
	qb.InsertKey([]byte("y"))

	proof, err := s.Proof([]hads.ProofQuery{
		{Path: [][]byte{[]byte("a")}, Query: qa},
		{Path: [][]byte{[]byte("b")}, Query: qb},
	})
	require.NoError(t, err)

	// A verifier holding only proof (as it would after deserializing the
	// wire form) recovers both query paths without being told them.
	require.Equal(t, [][][]byte{{[]byte("a")}, {[]byte("b")}}, proof.QueryPaths)

	pathProofs, err := hads.OrderedProofs(proof)
	require.NoError(t, err)
	require.Len(t, pathProofs, len(proof.QueryPaths))
	for i, pp := range pathProofs {
		assert.Equal(t, proof.QueryPaths[i], pp.Path)
	}
}

func TestInsertRejectsNonTreeElementAtRoot(t *testing.T) {
	s := openTestStore(t)
	err := s.Insert(nil, []byte("k"), element.NewItem([]byte("v")))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.InvalidPath))
}

func TestReopenRebuildsTopology(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	s, err := hads.Open(dir)
	require.NoError(t, err)

	require.NoError(t, s.Insert(nil, []byte("people"), element.EmptyTree()))
	require.NoError(t, s.Insert([][]byte{[]byte("people")}, []byte("alice"), element.NewItem([]byte("engineer"))))
	root := s.RootHash()
	require.NoError(t, s.Close())

	reopened, err := hads.Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, root, reopened.RootHash())
	got, err := reopened.Get([][]byte{[]byte("people")}, []byte("alice"))
	require.NoError(t, err)
	assert.Equal(t, []byte("engineer"), got.Item)
}
