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

package toptree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadsdb/hads/merkleproof"
	"github.com/hadsdb/hads/toptree"
)

func TestRootHashOfEmptyTreeIsAllZero(t *testing.T) {
	tr := toptree.Build(nil)
	assert.Equal(t, [32]byte{}, tr.RootHash())
}

func TestRootHashOfNonEmptyTreeIsNotAllZero(t *testing.T) {
	leaves := []merkleproof.Hash{merkleproof.LeafHash([]byte("a"))}
	tr := toptree.Build(leaves)
	assert.NotEqual(t, [32]byte{}, tr.RootHash())
}

func TestProveAndRecomputeRoot(t *testing.T) {
	leaves := []merkleproof.Hash{
		merkleproof.LeafHash([]byte("a")),
		merkleproof.LeafHash([]byte("b")),
		merkleproof.LeafHash([]byte("c")),
	}
	tr := toptree.Build(leaves)

	proof := tr.Prove([]int{1})
	got, err := toptree.RecomputeRoot(proof, 1, leaves[1], tr.Len())
	require.NoError(t, err)
	assert.Equal(t, tr.RootHash(), got)
}

func TestLen(t *testing.T) {
	tr := toptree.Build([]merkleproof.Hash{{}, {}, {}})
	assert.Equal(t, 3, tr.Len())
}
