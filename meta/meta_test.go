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

package meta_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadsdb/hads/meta"
	"github.com/hadsdb/hads/rootindex"
	"github.com/hadsdb/hads/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadOnFreshStoreIsEmpty(t *testing.T) {
	s := openTestStore(t)
	prefixes, idx, err := meta.Load(s)
	require.NoError(t, err)
	assert.Empty(t, prefixes)
	assert.Equal(t, 0, idx.Len())
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	s := openTestStore(t)

	idx := rootindex.New()
	idx.AssignIfAbsent([]byte("t1"))
	idx.AssignIfAbsent([]byte("t2"))
	prefixes := [][]byte{[]byte("t1"), []byte("t2")}

	require.NoError(t, meta.Save(s, nil, prefixes, idx))

	gotPrefixes, gotIdx, err := meta.Load(s)
	require.NoError(t, err)
	assert.ElementsMatch(t, prefixes, gotPrefixes)
	assert.Equal(t, idx.Entries(), gotIdx.Entries())
}

func TestSaveJoinsExternalBatch(t *testing.T) {
	s := openTestStore(t)
	idx := rootindex.New()
	idx.AssignIfAbsent([]byte("t1"))

	b := s.NewBatch()
	require.NoError(t, meta.Save(s, b, [][]byte{[]byte("t1")}, idx))
	require.NoError(t, b.Commit())

	prefixes, gotIdx, err := meta.Load(s)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("t1")}, prefixes)
	assert.Equal(t, 1, gotIdx.Len())
}
