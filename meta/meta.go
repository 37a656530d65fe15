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

// Package meta implements persistence for the store's topology: the
// set of open leaf-tree compressed paths and the root-leaf index,
// written under two fixed keys in the meta family so the in-memory
// topology (registry + top tree) can be rebuilt on open.
package meta

import (
	"encoding/binary"

	"github.com/hadsdb/hads/errs"
	"github.com/hadsdb/hads/rootindex"
	"github.com/hadsdb/hads/store"
)

// Reserved meta keys.
var (
	subtreesKey  = []byte("subtreesSerialized")
	rootLeafsKey = []byte("rootLeafsSerialized")
)

func encodePrefixes(prefixes [][]byte) []byte {
	var buf []byte
	var varintBuf [binary.MaxVarintLen64]byte
	putUvarint := func(v uint64) {
		n := binary.PutUvarint(varintBuf[:], v)
		buf = append(buf, varintBuf[:n]...)
	}
	putUvarint(uint64(len(prefixes)))
	for _, p := range prefixes {
		putUvarint(uint64(len(p)))
		buf = append(buf, p...)
	}
	return buf
}

func decodePrefixes(data []byte) ([][]byte, error) {
	off := 0
	readUvarint := func() (uint64, error) {
		v, n := binary.Uvarint(data[off:])
		if n <= 0 {
			return 0, errs.New(errs.CorruptedData, "truncated subtree prefixes varint")
		}
		off += n
		return v, nil
	}
	count, err := readUvarint()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, count)
	for i := uint64(0); i < count; i++ {
		n, err := readUvarint()
		if err != nil {
			return nil, err
		}
		if off+int(n) > len(data) {
			return nil, errs.New(errs.CorruptedData, "truncated subtree prefix")
		}
		out[i] = append([]byte(nil), data[off:off+int(n)]...)
		off += int(n)
	}
	if off != len(data) {
		return nil, errs.New(errs.CorruptedData, "trailing bytes in subtree prefixes encoding")
	}
	return out, nil
}

// Save atomically persists prefixes and idx to the meta family. b, when
// non-nil, joins an in-flight batch so the topology update commits
// together with whatever leaf-tree writes triggered it.
func Save(s *store.Store, b *store.Batch, prefixes [][]byte, idx *rootindex.Index) error {
	metaView := s.Meta()
	subtreesData := encodePrefixes(prefixes)
	rootLeafsData := rootindex.Encode(idx)

	batch := b
	if batch == nil {
		batch = s.NewBatch()
	}
	if err := batch.Put(metaView, subtreesKey, subtreesData); err != nil {
		return err
	}
	if err := batch.Put(metaView, rootLeafsKey, rootLeafsData); err != nil {
		return err
	}
	if b == nil {
		return batch.Commit()
	}
	return nil
}

// Load reads back the persisted set of leaf-tree compressed paths and
// the root-leaf index. Both are empty (not an error) when the store has
// never been written to.
func Load(s *store.Store) ([][]byte, *rootindex.Index, error) {
	metaView := s.Meta()

	prefixesData, ok, err := metaView.Get(subtreesKey)
	if err != nil {
		return nil, nil, err
	}
	var prefixes [][]byte
	if ok {
		prefixes, err = decodePrefixes(prefixesData)
		if err != nil {
			return nil, nil, errs.Wrap(errs.CorruptedData, "unable to deserialize prefixes", err)
		}
	}

	rootLeafsData, ok, err := metaView.Get(rootLeafsKey)
	if err != nil {
		return nil, nil, err
	}
	idx := rootindex.New()
	if ok {
		idx, err = rootindex.Decode(rootLeafsData)
		if err != nil {
			return nil, nil, errs.Wrap(errs.CorruptedData, "unable to deserialize root leafs", err)
		}
	}

	return prefixes, idx, nil
}
