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

// Package store wraps a cockroachdb/pebble instance as the backing
// key/value page store. Pebble has no native column families, so the
// two logical families this database needs — a primary family keyed by
// compress(path, key) and a meta family holding the reserved topology
// keys — are emulated with a one-byte family tag ahead of every key.
package store

import (
	"encoding/binary"

	"github.com/cockroachdb/pebble"
	"github.com/golang/glog"
	"github.com/hadsdb/hads/errs"
)

const (
	dataFamily byte = 0x01
	metaFamily byte = 0x02
)

// Store owns one Pebble instance shared by every leaf tree (disjoint by
// key prefix) and the meta family.
type Store struct {
	db   *pebble.DB
	path string
}

// Open opens (creating if absent) a Pebble database at path.
func Open(path string, opts *pebble.Options) (*Store, error) {
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, errs.Wrap(errs.Storage, "open backing store", err)
	}
	glog.Infof("store: opened %s", path)
	return &Store{db: db, path: path}, nil
}

// Close releases the underlying Pebble handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return errs.Wrap(errs.Storage, "close backing store", err)
	}
	return nil
}

// Checkpoint asks Pebble to produce a consistent on-disk checkpoint at
// destPath.
func (s *Store) Checkpoint(destPath string) error {
	if err := s.db.Checkpoint(destPath); err != nil {
		return errs.Wrap(errs.Storage, "checkpoint backing store", err)
	}
	return nil
}

// Meta returns a View scoped to the meta family, holding only the
// reserved topology keys.
func (s *Store) Meta() *View {
	return &View{db: s.db, prefix: []byte{metaFamily}}
}

// Prefixed returns a View scoped to the data family under compressedPath,
// the keyspace a single leaf tree exclusively owns. The compressed path
// is preceded by its uvarint length, so a nested subtree's keyspace never
// falls inside its parent's even though its compressed path extends the
// parent's.
func (s *Store) Prefixed(compressedPath []byte) *View {
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(compressedPath)))
	prefix := make([]byte, 0, 1+n+len(compressedPath))
	prefix = append(prefix, dataFamily)
	prefix = append(prefix, lenBuf[:n]...)
	prefix = append(prefix, compressedPath...)
	return &View{db: s.db, prefix: prefix}
}

// View is a key range within Store namespaced by a fixed prefix; it is
// the Go analogue of the original's PrefixedRocksDbStorage.
type View struct {
	db     *pebble.DB
	prefix []byte
}

func (v *View) fullKey(key []byte) []byte {
	out := make([]byte, 0, len(v.prefix)+len(key))
	out = append(out, v.prefix...)
	out = append(out, key...)
	return out
}

// Get fetches the value stored under key, or (nil, false, nil) if absent.
func (v *View) Get(key []byte) ([]byte, bool, error) {
	val, closer, err := v.db.Get(v.fullKey(key))
	if err == pebble.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.Wrap(errs.Storage, "get", err)
	}
	out := append([]byte(nil), val...)
	_ = closer.Close()
	return out, true, nil
}

// Put writes a single key/value pair outside of a batch.
func (v *View) Put(key, value []byte) error {
	if err := v.db.Set(v.fullKey(key), value, pebble.Sync); err != nil {
		return errs.Wrap(errs.Storage, "put", err)
	}
	return nil
}

// Delete removes key, if present.
func (v *View) Delete(key []byte) error {
	if err := v.db.Delete(v.fullKey(key), pebble.Sync); err != nil {
		return errs.Wrap(errs.Storage, "delete", err)
	}
	return nil
}

// Entry is one key/value pair scoped to a View, with the prefix already
// stripped from Key.
type Entry struct {
	Key   []byte
	Value []byte
}

// Iterate walks every key under the view's prefix in ascending order,
// invoking fn with the prefix stripped from each key.
func (v *View) Iterate(fn func(Entry) error) error {
	iter, err := v.db.NewIter(&pebble.IterOptions{
		LowerBound: v.prefix,
		UpperBound: prefixUpperBound(v.prefix),
	})
	if err != nil {
		return errs.Wrap(errs.Storage, "iterate", err)
	}
	defer iter.Close()
	for iter.First(); iter.Valid(); iter.Next() {
		k := iter.Key()[len(v.prefix):]
		entry := Entry{
			Key:   append([]byte(nil), k...),
			Value: append([]byte(nil), iter.Value()...),
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return errs.Wrap(errs.Storage, "iterate", err)
	}
	return nil
}

// prefixUpperBound returns the smallest byte string greater than every
// string with the given prefix, or nil if the prefix is all 0xff.
func prefixUpperBound(prefix []byte) []byte {
	upper := append([]byte(nil), prefix...)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] != 0xff {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil
}

// Batch accumulates writes across one or more Views for atomic commit:
// a leaf-tree write and a meta-topology update can combine into a
// single backing-store write batch.
type Batch struct {
	db    *pebble.DB
	batch *pebble.Batch
}

// NewBatch starts a new atomic write batch against the store.
func (s *Store) NewBatch() *Batch {
	return &Batch{db: s.db, batch: s.db.NewBatch()}
}

// Put stages a write within the view's namespace.
func (b *Batch) Put(v *View, key, value []byte) error {
	if err := b.batch.Set(v.fullKey(key), value, nil); err != nil {
		return errs.Wrap(errs.Storage, "batch put", err)
	}
	return nil
}

// Delete stages a delete within the view's namespace.
func (b *Batch) Delete(v *View, key []byte) error {
	if err := b.batch.Delete(v.fullKey(key), nil); err != nil {
		return errs.Wrap(errs.Storage, "batch delete", err)
	}
	return nil
}

// Commit applies every staged write atomically and synchronously.
func (b *Batch) Commit() error {
	if err := b.batch.Commit(pebble.Sync); err != nil {
		return errs.Wrap(errs.Storage, "batch commit", err)
	}
	return nil
}
