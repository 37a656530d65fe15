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
	"github.com/golang/glog"

	"github.com/hadsdb/hads/element"
	"github.com/hadsdb/hads/errs"
	"github.com/hadsdb/hads/keycodec"
	"github.com/hadsdb/hads/leaftree"
	"github.com/hadsdb/hads/meta"
	"github.com/hadsdb/hads/store"
)

// Insert writes el under key in the leaf tree at path, creating a new
// top-level subtree when path is empty and el is a Tree element, or a
// new nested subtree when el is a Tree element under a non-empty path.
// The leaf-tree write, every ancestor Tree-element update it triggers,
// and (when the topology changed) the meta persistence all commit in a
// single atomic batch.
func (s *Store) Insert(path [][]byte, key []byte, el element.Element) error {
	b := s.backing.NewBatch()

	switch el.Tag {
	case element.TagTree:
		if err := s.insertSubtree(path, key, b); err != nil {
			insertsTotal.WithLabelValues("error").Inc()
			return err
		}
	default:
		if len(path) == 0 {
			insertsTotal.WithLabelValues("error").Inc()
			return errs.New(errs.InvalidPath, "only subtrees may live at the root")
		}
		tree, ok := s.registry.Lookup(keycodec.CompressPath(path))
		if !ok {
			insertsTotal.WithLabelValues("error").Inc()
			return errs.New(errs.InvalidPath, "no subtree found under that path")
		}
		if err := tree.Apply([]leaftree.Op{{Key: key, Value: element.Encode(el)}}, b); err != nil {
			insertsTotal.WithLabelValues("error").Inc()
			return err
		}
		if err := s.propagate(path, b); err != nil {
			insertsTotal.WithLabelValues("error").Inc()
			return err
		}
	}

	if err := b.Commit(); err != nil {
		insertsTotal.WithLabelValues("error").Inc()
		return err
	}
	insertsTotal.WithLabelValues("ok").Inc()
	glog.V(2).Infof("hads: inserted key under path %v", path)
	return nil
}

// insertSubtree handles the element.TagTree case of Insert: it opens the
// new child leaf tree, stages the Tree element into its parent (or
// leaves the top tree to pick it up directly when path is empty),
// propagates the hash change upward, and persists the updated topology.
func (s *Store) insertSubtree(path [][]byte, key []byte, b *store.Batch) error {
	compressedSubtree := keycodec.Compress(path, key)
	childTree, err := s.registry.Open(compressedSubtree)
	if err != nil {
		return err
	}

	if len(path) == 0 {
		s.rootIdx.AssignIfAbsent(compressedSubtree)
		if err := s.propagate([][]byte{key}, b); err != nil {
			return err
		}
		return s.persistTopology(b)
	}

	parentTree, ok := s.registry.Lookup(keycodec.CompressPath(path))
	if !ok {
		return errs.New(errs.InvalidPath, "no subtree found under that path")
	}
	treeElem := element.NewTree([32]byte(childTree.RootHash()))
	if err := parentTree.Apply([]leaftree.Op{{Key: key, Value: element.Encode(treeElem)}}, b); err != nil {
		return err
	}
	if err := s.propagate(path, b); err != nil {
		return err
	}
	return s.persistTopology(b)
}

// persistTopology writes the current set of registered leaf-tree
// prefixes and the root-leaf index, joining batch b so it commits
// atomically with whatever triggered the topology change.
func (s *Store) persistTopology(b *store.Batch) error {
	return meta.Save(s.backing, b, s.registry.Prefixes(), s.rootIdx)
}

// InsertIfNotExists inserts el under key in the leaf tree at path only
// if Get does not already succeed for that key, reporting whether the
// insert happened. A present key whose reference chain fails to resolve
// counts as absent and is overwritten.
func (s *Store) InsertIfNotExists(path [][]byte, key []byte, el element.Element) (bool, error) {
	if _, err := s.Get(path, key); err == nil {
		return false, nil
	}
	if err := s.Insert(path, key, el); err != nil {
		return false, err
	}
	return true, nil
}

// propagate pushes a hash change upward: path names the leaf tree whose
// root just changed. Each iteration pushes that tree's current root hash
// into its own parent tree as a Tree element, then continues one level
// up, until the parent level is the (virtual) root, at which point the
// top tree is rebuilt directly instead of writing into a nonexistent
// parent leaf tree.
func (s *Store) propagate(path [][]byte, b *store.Batch) error {
	for {
		key, parentPath, ok := keycodec.SplitLast(path)
		if !ok || len(parentPath) == 0 {
			s.rebuildTopTree()
			return nil
		}

		childTree, ok := s.registry.Lookup(keycodec.CompressPath(path))
		if !ok {
			return errs.New(errs.InvalidPath, "no subtree found under that path")
		}
		parentTree, ok := s.registry.Lookup(keycodec.CompressPath(parentPath))
		if !ok {
			return errs.New(errs.InvalidPath, "no subtree found under that path")
		}

		treeElem := element.NewTree([32]byte(childTree.RootHash()))
		if err := parentTree.Apply([]leaftree.Op{{Key: key, Value: element.Encode(treeElem)}}, b); err != nil {
			return err
		}
		path = parentPath
	}
}
