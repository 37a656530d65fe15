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
)

// GetRaw fetches the element stored under key in the leaf tree at path,
// without following a Reference.
func (s *Store) GetRaw(path [][]byte, key []byte) (element.Element, error) {
	tree, ok := s.registry.Lookup(keycodec.CompressPath(path))
	if !ok {
		getsTotal.WithLabelValues("error").Inc()
		return element.Element{}, errs.New(errs.InvalidPath, "no subtree found under that path")
	}
	raw, ok := tree.Get(key)
	if !ok {
		getsTotal.WithLabelValues("error").Inc()
		return element.Element{}, errs.New(errs.InvalidPath, "key not found in leaf tree")
	}
	el, err := element.Decode(raw)
	if err != nil {
		getsTotal.WithLabelValues("error").Inc()
		return element.Element{}, err
	}
	return el, nil
}

// Get fetches the element stored under key in the leaf tree at path,
// following a chain of Reference elements through followReference until
// it reaches a non-Reference element.
func (s *Store) Get(path [][]byte, key []byte) (element.Element, error) {
	el, err := s.GetRaw(path, key)
	if err != nil {
		return element.Element{}, err
	}
	if el.Tag != element.TagReference {
		getsTotal.WithLabelValues("ok").Inc()
		return el, nil
	}
	resolved, err := s.followReference(path, el.Reference)
	if err != nil {
		getsTotal.WithLabelValues("error").Inc()
		return element.Element{}, err
	}
	getsTotal.WithLabelValues("ok").Inc()
	return resolved, nil
}

// followReference chases a chain of Reference elements starting at
// startKey within the leaf tree at path — references never cross
// leaf-tree boundaries — stopping at the first non-Reference element, a
// revisited key (errs.CyclicReference), or MaxReferenceHops hops
// (errs.ReferenceLimit).
func (s *Store) followReference(path [][]byte, startKey []byte) (element.Element, error) {
	tree, ok := s.registry.Lookup(keycodec.CompressPath(path))
	if !ok {
		return element.Element{}, errs.New(errs.InvalidPath, "no subtree found under that path")
	}

	visited := make(map[string]bool)
	key := startKey
	for hops := 0; hops < MaxReferenceHops; hops++ {
		ks := string(key)
		if visited[ks] {
			return element.Element{}, errs.New(errs.CyclicReference, "reference cycle detected")
		}
		visited[ks] = true

		raw, ok := tree.Get(key)
		if !ok {
			return element.Element{}, errs.New(errs.InvalidPath, "referenced key not found in leaf tree")
		}
		el, err := element.Decode(raw)
		if err != nil {
			return element.Element{}, err
		}
		if el.Tag != element.TagReference {
			return el, nil
		}
		key = el.Reference
	}
	return element.Element{}, errs.New(errs.ReferenceLimit, "reference chain exceeded the hop limit")
}
