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

// Package element implements the tagged value stored in a leaf tree:
// Item, Reference, or Tree. The binary encoding is stable,
// length-delimited, and self-describing with a one-byte discriminant
// tag, so it doubles as the wire format used by the proof interchange.
package element

import (
	"encoding/binary"

	"github.com/hadsdb/hads/errs"
)

// Tag discriminates the Element variants on the wire.
type Tag byte

const (
	// TagItem marks an opaque value.
	TagItem Tag = 0
	// TagReference marks an indirection to another key in the same leaf tree.
	TagReference Tag = 1
	// TagTree marks a nested subtree, carrying its current Merkle root.
	TagTree Tag = 2
)

// HashSize is the width of a Tree element's root-hash payload.
const HashSize = 32

// Element is the tagged union stored under every key of a leaf tree.
type Element struct {
	Tag Tag
	// Item holds the opaque value when Tag == TagItem.
	Item []byte
	// Reference holds the target key (within the same leaf tree) when
	// Tag == TagReference.
	Reference []byte
	// Tree holds the referenced subtree's current root hash when
	// Tag == TagTree.
	Tree [HashSize]byte
}

// NewItem builds an Item element.
func NewItem(value []byte) Element {
	return Element{Tag: TagItem, Item: value}
}

// NewReference builds a Reference element pointing at key within the
// same leaf tree; references never cross leaf-tree boundaries.
func NewReference(key []byte) Element {
	return Element{Tag: TagReference, Reference: key}
}

// NewTree builds a Tree element carrying the current root hash of the
// subtree it marks. EmptyTree is the zero-root placeholder used before
// the subtree's first propagation.
func NewTree(root [HashSize]byte) Element {
	return Element{Tag: TagTree, Tree: root}
}

// EmptyTree returns a Tree element with an all-zero root, suitable as a
// placeholder before the first propagate() fills in the real hash.
func EmptyTree() Element {
	return Element{Tag: TagTree}
}

// Encode serializes e into the stable binary format: one tag byte,
// followed by a tag-specific, length-delimited body.
func Encode(e Element) []byte {
	switch e.Tag {
	case TagItem:
		return encodeTagged(TagItem, e.Item)
	case TagReference:
		return encodeTagged(TagReference, e.Reference)
	case TagTree:
		out := make([]byte, 1+HashSize)
		out[0] = byte(TagTree)
		copy(out[1:], e.Tree[:])
		return out
	default:
		// Unreachable for values constructed through the New* helpers.
		return nil
	}
}

func encodeTagged(tag Tag, body []byte) []byte {
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(body)))
	out := make([]byte, 0, 1+n+len(body))
	out = append(out, byte(tag))
	out = append(out, lenBuf[:n]...)
	out = append(out, body...)
	return out
}

// Decode parses Encode's output. It fails with errs.CorruptedData on an
// unknown tag or a truncated body.
func Decode(data []byte) (Element, error) {
	if len(data) < 1 {
		return Element{}, errs.New(errs.CorruptedData, "empty element encoding")
	}
	tag := Tag(data[0])
	rest := data[1:]
	switch tag {
	case TagItem:
		body, _, err := decodeBody(rest)
		if err != nil {
			return Element{}, err
		}
		return NewItem(body), nil
	case TagReference:
		body, _, err := decodeBody(rest)
		if err != nil {
			return Element{}, err
		}
		return NewReference(body), nil
	case TagTree:
		if len(rest) != HashSize {
			return Element{}, errs.New(errs.CorruptedData, "truncated tree element")
		}
		var h [HashSize]byte
		copy(h[:], rest)
		return NewTree(h), nil
	default:
		return Element{}, errs.New(errs.CorruptedData, "unknown element tag")
	}
}

func decodeBody(data []byte) ([]byte, int, error) {
	length, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, 0, errs.New(errs.CorruptedData, "truncated element length prefix")
	}
	end := n + int(length)
	if end > len(data) {
		return nil, 0, errs.New(errs.CorruptedData, "truncated element body")
	}
	return data[n:end], end, nil
}

// Equal reports whether two elements are identical, comparing byte
// slices by content rather than identity.
func Equal(a, b Element) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TagItem:
		return bytesEqual(a.Item, b.Item)
	case TagReference:
		return bytesEqual(a.Reference, b.Reference)
	case TagTree:
		return a.Tree == b.Tree
	}
	return false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
