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

// Package keycodec implements the compressed-path encoding used both as
// a storage key prefix and as the lookup key into the leaf-tree handle
// registry.
//
// Raw concatenation of path segments is not injective: the segments
// ["ab", "c"] and ["a", "bc"] compress to the same bytes. This package
// resolves that hazard by length-prefixing every segment with a
// uvarint, so two distinct segment sequences never collide. A terminal
// key is encoded exactly like one more path segment: Compress(path, key)
// equals CompressPath(path + [key]).
package keycodec

import (
	"encoding/binary"
)

// Compress concatenates path segments, each preceded by its uvarint
// length, followed by an optional terminal key (also length-prefixed
// when present). The result is used both as a storage prefix identifying
// a subtree and as the registry key for that subtree's handle.
func Compress(path [][]byte, key []byte) []byte {
	size := 0
	for _, seg := range path {
		size += binary.MaxVarintLen64 + len(seg)
	}
	if key != nil {
		size += binary.MaxVarintLen64 + len(key)
	}
	out := make([]byte, 0, size)
	var lenBuf [binary.MaxVarintLen64]byte
	for _, seg := range path {
		n := binary.PutUvarint(lenBuf[:], uint64(len(seg)))
		out = append(out, lenBuf[:n]...)
		out = append(out, seg...)
	}
	if key != nil {
		n := binary.PutUvarint(lenBuf[:], uint64(len(key)))
		out = append(out, lenBuf[:n]...)
		out = append(out, key...)
	}
	return out
}

// CompressPath is Compress(path, nil); it identifies a subtree itself
// rather than a key within it.
func CompressPath(path [][]byte) []byte {
	return Compress(path, nil)
}

// Append returns a new path with key appended as its final segment,
// without mutating path's backing array.
func Append(path [][]byte, key []byte) [][]byte {
	out := make([][]byte, len(path)+1)
	copy(out, path)
	out[len(path)] = key
	return out
}

// SplitLast returns path's final segment and the path without it. ok is
// false when path is empty.
func SplitLast(path [][]byte) (key []byte, rest [][]byte, ok bool) {
	if len(path) == 0 {
		return nil, nil, false
	}
	rest = path[:len(path)-1]
	return path[len(path)-1], rest, true
}
