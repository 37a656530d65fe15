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

package element_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadsdb/hads/element"
	"github.com/hadsdb/hads/errs"
)

func TestItemRoundTrip(t *testing.T) {
	want := element.NewItem([]byte("hello"))
	got, err := element.Decode(element.Encode(want))
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReferenceRoundTrip(t *testing.T) {
	want := element.NewReference([]byte("target-key"))
	got, err := element.Decode(element.Encode(want))
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTreeRoundTrip(t *testing.T) {
	var h [32]byte
	for i := range h {
		h[i] = byte(i)
	}
	want := element.NewTree(h)
	got, err := element.Decode(element.Encode(want))
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyTreeHasZeroRoot(t *testing.T) {
	assert.Equal(t, element.NewTree([32]byte{}), element.EmptyTree())
}

func TestDecodeRejectsUnknownTag(t *testing.T) {
	_, err := element.Decode([]byte{0x7f})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.CorruptedData))
}

func TestDecodeRejectsTruncatedBody(t *testing.T) {
	encoded := element.Encode(element.NewItem([]byte("hello")))
	_, err := element.Decode(encoded[:len(encoded)-1])
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.CorruptedData))
}

func TestDecodeRejectsEmptyInput(t *testing.T) {
	_, err := element.Decode(nil)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.CorruptedData))
}

func TestDecodeRejectsTruncatedTreeHash(t *testing.T) {
	encoded := element.Encode(element.NewTree([32]byte{}))
	_, err := element.Decode(encoded[:len(encoded)-1])
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.CorruptedData))
}

func TestEqualDiffersOnTag(t *testing.T) {
	assert.False(t, element.Equal(element.NewItem([]byte("x")), element.NewReference([]byte("x"))))
}
