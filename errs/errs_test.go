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

package errs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadsdb/hads/errs"
)

func TestNewError(t *testing.T) {
	err := errs.New(errs.InvalidPath, "no subtree found under that path")
	require.Error(t, err)
	assert.Equal(t, "invalid-path: no subtree found under that path", err.Error())
	assert.True(t, errs.Is(err, errs.InvalidPath))
	assert.False(t, errs.Is(err, errs.Storage))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := errs.Wrap(errs.Storage, "put", cause)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.Storage))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
}

func TestIsOnNonHadsError(t *testing.T) {
	assert.False(t, errs.Is(errors.New("plain error"), errs.Storage))
}

func TestKindString(t *testing.T) {
	cases := map[errs.Kind]string{
		errs.CyclicReference: "cyclic-reference",
		errs.ReferenceLimit:  "reference-limit",
		errs.InvalidProof:    "invalid-proof",
		errs.InvalidPath:     "invalid-path",
		errs.Storage:         "storage",
		errs.CorruptedData:   "corrupted-data",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}
