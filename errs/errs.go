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

// Package errs defines the error taxonomy shared by every component of
// the store: callers distinguish recoverable input mistakes from
// irrecoverable storage/corruption failures by switching on Kind.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an Error the way a caller is expected to react to it.
type Kind int

const (
	// Unknown is the zero value and should never be returned.
	Unknown Kind = iota
	// CyclicReference means the reference resolver revisited a key.
	CyclicReference
	// ReferenceLimit means a reference chain exceeded MaxReferenceHops.
	ReferenceLimit
	// InvalidProof means proof structure, arity, hash or path verification failed.
	InvalidProof
	// InvalidPath means a path/key was missing, empty where disallowed, or unknown.
	InvalidPath
	// Storage means the backing key/value store failed.
	Storage
	// CorruptedData means a decode of a persisted or transferred artifact failed.
	CorruptedData
)

func (k Kind) String() string {
	switch k {
	case CyclicReference:
		return "cyclic-reference"
	case ReferenceLimit:
		return "reference-limit"
	case InvalidProof:
		return "invalid-proof"
	case InvalidPath:
		return "invalid-path"
	case Storage:
		return "storage"
	case CorruptedData:
		return "corrupted-data"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every exported operation.
// Reason is a short human string; Cause, when present, is the underlying
// error that triggered a Storage or CorruptedData failure.
type Error struct {
	Kind   Kind
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Unwrap exposes Cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error with no underlying cause.
func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// Wrap builds an Error that carries cause as context, annotated via
// github.com/pkg/errors so a %+v format still prints a stack trace from
// the point Wrap was called.
func Wrap(kind Kind, reason string, cause error) *Error {
	return &Error{Kind: kind, Reason: reason, Cause: errors.Wrap(cause, reason)}
}

// Is reports whether err is an *Error of the given kind. It lets callers
// write `errs.Is(err, errs.InvalidPath)` instead of type-asserting.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
