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
	"github.com/cockroachdb/pebble"
	"github.com/golang/glog"
)

// options holds the resolved configuration for Open, built by applying
// each Option in order over sane defaults (the functional-options
// pattern, in place of a config file or flags — this is a library, not
// a CLI/service).
type options struct {
	pebbleOptions *pebble.Options
}

func defaultOptions() *options {
	return &options{pebbleOptions: &pebble.Options{Logger: glogLogger{}}}
}

// Option configures Open.
type Option func(*options)

// WithPebbleOptions overrides the *pebble.Options passed to the backing
// store, for callers that need custom cache sizing, compaction
// concurrency, or similar tuning.
func WithPebbleOptions(o *pebble.Options) Option {
	return func(cfg *options) {
		cfg.pebbleOptions = o
	}
}

// WithSync controls Pebble's write-ahead log: WithSync(false) disables
// it, trading durability for latency; WithSync(true) keeps it enabled,
// which is also the default.
func WithSync(sync bool) Option {
	return func(cfg *options) {
		if cfg.pebbleOptions == nil {
			cfg.pebbleOptions = &pebble.Options{}
		}
		// Pebble's own WriteOptions are chosen per-call in package store,
		// which always requests a synced write; this setting only turns
		// the write-ahead log on or off.
		cfg.pebbleOptions.DisableWAL = !sync
	}
}

// WithCacheSize sizes the backing store's block cache, in bytes. Larger
// caches trade memory for fewer reads hitting disk as leaf trees grow
// past what fits in the in-memory index.
func WithCacheSize(bytes int64) Option {
	return func(cfg *options) {
		if cfg.pebbleOptions == nil {
			cfg.pebbleOptions = &pebble.Options{}
		}
		cfg.pebbleOptions.Cache = pebble.NewCache(bytes)
	}
}

// WithLogger overrides the backing store's logger, which defaults to a
// glog-backed implementation (glogLogger) so Pebble's own internal
// diagnostics (e.g. compaction errors) flow through the same leveled
// logging as the rest of the store.
func WithLogger(logger pebble.Logger) Option {
	return func(cfg *options) {
		if cfg.pebbleOptions == nil {
			cfg.pebbleOptions = &pebble.Options{}
		}
		cfg.pebbleOptions.Logger = logger
	}
}

// glogLogger adapts glog to pebble.Logger, the seam WithLogger lets
// callers replace.
type glogLogger struct{}

func (glogLogger) Infof(format string, args ...interface{}) {
	glog.Infof(format, args...)
}

func (glogLogger) Fatalf(format string, args ...interface{}) {
	glog.Fatalf(format, args...)
}
