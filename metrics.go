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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Package-level metric vectors, registered once at process start and
// shared by every *Store the process opens.
var (
	insertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hads",
		Name:      "inserts_total",
		Help:      "Number of Insert calls, by outcome.",
	}, []string{"outcome"})

	getsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hads",
		Name:      "gets_total",
		Help:      "Number of Get calls, by outcome.",
	}, []string{"outcome"})

	proofsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hads",
		Name:      "proofs_total",
		Help:      "Number of Proof calls, by outcome.",
	}, []string{"outcome"})

	proofBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hads",
		Name:      "proof_build_duration_seconds",
		Help:      "Time spent planning and building a multi-path proof.",
		Buckets:   prometheus.DefBuckets,
	})
)
