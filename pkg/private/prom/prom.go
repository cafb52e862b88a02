// Copyright 2026 ETH Zurich
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package prom contains some utility functions for dealing with prometheus
// metrics.
package prom

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace is the namespace of all topogen metrics.
const Namespace = "topogen"

// Common label names.
const (
	// LabelResult is the label for result classifications.
	LabelResult = "result"
	// LabelFamily is the label for the address family.
	LabelFamily = "family"
)

// Common result values.
const (
	// Success is no error.
	Success = "ok_success"
	// ErrParse is used for input that could not be decoded.
	ErrParse = "err_parse"
	// ErrValidate is used for input that decoded but is inconsistent.
	ErrValidate = "err_validate"
	// ErrExhausted is used when an address space is too small.
	ErrExhausted = "err_exhausted"
	// ErrInternal is an internal error.
	ErrInternal = "err_internal"
	// ErrIO is used for errors writing output files.
	ErrIO = "err_io"
)

// ExportElementID exports the run ID on reg.
func ExportElementID(reg prometheus.Registerer, id string) {
	g := SafeRegister(reg, prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "elem_id",
			Help:      "The element ID from the config file",
		},
		[]string{"cfg"},
	)).(*prometheus.GaugeVec)
	g.WithLabelValues(id).Set(1)
}

// SafeRegister registers c with reg and returns the registered collector. If
// c was already registered the already registered collector is returned. In
// case of any other error this method panics (as MustRegister).
func SafeRegister(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}

// NewGaugeVec creates a gauge vec in the topogen namespace registered with reg.
func NewGaugeVec(reg prometheus.Registerer, name, help string,
	labels ...string) *prometheus.GaugeVec {

	return promauto.With(reg).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

// NewCounterVec creates a counter vec in the topogen namespace registered with
// reg.
func NewCounterVec(reg prometheus.Registerer, name, help string,
	labels ...string) *prometheus.CounterVec {

	return promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}
