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

package topogen

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/netsec-ethz/topogen/pkg/caida"
	"github.com/netsec-ethz/topogen/pkg/private/prom"
	"github.com/netsec-ethz/topogen/private/topology"
)

// Metrics describes a generator run.
type Metrics struct {
	Registry *prometheus.Registry

	IngestedLinks *prometheus.CounterVec
	ASes          *prometheus.GaugeVec
	Routers       *prometheus.GaugeVec
	Subnets       *prometheus.GaugeVec
	Addresses     *prometheus.GaugeVec
	Utilization   *prometheus.GaugeVec
	Runs          *prometheus.CounterVec
}

// NewMetrics creates the metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	return &Metrics{
		Registry: reg,
		IngestedLinks: prom.NewCounterVec(reg, "ingested_links_total",
			"Total number of link records read from the CAIDA topology."),
		ASes: prom.NewGaugeVec(reg, "ases",
			"Number of ASes in the topology."),
		Routers: prom.NewGaugeVec(reg, "routers",
			"Number of border routers placed."),
		Subnets: prom.NewGaugeVec(reg, "subnets",
			"Number of allocated subnets.", prom.LabelFamily),
		Addresses: prom.NewGaugeVec(reg, "addresses",
			"Number of assigned interface addresses.", prom.LabelFamily),
		Utilization: prom.NewGaugeVec(reg, "address_space_utilization_ratio",
			"Fraction of the parent network covered by allocated subnets.",
			prom.LabelFamily),
		Runs: prom.NewCounterVec(reg, "runs_total",
			"Total number of generator runs.", prom.LabelResult),
	}
}

// ObserveRecords records the ingested records.
func (m *Metrics) ObserveRecords(recs *caida.Records) {
	if m == nil {
		return
	}
	m.IngestedLinks.WithLabelValues().Add(float64(len(recs.Links)))
	m.ASes.WithLabelValues().Set(float64(len(recs.ASes)))
}

// ObserveResult records the size of the addressed topology.
func (m *Metrics) ObserveResult(res *topology.Result) {
	if m == nil {
		return
	}
	m.Routers.WithLabelValues().Set(float64(len(res.Routers())))
	for _, f := range res.Families() {
		s := res.Spaces[f]
		m.Subnets.WithLabelValues(f.String()).Set(float64(s.Len()))
		m.Addresses.WithLabelValues(f.String()).Set(float64(s.Addresses()))
		m.Utilization.WithLabelValues(f.String()).Set(s.Utilization())
	}
}

// ObserveRun records the outcome of a run.
func (m *Metrics) ObserveRun(result string) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(result).Inc()
}
