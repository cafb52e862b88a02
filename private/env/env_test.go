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

package env_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/topogen/private/config"
	"github.com/netsec-ethz/topogen/private/env"
)

func TestGeneralSample(t *testing.T) {
	var sample bytes.Buffer
	var cfg env.General
	cfg.Sample(&sample, nil, nil)
	require.NoError(t, config.Decode(sample.Bytes(), &cfg))
	var defaults env.General
	defaults.InitDefaults()
	assert.Equal(t, defaults, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestMetricsSample(t *testing.T) {
	var sample bytes.Buffer
	var cfg env.Metrics
	cfg.Sample(&sample, nil, nil)
	require.NoError(t, config.Decode(sample.Bytes(), &cfg))
	assert.Empty(t, cfg.TextFile)
}

func TestMetricsExport(t *testing.T) {
	reg := prometheus.NewRegistry()
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_gauge", Help: "Test."})
	reg.MustRegister(g)
	g.Set(3)

	t.Run("disabled", func(t *testing.T) {
		cfg := env.Metrics{}
		assert.NoError(t, cfg.Export(reg))
	})
	t.Run("text file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "topogen.prom")
		cfg := env.Metrics{TextFile: file}
		require.NoError(t, cfg.Export(reg))
		raw, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "test_gauge 3")
	})
}

func TestVersionInfo(t *testing.T) {
	assert.NotEmpty(t, env.Version())
	assert.Contains(t, env.VersionInfo(), "Version:")
}
