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

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/topogen/private/config"
	"github.com/netsec-ethz/topogen/topogen"
	topogencfg "github.com/netsec-ethz/topogen/topogen/config"
)

const testTopology = "../../testdata/three.xml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRoot("topogen")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lab")
	_, err := execute(t, "generate", "-c", testTopology, "-o", dir, "--dual-stack",
		"--megalos", "--image-tag", "v1", "--log-level", "error")
	require.NoError(t, err)

	labConf, err := os.ReadFile(filepath.Join(dir, "lab.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(labConf), `br1_1[image]="base:v1"`)
	startup, err := os.ReadFile(filepath.Join(dir, "br2_1.startup"))
	require.NoError(t, err)
	assert.Contains(t, string(startup), "ip addr add 10.0.0.1/31 dev net0")
	assert.Contains(t, string(startup), "ip -6 addr add")
	assert.FileExists(t, filepath.Join(dir, "networks.conf"))
}

func TestGenerateConfigFile(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "topogen.toml")
	raw := `
[topology]
caida_file = "` + testTopology + `"

[network]
ipv4 = "192.168.0.0/24"

[output]
dir = "` + filepath.Join(tmp, "lab") + `"

[log.console]
level = "error"
`
	require.NoError(t, os.WriteFile(file, []byte(raw), 0o644))
	_, err := execute(t, "generate", "--config", file)
	require.NoError(t, err)
	networks, err := os.ReadFile(filepath.Join(tmp, "lab", "networks.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(networks), "[192.168.0.0/31]")
}

func TestGenerateErrors(t *testing.T) {
	_, err := execute(t, "generate", "-c", "missing.xml", "-o", t.TempDir(),
		"--log-level", "error")
	assert.ErrorIs(t, err, topogen.ErrLoad)

	_, err = execute(t, "generate", "--network", "10.0.0.0")
	assert.Error(t, err)

	_, err = execute(t, "generate", "--network", "fd00::/64")
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	out, err := execute(t, "inspect", "-c", testTopology, "--format", "json",
		"--log-level", "error")
	require.NoError(t, err)
	var s topogen.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "three.xml", s.Source)
	assert.Equal(t, 5, s.Routers)
	require.Len(t, s.Families, 1)
	assert.Equal(t, "ipv4", s.Families[0].Family)

	out, err = execute(t, "inspect", "-c", testTopology, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Source: three.xml")

	_, err = execute(t, "inspect", "--format", "xml")
	assert.Error(t, err)
}

func TestSample(t *testing.T) {
	out, err := execute(t, "sample")
	require.NoError(t, err)
	var cfg topogencfg.Config
	require.NoError(t, config.Decode([]byte(out), &cfg))
	cfg.InitDefaults()
	assert.NoError(t, cfg.Validate())
}
