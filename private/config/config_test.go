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

package config_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/topogen/private/config"
)

type block struct {
	Name  string `toml:"name,omitempty"`
	Count int    `toml:"count,omitempty"`
	err   error
}

func (b *block) InitDefaults() {
	if b.Name == "" {
		b.Name = "default"
	}
}

func (b *block) Validate() error {
	return b.err
}

func (b *block) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, "name = \"default\"\n")
}

func (b *block) ConfigName() string {
	return "block"
}

func TestValidateAll(t *testing.T) {
	bad := errors.New("bad")
	assert.NoError(t, config.ValidateAll(&block{}, config.NoValidator{}))
	err := config.ValidateAll(&block{}, &block{err: bad})
	assert.ErrorIs(t, err, bad)
}

func TestInitAll(t *testing.T) {
	a, b := &block{}, &block{Name: "set"}
	config.InitAll(a, b, config.NoDefaulter{})
	assert.Equal(t, "default", a.Name)
	assert.Equal(t, "set", b.Name)
}

func TestDecode(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		var b block
		require.NoError(t, config.Decode([]byte("name = \"x\"\ncount = 3\n"), &b))
		assert.Equal(t, block{Name: "x", Count: 3}, b)
	})
	t.Run("unknown field", func(t *testing.T) {
		var b block
		assert.Error(t, config.Decode([]byte("unknown = 1\n"), &b))
	})
}

func TestLoadFileMissing(t *testing.T) {
	var b block
	assert.Error(t, config.LoadFile("does/not/exist.toml", &b))
}

func TestWriteSample(t *testing.T) {
	var buf bytes.Buffer
	config.WriteSample(&buf, nil, nil,
		config.StringSampler{Text: "# root\n"},
		&block{},
	)
	assert.Equal(t, "# root\n\n[block]\n    name = \"default\"\n", buf.String())

	var root struct {
		Block block `toml:"block"`
	}
	require.NoError(t, config.Decode(buf.Bytes(), &root))
	assert.Equal(t, "default", root.Block.Name)
}

func TestWriteSampleNamedString(t *testing.T) {
	var buf bytes.Buffer
	config.WriteSample(&buf, config.Path{"root"}, nil,
		config.StringSampler{Text: "count = 1\n", Name: "block"},
	)
	assert.Equal(t, "\n[root.block]\n    count = 1\n", buf.String())

	var root struct {
		Root struct {
			Block block `toml:"block"`
		} `toml:"root"`
	}
	require.NoError(t, config.Decode(buf.Bytes(), &root))
	assert.Equal(t, 1, root.Root.Block.Count)
}
