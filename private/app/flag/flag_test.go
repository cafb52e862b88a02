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

package flag_test

import (
	"net/netip"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/topogen/pkg/private/xtest"
	"github.com/netsec-ethz/topogen/pkg/subnet"
	"github.com/netsec-ethz/topogen/private/app/flag"
)

func TestPrefix(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var p netip.Prefix
	f := flag.PrefixVarP(fs, &p, "network", "n", "network")
	assert.Equal(t, "", f.Value.String())
	assert.Equal(t, "prefix", f.Value.Type())

	require.NoError(t, fs.Parse([]string{"-n", "10.0.0.0/8"}))
	assert.Equal(t, xtest.MustParsePrefix("10.0.0.0/8"), p)
	assert.Equal(t, "10.0.0.0/8", f.Value.String())
	assert.True(t, f.Changed)

	assert.Error(t, fs.Parse([]string{"-n", "10.0.0.0"}))
}

func TestFamilies(t *testing.T) {
	testCases := map[string]struct {
		input     string
		expected  []subnet.Family
		assertErr assert.ErrorAssertionFunc
	}{
		"single": {
			input:     "ipv6",
			expected:  []subnet.Family{subnet.IPv6},
			assertErr: assert.NoError,
		},
		"both": {
			input:     "ipv4, v6",
			expected:  []subnet.Family{subnet.IPv4, subnet.IPv6},
			assertErr: assert.NoError,
		},
		"duplicate": {
			input:     "ipv4,ipv4",
			assertErr: assert.Error,
		},
		"unknown": {
			input:     "ipx",
			assertErr: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			var v []subnet.Family
			f := flag.FamiliesVar(fs, &v, "families", "families")
			err := fs.Parse([]string{"--families", tc.input})
			tc.assertErr(t, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.expected, v)
			assert.Equal(t, "stringSlice", f.Value.Type())
		})
	}
}

func TestEnum(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var format string
	flag.EnumVarP(fs, &format, "format", "", "human", []string{"human", "json"}, "format")
	assert.Equal(t, "human", format)
	require.NoError(t, fs.Parse([]string{"--format", "json"}))
	assert.Equal(t, "json", format)
	assert.Error(t, fs.Parse([]string{"--format", "xml"}))
}
