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

// Package xtest contains helpers for tests.
package xtest

import (
	"flag"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// UpdateGoldenFiles registers the '-update' flag for the test.
//
// This flag should be checked by golden file tests to see whether the golden
// files should be updated or not. The flag should be registered as a package
// global variable:
//
//	var update = xtest.UpdateGoldenFiles()
//
// To update the golden files of a package, run:
//
//	go test ./path/to/package -update
func UpdateGoldenFiles() *bool {
	return flag.Bool("update", false, "set to regenerate the golden files")
}

// AssertGolden compares actual with the content of the golden file. If update
// is set, the golden file is rewritten instead.
func AssertGolden(t testing.TB, update bool, golden string, actual []byte) {
	t.Helper()
	if update {
		require.NoError(t, os.MkdirAll(filepath.Dir(golden), 0o755))
		require.NoError(t, os.WriteFile(golden, actual, 0o644))
		return
	}
	expected, err := os.ReadFile(golden)
	require.NoError(t, err, "golden file missing, run with -update")
	assert.Equal(t, string(expected), string(actual), "golden mismatch: %s", golden)
}

// TempFileName creates a temporary file in dir with the specified prefix, and
// then closes and deletes the file and returns its name. It is useful for
// testing packages that care about a unique path without being able to
// overwrite it (e.g., databases).
func TempFileName(dir, prefix string) (string, error) {
	file, err := os.CreateTemp(dir, prefix)
	if err != nil {
		return "", err
	}
	name := file.Name()
	if err := file.Close(); err != nil {
		return "", err
	}
	if err := os.Remove(name); err != nil {
		return "", err
	}
	return name, nil
}

// MustParsePrefix parses the prefix and panics on error.
func MustParsePrefix(s string) netip.Prefix {
	return netip.MustParsePrefix(s)
}

// MustParsePrefixes parses the prefixes and panics on error.
func MustParsePrefixes(s ...string) []netip.Prefix {
	r := make([]netip.Prefix, 0, len(s))
	for _, p := range s {
		r = append(r, netip.MustParsePrefix(p))
	}
	return r
}

// SanitizedName sanitizes the test name such that it can be used as a file
// name.
func SanitizedName(t testing.TB) string {
	return strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_").Replace(t.Name())
}
