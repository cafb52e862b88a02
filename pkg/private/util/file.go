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

package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/netsec-ethz/topogen/pkg/private/serrors"
)

// WriteFile writes data to path, creating the parent directories as needed.
// Paths containing ':' are rejected, since the character is not portable in
// file names.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if strings.Contains(path, ":") {
		return serrors.New("path contains ':'", "path", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return serrors.Wrap("creating directory", err, "path", path)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return serrors.Wrap("writing file", err, "path", path)
	}
	return nil
}
