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

// Package addr contains the identifiers of the emulated topology: AS numbers,
// border router names and the unordered pairs that key link subnets.
package addr

import (
	"strconv"

	"github.com/netsec-ethz/topogen/pkg/private/serrors"
)

// AS is an autonomous system number as found in the CAIDA topology.
type AS uint32

// ParseAS parses a decimal AS number.
func ParseAS(s string) (AS, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, serrors.Wrap("parsing AS number", err, "value", s)
	}
	return AS(v), nil
}

func (as AS) String() string {
	return strconv.FormatUint(uint64(as), 10)
}

// MarshalText implements encoding.TextMarshaler.
func (as AS) MarshalText() ([]byte, error) {
	return []byte(as.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (as *AS) UnmarshalText(text []byte) error {
	v, err := ParseAS(string(text))
	if err != nil {
		return err
	}
	*as = v
	return nil
}
