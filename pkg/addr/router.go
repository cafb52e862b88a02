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

package addr

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/netsec-ethz/topogen/pkg/private/serrors"
)

// Router identifies a border router. IDs start at 1 and are scoped to the AS,
// so a Router is unique within a topology.
type Router struct {
	AS AS
	ID uint32
}

// ParseRouter parses the br<AS>_<ID> form.
func ParseRouter(s string) (Router, error) {
	rest, ok := strings.CutPrefix(s, "br")
	if !ok {
		return Router{}, serrors.New("router name lacks br prefix", "value", s)
	}
	asPart, idPart, ok := strings.Cut(rest, "_")
	if !ok {
		return Router{}, serrors.New("router name lacks separator", "value", s)
	}
	as, err := ParseAS(asPart)
	if err != nil {
		return Router{}, serrors.Wrap("parsing router AS", err, "value", s)
	}
	id, err := strconv.ParseUint(idPart, 10, 32)
	if err != nil || id == 0 {
		return Router{}, serrors.New("invalid router id", "value", s)
	}
	return Router{AS: as, ID: uint32(id)}, nil
}

func (r Router) String() string {
	return fmt.Sprintf("br%d_%d", r.AS, r.ID)
}

// Compare orders routers by AS, then ID.
func (r Router) Compare(o Router) int {
	if c := cmp.Compare(r.AS, o.AS); c != 0 {
		return c
	}
	return cmp.Compare(r.ID, o.ID)
}

// MarshalText implements encoding.TextMarshaler.
func (r Router) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Router) UnmarshalText(text []byte) error {
	v, err := ParseRouter(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
