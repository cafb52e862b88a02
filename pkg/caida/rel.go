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

package caida

import (
	"errors"
	"strings"

	"github.com/netsec-ethz/topogen/pkg/private/serrors"
)

// ErrUnknownRel is returned for relationship tokens that are not recognized.
var ErrUnknownRel = errors.New("unknown relationship")

// Rel is the business relationship of a link. On a link record it is read
// from the perspective of the link source: CUSTOMER means that the target is
// a customer of the source.
type Rel uint8

// The supported relationships.
const (
	Customer Rel = iota + 1
	Provider
	Peer
	Sibling
)

// ParseRel parses a relationship token, ignoring case.
func ParseRel(s string) (Rel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CUSTOMER":
		return Customer, nil
	case "PROVIDER":
		return Provider, nil
	case "PEER":
		return Peer, nil
	case "SIBLING":
		return Sibling, nil
	default:
		return 0, serrors.JoinNoStack(ErrUnknownRel, nil, "value", s)
	}
}

func (r Rel) String() string {
	switch r {
	case Customer:
		return "CUSTOMER"
	case Provider:
		return "PROVIDER"
	case Peer:
		return "PEER"
	case Sibling:
		return "SIBLING"
	default:
		return "UNKNOWN"
	}
}

// Reverse returns the relationship seen from the other end of the link.
// CUSTOMER and PROVIDER swap, PEER and SIBLING are symmetric.
func (r Rel) Reverse() Rel {
	switch r {
	case Customer:
		return Provider
	case Provider:
		return Customer
	default:
		return r
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Rel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rel) UnmarshalText(text []byte) error {
	v, err := ParseRel(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
