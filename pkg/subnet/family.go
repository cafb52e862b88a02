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

package subnet

import (
	"net/netip"
	"strings"

	"github.com/netsec-ethz/topogen/pkg/private/serrors"
)

// Family is an IP address family.
type Family uint8

const (
	// IPv4 is the IPv4 address family.
	IPv4 Family = 4
	// IPv6 is the IPv6 address family.
	IPv6 Family = 6
)

// Families lists the supported families in output order.
var Families = []Family{IPv4, IPv6}

// FamilyOf returns the family of the prefix.
func FamilyOf(p netip.Prefix) Family {
	if p.Addr().Is4() {
		return IPv4
	}
	return IPv6
}

// ParseFamily parses ipv4 or ipv6 (also v4 and v6, case-insensitive).
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(s) {
	case "ipv4", "v4", "4":
		return IPv4, nil
	case "ipv6", "v6", "6":
		return IPv6, nil
	default:
		return 0, serrors.New("unknown address family", "value", s)
	}
}

func (f Family) String() string {
	switch f {
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Family) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Family) UnmarshalText(text []byte) error {
	v, err := ParseFamily(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// BitLen is the address length of the family.
func (f Family) BitLen() int {
	if f == IPv4 {
		return 32
	}
	return 128
}

// DefaultExclude is the range removed from every parent network of the family
// that overlaps it. It is reserved for the loopback of the emulation hosts.
func DefaultExclude(f Family) netip.Prefix {
	if f == IPv4 {
		return netip.MustParsePrefix("127.0.0.0/30")
	}
	return netip.MustParsePrefix("fd00:f00d:cafe::7f00:0/126")
}
