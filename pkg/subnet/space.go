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
	"math/big"
	"net/netip"
)

// Assignment is the address of one member, carrying the length of its block.
type Assignment[M comparable] struct {
	Member M
	Addr   netip.Prefix
}

// Subnet is the block allocated to one group.
type Subnet[G, M comparable] struct {
	Key     G
	Prefix  netip.Prefix
	Members []Assignment[M]
}

// Addr returns the address of m in the subnet.
func (s Subnet[G, M]) Addr(m M) (netip.Prefix, bool) {
	for _, a := range s.Members {
		if a.Member == m {
			return a.Addr, true
		}
	}
	return netip.Prefix{}, false
}

// AddressSpace is the immutable result of finalizing a Generator.
type AddressSpace[G, M comparable] struct {
	network netip.Prefix
	family  Family
	subnets []Subnet[G, M]
	byKey   map[G]int
	total   *big.Int
}

// Network returns the parent network.
func (s *AddressSpace[G, M]) Network() netip.Prefix {
	return s.network
}

// Family returns the address family.
func (s *AddressSpace[G, M]) Family() Family {
	return s.family
}

// Subnets returns the subnets in allocation order.
func (s *AddressSpace[G, M]) Subnets() []Subnet[G, M] {
	return append([]Subnet[G, M](nil), s.subnets...)
}

// Len returns the number of subnets.
func (s *AddressSpace[G, M]) Len() int {
	return len(s.subnets)
}

// Subnet returns the subnet of the group key.
func (s *AddressSpace[G, M]) Subnet(key G) (Subnet[G, M], bool) {
	i, ok := s.byKey[key]
	if !ok {
		return Subnet[G, M]{}, false
	}
	return s.subnets[i], true
}

// Addr returns the address of member m in the group key.
func (s *AddressSpace[G, M]) Addr(key G, m M) (netip.Prefix, bool) {
	sn, ok := s.Subnet(key)
	if !ok {
		return netip.Prefix{}, false
	}
	return sn.Addr(m)
}

// Addresses returns the number of assigned member addresses.
func (s *AddressSpace[G, M]) Addresses() int {
	n := 0
	for _, sn := range s.subnets {
		n += len(sn.Members)
	}
	return n
}

// Utilization returns the fraction of the parent network covered by
// allocated blocks.
func (s *AddressSpace[G, M]) Utilization() float64 {
	used := new(big.Int)
	for _, sn := range s.subnets {
		used.Add(used, prefixSize(sn.Prefix))
	}
	r, _ := new(big.Rat).SetFrac(used, s.total).Float64()
	return r
}
