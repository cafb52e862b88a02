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

package topology

import (
	"errors"
	"net/netip"

	"github.com/netsec-ethz/topogen/pkg/addr"
	"github.com/netsec-ethz/topogen/pkg/caida"
	"github.com/netsec-ethz/topogen/pkg/geo"
	"github.com/netsec-ethz/topogen/pkg/private/serrors"
	"github.com/netsec-ethz/topogen/pkg/subnet"
)

// ErrMissingAddress indicates that a registered member was not assigned an
// address. It signals an inconsistency between registration and allocation.
var ErrMissingAddress = errors.New("member without address")

// Space is the address space of one family.
type Space = subnet.AddressSpace[addr.RouterPair, addr.Router]

// Interface is the attachment of a router to one subnet.
type Interface struct {
	// Peer is the router on the other side.
	Peer addr.Router
	// Group is the subnet key.
	Group addr.RouterPair
	// Rel is what the peer is to this router.
	Rel   caida.Rel
	Intra bool
	// Addrs holds one address per allocated family.
	Addrs map[subnet.Family]netip.Prefix
	// Latency is the propagation latency to the peer in milliseconds, derived
	// from the router locations.
	Latency float64
}

// Result is the addressed topology.
type Result struct {
	Topology *Topology
	Spaces   map[subnet.Family]*Space
	ifaces   map[addr.Router][]Interface
}

// Assemble joins the allocated addresses onto the routers. Every member of
// every group must have an address in every given space.
func Assemble(topo *Topology, spaces map[subnet.Family]*Space) (*Result, error) {
	res := &Result{
		Topology: topo,
		Spaces:   spaces,
		ifaces:   make(map[addr.Router][]Interface),
	}
	families := res.Families()
	for _, g := range topo.groups {
		a, b := topo.routers[g.Members[0]], topo.routers[g.Members[1]]
		if a == nil || b == nil {
			return nil, serrors.JoinNoStack(ErrMissingAddress, nil,
				"group", g.Key, "reason", "unknown router")
		}
		latency := geo.Latency(a.Location, b.Location)
		for i, local := range g.Members {
			peer := g.Members[1-i]
			rel := g.Rel
			if i == 1 {
				rel = rel.Reverse()
			}
			iface := Interface{
				Peer:    peer,
				Group:   g.Key,
				Rel:     rel,
				Intra:   g.Intra,
				Addrs:   make(map[subnet.Family]netip.Prefix, len(families)),
				Latency: latency,
			}
			for _, f := range families {
				p, ok := spaces[f].Addr(g.Key, local)
				if !ok {
					return nil, serrors.JoinNoStack(ErrMissingAddress, nil,
						"group", g.Key, "router", local, "family", f)
				}
				iface.Addrs[f] = p
			}
			res.ifaces[local] = append(res.ifaces[local], iface)
		}
	}
	return res, nil
}

// Families returns the allocated families in canonical order.
func (r *Result) Families() []subnet.Family {
	var fs []subnet.Family
	for _, f := range subnet.Families {
		if s, ok := r.Spaces[f]; ok && s != nil {
			fs = append(fs, f)
		}
	}
	return fs
}

// Interfaces returns the interfaces of a router in group registration order.
// The index of an interface is its interface number.
func (r *Result) Interfaces(router addr.Router) []Interface {
	return r.ifaces[router]
}

// Routers returns all routers, see Topology.Routers.
func (r *Result) Routers() []*Router {
	return r.Topology.Routers()
}

// Subnets returns the subnets of the family in allocation order.
func (r *Result) Subnets(f subnet.Family) []subnet.Subnet[addr.RouterPair, addr.Router] {
	s, ok := r.Spaces[f]
	if !ok || s == nil {
		return nil
	}
	return s.Subnets()
}
