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

// Package topology turns the AS-level records of a CAIDA topology into a
// border router graph, registers the address demand of that graph and joins
// the allocated addresses back onto the routers.
package topology

import (
	"github.com/netsec-ethz/topogen/pkg/addr"
	"github.com/netsec-ethz/topogen/pkg/caida"
	"github.com/netsec-ethz/topogen/pkg/geo"
)

// Neighbor is an adjacency of a router to a router of another AS.
type Neighbor struct {
	// Router is the remote router.
	Router addr.Router
	// Rel is what the remote AS is to the local AS. A CUSTOMER neighbor is a
	// customer of the local AS.
	Rel caida.Rel
	// Capacity is the capacity attribute of the link, if any.
	Capacity *int64
	// Link is the index of the link record.
	Link int
}

// Router is a border router.
type Router struct {
	Name addr.Router
	// Location is where the router was first placed.
	Location  geo.Coord
	Neighbors []Neighbor
}

// AS is an AS with the routers placed in it.
type AS struct {
	Record caida.ASRecord
	// Routers in assignment order.
	Routers []*Router
	// links are the indices of the links that touch the AS, in read order.
	links []int
}

// Link is a link record with its resolved routers.
type Link struct {
	Record caida.LinkRecord
	From   addr.Router
	To     addr.Router
}

// Group is a pair of routers that share a subnet.
type Group struct {
	Key addr.RouterPair
	// Members in registration order.
	Members [2]addr.Router
	// Rel is what Members[1] is to Members[0]. Intra-AS groups are SIBLING.
	Rel   caida.Rel
	Intra bool
}

// Topology is the border router graph.
type Topology struct {
	// Source names the input document.
	Source string
	// ASes in input order.
	ASes []*AS
	// Links in input order.
	Links   []Link
	byAS    map[addr.AS]*AS
	routers map[addr.Router]*Router
	groups  []Group
}

// AS returns the AS with the given id.
func (t *Topology) AS(id addr.AS) (*AS, bool) {
	as, ok := t.byAS[id]
	return as, ok
}

// Router returns the router with the given name.
func (t *Topology) Router(name addr.Router) (*Router, bool) {
	r, ok := t.routers[name]
	return r, ok
}

// Routers returns all routers, grouped by AS in input order and in assignment
// order within an AS.
func (t *Topology) Routers() []*Router {
	var r []*Router
	for _, as := range t.ASes {
		r = append(r, as.Routers...)
	}
	return r
}

// Groups returns the demand groups in registration order: for every AS in
// input order, first the links touching it in read order, then every pair of
// its routers. Each group appears once.
func (t *Topology) Groups() []Group {
	return append([]Group(nil), t.groups...)
}

func (t *Topology) computeGroups() {
	seen := make(map[addr.RouterPair]struct{})
	add := func(g Group) {
		if _, ok := seen[g.Key]; ok {
			return
		}
		seen[g.Key] = struct{}{}
		t.groups = append(t.groups, g)
	}
	for _, as := range t.ASes {
		for _, i := range as.links {
			l := t.Links[i]
			add(Group{
				Key:     addr.MakePair(l.From, l.To),
				Members: [2]addr.Router{l.From, l.To},
				Rel:     l.Record.Rel,
			})
		}
		for i, a := range as.Routers {
			for _, b := range as.Routers[i+1:] {
				add(Group{
					Key:     addr.MakePair(a.Name, b.Name),
					Members: [2]addr.Router{a.Name, b.Name},
					Rel:     caida.Sibling,
					Intra:   true,
				})
			}
		}
	}
}
