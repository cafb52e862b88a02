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

// Package topotest provides addressed topologies for tests.
package topotest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/topogen/pkg/addr"
	"github.com/netsec-ethz/topogen/pkg/caida"
	"github.com/netsec-ethz/topogen/pkg/geo"
	"github.com/netsec-ethz/topogen/pkg/private/xtest"
	"github.com/netsec-ethz/topogen/pkg/subnet"
	"github.com/netsec-ethz/topogen/private/topology"
)

var (
	Zurich  = geo.Coord{Lat: 47.3769, Lon: 8.5417}
	NewYork = geo.Coord{Lat: 40.7128, Lon: -74.0060}
)

// ThreeASes returns three ASes, in which AS1 and AS3 each have a router in
// Zurich and one in New York, and AS2 has a single router in Zurich.
//
//	AS1 -customer-> AS2   (Zurich)
//	AS1 -peer-      AS3   (New York)
//	AS2 -customer-> AS3   (Zurich)
func ThreeASes() *caida.Records {
	capacity := int64(100)
	return &caida.Records{
		Source: "three.xml",
		ASes: []caida.ASRecord{
			{ID: 1, Name: "one"},
			{ID: 2, Name: "two"},
			{ID: 3, Name: "three"},
		},
		Links: []caida.LinkRecord{
			{From: 1, To: 2, Rel: caida.Customer, Location: Zurich, Capacity: &capacity},
			{From: 1, To: 3, Rel: caida.Peer, Location: NewYork},
			{From: 2, To: 3, Rel: caida.Customer, Location: Zurich},
		},
	}
}

// Result builds and addresses the records in the given parent networks.
func Result(t testing.TB, recs *caida.Records, networks ...string) *topology.Result {
	t.Helper()
	topo, err := topology.NewBuilder().Build(recs)
	require.NoError(t, err)
	var regs topology.Registrars
	var gens []*subnet.Generator[addr.RouterPair, addr.Router]
	for _, n := range networks {
		g, err := subnet.NewGenerator[addr.RouterPair, addr.Router](xtest.MustParsePrefix(n))
		require.NoError(t, err)
		regs = append(regs, g)
		gens = append(gens, g)
	}
	require.NoError(t, topo.Register(regs))
	spaces := make(map[subnet.Family]*topology.Space)
	for _, g := range gens {
		s, err := g.Finalize()
		require.NoError(t, err)
		spaces[g.Family()] = s
	}
	res, err := topology.Assemble(topo, spaces)
	require.NoError(t, err)
	return res
}
