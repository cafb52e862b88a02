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

package topology_test

import (
	"net/netip"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/topogen/pkg/addr"
	"github.com/netsec-ethz/topogen/pkg/caida"
	"github.com/netsec-ethz/topogen/pkg/geo"
	"github.com/netsec-ethz/topogen/pkg/log/testlog"
	"github.com/netsec-ethz/topogen/pkg/private/xtest"
	"github.com/netsec-ethz/topogen/pkg/subnet"
	"github.com/netsec-ethz/topogen/private/topology"
	"github.com/netsec-ethz/topogen/private/topology/mock_topology"
)

var (
	zurich  = geo.Coord{Lat: 47.3769, Lon: 8.5417}
	nearby  = geo.Coord{Lat: 47.4669, Lon: 8.5417} // about 10 km north of zurich
	newYork = geo.Coord{Lat: 40.7128, Lon: -74.0060}
)

func br(as addr.AS, id uint32) addr.Router {
	return addr.Router{AS: as, ID: id}
}

func records(ases []addr.AS, links ...caida.LinkRecord) *caida.Records {
	recs := &caida.Records{Source: "test.xml"}
	for _, as := range ases {
		recs.ASes = append(recs.ASes, caida.ASRecord{ID: as})
	}
	recs.Links = links
	return recs
}

func lnk(from, to addr.AS, rel caida.Rel, loc geo.Coord) caida.LinkRecord {
	return caida.LinkRecord{From: from, To: to, Rel: rel, Location: loc}
}

func build(t *testing.T, recs *caida.Records, opts ...topology.Option) *topology.Topology {
	t.Helper()
	opts = append(opts, topology.WithLogger(testlog.NewLogger(t)))
	topo, err := topology.NewBuilder(opts...).Build(recs)
	require.NoError(t, err)
	return topo
}

func routerNames(routers []*topology.Router) []addr.Router {
	var names []addr.Router
	for _, r := range routers {
		names = append(names, r.Name)
	}
	return names
}

func TestBuildCustomerLink(t *testing.T) {
	capacity := int64(100)
	l := lnk(1, 2, caida.Customer, zurich)
	l.Capacity = &capacity
	topo := build(t, records([]addr.AS{1, 2}, l))

	assert.Equal(t, []addr.Router{br(1, 1), br(2, 1)}, routerNames(topo.Routers()))
	r1, ok := topo.Router(br(1, 1))
	require.True(t, ok)
	assert.Equal(t, zurich, r1.Location)
	assert.Equal(t, []topology.Neighbor{
		{Router: br(2, 1), Rel: caida.Customer, Capacity: &capacity, Link: 0},
	}, r1.Neighbors)
	r2, ok := topo.Router(br(2, 1))
	require.True(t, ok)
	assert.Equal(t, []topology.Neighbor{
		{Router: br(1, 1), Rel: caida.Provider, Capacity: &capacity, Link: 0},
	}, r2.Neighbors)

	assert.Equal(t, []topology.Group{{
		Key:     addr.MakePair(br(1, 1), br(2, 1)),
		Members: [2]addr.Router{br(1, 1), br(2, 1)},
		Rel:     caida.Customer,
	}}, topo.Groups())
	assert.Equal(t, "test.xml", topo.Source)
}

func TestBuildRelationships(t *testing.T) {
	testCases := map[string]struct {
		rel      caida.Rel
		fromSees caida.Rel
		toSees   caida.Rel
	}{
		"customer": {rel: caida.Customer, fromSees: caida.Customer, toSees: caida.Provider},
		"provider": {rel: caida.Provider, fromSees: caida.Provider, toSees: caida.Customer},
		"peer":     {rel: caida.Peer, fromSees: caida.Peer, toSees: caida.Peer},
		"sibling":  {rel: caida.Sibling, fromSees: caida.Sibling, toSees: caida.Sibling},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			topo := build(t, records([]addr.AS{1, 2}, lnk(1, 2, tc.rel, zurich)))
			from, _ := topo.Router(br(1, 1))
			to, _ := topo.Router(br(2, 1))
			assert.Equal(t, tc.fromSees, from.Neighbors[0].Rel)
			assert.Equal(t, tc.toSees, to.Neighbors[0].Rel)
		})
	}
}

func TestBuildPlacement(t *testing.T) {
	t.Run("reuse within threshold", func(t *testing.T) {
		topo := build(t, records([]addr.AS{1, 2, 3, 4},
			lnk(1, 2, caida.Peer, zurich),
			lnk(1, 3, caida.Peer, nearby),
			lnk(1, 4, caida.Peer, newYork),
		))
		as1, ok := topo.AS(1)
		require.True(t, ok)
		assert.Equal(t, []addr.Router{br(1, 1), br(1, 2)}, routerNames(as1.Routers))
		r, _ := topo.Router(br(1, 1))
		assert.Len(t, r.Neighbors, 2)
		assert.Equal(t, zurich, r.Location)
		assert.Equal(t, br(1, 1), topo.Links[1].From)
		assert.Equal(t, br(1, 2), topo.Links[2].From)
	})
	t.Run("zero threshold", func(t *testing.T) {
		topo := build(t, records([]addr.AS{1, 2, 3},
			lnk(1, 2, caida.Peer, zurich),
			lnk(1, 3, caida.Peer, nearby),
			lnk(1, 2, caida.Peer, zurich),
		), topology.WithSameRouterLatency(0))
		as1, _ := topo.AS(1)
		assert.Equal(t, []addr.Router{br(1, 1), br(1, 2)}, routerNames(as1.Routers))
		// The parallel link shares the subnet of the first one.
		assert.Len(t, topo.Groups(), 3)
	})
	t.Run("nearest wins", func(t *testing.T) {
		far := geo.Coord{Lat: 47.7769, Lon: 8.5417}
		topo := build(t, records([]addr.AS{1, 2, 3, 4},
			lnk(1, 2, caida.Peer, zurich),
			lnk(1, 3, caida.Peer, far),
			lnk(1, 4, caida.Peer, geo.Coord{Lat: 47.6269, Lon: 8.5417}),
		), topology.WithSameRouterLatency(150*time.Microsecond))
		as1, _ := topo.AS(1)
		require.Len(t, as1.Routers, 2)
		assert.Equal(t, br(1, 2), topo.Links[2].From)
	})
	t.Run("tie prefers earlier router", func(t *testing.T) {
		topo := build(t, records([]addr.AS{1, 2, 3, 4},
			lnk(1, 2, caida.Peer, geo.Coord{Lat: 0, Lon: 0}),
			lnk(1, 3, caida.Peer, geo.Coord{Lat: 0, Lon: 0.3}),
			lnk(1, 4, caida.Peer, geo.Coord{Lat: 0, Lon: 0.15}),
		), topology.WithSameRouterLatency(100*time.Microsecond))
		as1, _ := topo.AS(1)
		require.Len(t, as1.Routers, 2)
		assert.Equal(t, br(1, 1), topo.Links[2].From)
	})
}

func TestBuildErrors(t *testing.T) {
	testCases := map[string]struct {
		recs  *caida.Records
		isErr error
	}{
		"duplicate AS": {
			recs:  records([]addr.AS{1, 2, 1}),
			isErr: topology.ErrDuplicateAS,
		},
		"unknown from": {
			recs:  records([]addr.AS{2}, lnk(1, 2, caida.Peer, zurich)),
			isErr: topology.ErrUnknownAS,
		},
		"unknown to": {
			recs:  records([]addr.AS{1}, lnk(1, 2, caida.Peer, zurich)),
			isErr: topology.ErrUnknownAS,
		},
		"self link": {
			recs:  records([]addr.AS{1}, lnk(1, 1, caida.Sibling, zurich)),
			isErr: topology.ErrSelfLink,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := topology.NewBuilder().Build(tc.recs)
			assert.ErrorIs(t, err, tc.isErr)
		})
	}
}

// threeASes has three ASes where AS1 and AS3 have two routers each.
func threeASes() *caida.Records {
	return records([]addr.AS{1, 2, 3},
		lnk(1, 2, caida.Customer, zurich),
		lnk(1, 3, caida.Peer, newYork),
		lnk(2, 3, caida.Customer, zurich),
	)
}

func TestRegisterOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	reg := mock_topology.NewMockRegistrar(ctrl)

	topo := build(t, threeASes())
	pair := func(a, b addr.Router) *gomock.Call {
		return reg.EXPECT().RegisterMembers(addr.MakePair(a, b), a, b).Return(nil)
	}
	gomock.InOrder(
		pair(br(1, 1), br(2, 1)),
		pair(br(1, 2), br(3, 1)),
		pair(br(1, 1), br(1, 2)),
		pair(br(2, 1), br(3, 2)),
		pair(br(3, 1), br(3, 2)),
	)
	require.NoError(t, topo.Register(reg))
}

func TestRegisterError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	reg := mock_topology.NewMockRegistrar(ctrl)
	reg.EXPECT().RegisterMembers(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(subnet.ErrFinalized)

	topo := build(t, threeASes())
	assert.ErrorIs(t, topo.Register(reg), subnet.ErrFinalized)
}

func finalize(t *testing.T, topo *topology.Topology,
	networks ...string) map[subnet.Family]*topology.Space {

	t.Helper()
	var regs topology.Registrars
	var gens []*subnet.Generator[addr.RouterPair, addr.Router]
	for _, n := range networks {
		g, err := subnet.NewGenerator[addr.RouterPair, addr.Router](xtest.MustParsePrefix(n))
		require.NoError(t, err)
		regs = append(regs, g)
		gens = append(gens, g)
	}
	require.NoError(t, topo.Register(regs))
	spaces := map[subnet.Family]*topology.Space{}
	for _, g := range gens {
		s, err := g.Finalize()
		require.NoError(t, err)
		spaces[g.Family()] = s
	}
	return spaces
}

func TestAssemble(t *testing.T) {
	topo := build(t, threeASes())
	res, err := topology.Assemble(topo, finalize(t, topo, "10.0.0.0/8", "fd00::/64"))
	require.NoError(t, err)
	assert.Equal(t, []subnet.Family{subnet.IPv4, subnet.IPv6}, res.Families())

	ifaces := res.Interfaces(br(1, 1))
	require.Len(t, ifaces, 2)
	assert.Equal(t, br(2, 1), ifaces[0].Peer)
	assert.Equal(t, caida.Customer, ifaces[0].Rel)
	assert.False(t, ifaces[0].Intra)
	assert.Equal(t, map[subnet.Family]netip.Prefix{
		subnet.IPv4: xtest.MustParsePrefix("10.0.0.0/31"),
		subnet.IPv6: xtest.MustParsePrefix("fd00::/127"),
	}, ifaces[0].Addrs)
	assert.Zero(t, ifaces[0].Latency)

	assert.Equal(t, br(1, 2), ifaces[1].Peer)
	assert.True(t, ifaces[1].Intra)
	assert.Equal(t, caida.Sibling, ifaces[1].Rel)
	assert.Equal(t, xtest.MustParsePrefix("10.0.0.4/31"), ifaces[1].Addrs[subnet.IPv4])
	assert.InDelta(t, geo.Latency(zurich, newYork), ifaces[1].Latency, 1e-9)

	ifaces = res.Interfaces(br(2, 1))
	require.Len(t, ifaces, 2)
	assert.Equal(t, caida.Provider, ifaces[0].Rel)
	assert.Equal(t, xtest.MustParsePrefix("10.0.0.1/31"), ifaces[0].Addrs[subnet.IPv4])
	assert.Equal(t, br(3, 2), ifaces[1].Peer)
	assert.Equal(t, xtest.MustParsePrefix("10.0.0.6/31"), ifaces[1].Addrs[subnet.IPv4])

	assert.Len(t, res.Subnets(subnet.IPv4), 5)
	assert.Len(t, res.Routers(), 5)
}

func TestAssembleMissingAddress(t *testing.T) {
	topo := build(t, threeASes())
	g, err := subnet.NewGenerator[addr.RouterPair, addr.Router](
		xtest.MustParsePrefix("10.0.0.0/8"))
	require.NoError(t, err)
	empty, err := g.Finalize()
	require.NoError(t, err)
	_, err = topology.Assemble(topo, map[subnet.Family]*topology.Space{subnet.IPv4: empty})
	assert.ErrorIs(t, err, topology.ErrMissingAddress)
}

func TestDeterministic(t *testing.T) {
	london := geo.Coord{Lat: 51.5074, Lon: -0.1278}
	recs := func() *caida.Records {
		return records([]addr.AS{1, 2, 3, 4},
			lnk(1, 2, caida.Customer, zurich),
			lnk(3, 1, caida.Provider, newYork),
			lnk(1, 4, caida.Peer, london),
			lnk(2, 4, caida.Sibling, nearby),
			lnk(3, 4, caida.Customer, london),
			lnk(2, 3, caida.Peer, newYork),
		)
	}
	run := func() *topology.Result {
		topo := build(t, recs())
		res, err := topology.Assemble(topo, finalize(t, topo, "10.0.0.0/24", "fd00::/120"))
		require.NoError(t, err)
		return res
	}

	first, second := run(), run()
	assert.Equal(t, routerNames(first.Routers()), routerNames(second.Routers()))
	assert.Equal(t, first.Topology.Groups(), second.Topology.Groups())
	for _, f := range []subnet.Family{subnet.IPv4, subnet.IPv6} {
		assert.Equal(t, first.Subnets(f), second.Subnets(f), f.String())
	}
	for _, r := range first.Routers() {
		assert.Equal(t, first.Interfaces(r.Name), second.Interfaces(r.Name), r.Name.String())
	}
	assert.Len(t, first.Routers(), 9)
}
