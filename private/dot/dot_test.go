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

package dot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph"

	"github.com/netsec-ethz/topogen/pkg/addr"
	"github.com/netsec-ethz/topogen/pkg/caida"
	"github.com/netsec-ethz/topogen/private/dot"
	"github.com/netsec-ethz/topogen/private/topology/topotest"
)

func TestNew(t *testing.T) {
	res := topotest.Result(t, topotest.ThreeASes(), "10.0.0.0/8")
	g, err := dot.New(res)
	require.NoError(t, err)

	assert.Len(t, graph.NodesOf(g.Nodes()), 5)
	assert.Len(t, graph.EdgesOf(g.Edges()), 5)

	br11, ok := g.RouterNode(addr.Router{AS: 1, ID: 1})
	require.True(t, ok)
	br21, ok := g.RouterNode(addr.Router{AS: 2, ID: 1})
	require.True(t, ok)
	e, ok := g.Edge(br11.ID(), br21.ID()).(dot.Edge)
	require.True(t, ok)
	assert.Equal(t, caida.Customer, e.Iface.Rel)
	assert.False(t, e.Iface.Intra)

	br12, ok := g.RouterNode(addr.Router{AS: 1, ID: 2})
	require.True(t, ok)
	intra, ok := g.Edge(br11.ID(), br12.ID()).(dot.Edge)
	require.True(t, ok)
	assert.True(t, intra.Iface.Intra)

	_, ok = g.RouterNode(addr.Router{AS: 4, ID: 1})
	assert.False(t, ok)
}

func TestMarshal(t *testing.T) {
	res := topotest.Result(t, topotest.ThreeASes(), "10.0.0.0/8", "fd00::/64")
	b, err := dot.Marshal(res)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "graph")
	assert.Contains(t, out, "br1_1 -- br2_1")
	assert.Contains(t, out, "br1_1 -- br1_2")
	assert.Contains(t, out, "10.0.0.0/31 fd00::/127")
	assert.Contains(t, out, "dashed")
	assert.Contains(t, out, "CUSTOMER")
}
