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

// Package dot exports the addressed router graph in Graphviz DOT format.
//
// Routers are nodes, subnets are edges. Intra-AS edges are dashed and every
// edge is labelled with the subnets allocated to it.
package dot

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/netsec-ethz/topogen/pkg/addr"
	"github.com/netsec-ethz/topogen/pkg/private/serrors"
	"github.com/netsec-ethz/topogen/pkg/subnet"
	"github.com/netsec-ethz/topogen/private/topology"
)

type attributes []encoding.Attribute

func (a attributes) Attributes() []encoding.Attribute {
	return a
}

// Node is a router.
type Node struct {
	id     int64
	Router *topology.Router
}

func (n Node) ID() int64 {
	return n.id
}

// DOTID implements dot.Node.
func (n Node) DOTID() string {
	return n.Router.Name.String()
}

// Attributes implements encoding.Attributer.
func (n Node) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "as", Value: n.Router.Name.AS.String()},
		{Key: "pos", Value: fmt.Sprintf("%.4f,%.4f", n.Router.Location.Lon,
			n.Router.Location.Lat)},
	}
}

// Edge is a subnet between two routers.
type Edge struct {
	F, T  Node
	Iface topology.Interface
}

func (e Edge) From() graph.Node {
	return e.F
}

func (e Edge) To() graph.Node {
	return e.T
}

func (e Edge) ReversedEdge() graph.Edge {
	return Edge{F: e.T, T: e.F, Iface: e.Iface}
}

// Attributes implements encoding.Attributer.
func (e Edge) Attributes() []encoding.Attribute {
	var prefixes []string
	for _, f := range subnet.Families {
		if p, ok := e.Iface.Addrs[f]; ok {
			prefixes = append(prefixes, p.Masked().String())
		}
	}
	a := []encoding.Attribute{
		{Key: "label", Value: strings.Join(prefixes, " ")},
		{Key: "latency", Value: fmt.Sprintf("%.3f", e.Iface.Latency)},
	}
	if e.Iface.Intra {
		return append(a, encoding.Attribute{Key: "style", Value: "dashed"})
	}
	return append(a, encoding.Attribute{Key: "rel", Value: e.Iface.Rel.String()})
}

// Graph is the router graph of an addressed topology.
type Graph struct {
	*simple.UndirectedGraph
	name  string
	nodes map[addr.Router]Node
}

// New builds the graph. Node IDs follow the router order of the topology.
// The relationship on an edge is what the higher node is to the lower one.
func New(res *topology.Result) (*Graph, error) {
	g := &Graph{
		UndirectedGraph: simple.NewUndirectedGraph(),
		name:            res.Topology.Source,
		nodes:           make(map[addr.Router]Node),
	}
	for i, r := range res.Routers() {
		n := Node{id: int64(i), Router: r}
		g.AddNode(n)
		g.nodes[r.Name] = n
	}
	for _, r := range res.Routers() {
		local := g.nodes[r.Name]
		for _, iface := range res.Interfaces(r.Name) {
			peer, ok := g.nodes[iface.Peer]
			if !ok {
				return nil, serrors.New("interface to unknown router",
					"router", r.Name, "peer", iface.Peer)
			}
			if peer.id < local.id {
				continue
			}
			g.SetEdge(Edge{F: local, T: peer, Iface: iface})
		}
	}
	return g, nil
}

// RouterNode returns the node of a router.
func (g *Graph) RouterNode(r addr.Router) (Node, bool) {
	n, ok := g.nodes[r]
	return n, ok
}

// DOTAttributers implements dot.Attributers.
func (g *Graph) DOTAttributers() (graph, node, edge encoding.Attributer) {
	return attributes{{Key: "layout", Value: "neato"}},
		attributes{{Key: "shape", Value: "box"}},
		attributes{}
}

// Marshal renders the graph in DOT format.
func (g *Graph) Marshal() ([]byte, error) {
	b, err := dot.Marshal(g, g.name, "", "\t")
	if err != nil {
		return nil, serrors.Wrap("marshaling DOT graph", err)
	}
	return b, nil
}

// Marshal renders the router graph of res in DOT format.
func Marshal(res *topology.Result) ([]byte, error) {
	g, err := New(res)
	if err != nil {
		return nil, err
	}
	return g.Marshal()
}
