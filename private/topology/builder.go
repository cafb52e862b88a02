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
	"time"

	"github.com/netsec-ethz/topogen/pkg/addr"
	"github.com/netsec-ethz/topogen/pkg/caida"
	"github.com/netsec-ethz/topogen/pkg/geo"
	"github.com/netsec-ethz/topogen/pkg/log"
	"github.com/netsec-ethz/topogen/pkg/private/serrors"
)

// DefaultSameRouterLatency is the latency below which link endpoints of one AS
// are placed on the same border router. It corresponds to about 40 km.
const DefaultSameRouterLatency = 200 * time.Microsecond

var (
	// ErrDuplicateAS is returned when an AS id is declared twice.
	ErrDuplicateAS = errors.New("duplicate AS")
	// ErrUnknownAS is returned when a link references an undeclared AS.
	ErrUnknownAS = errors.New("link references unknown AS")
	// ErrSelfLink is returned when both ends of a link are in the same AS.
	ErrSelfLink = errors.New("link connects AS to itself")
)

// Option configures a Builder.
type Option func(b *Builder)

// WithSameRouterLatency sets the placement threshold. Negative values are
// treated as zero, in which case only identical locations share a router.
func WithSameRouterLatency(d time.Duration) Option {
	return func(b *Builder) {
		b.threshold = max(d, 0)
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// Builder builds the border router graph. A Builder holds no state between
// calls to Build.
type Builder struct {
	threshold time.Duration
	logger    log.Logger
}

// NewBuilder creates a builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{threshold: DefaultSameRouterLatency}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// placement tracks the router sequence numbers of one Build.
type placement struct {
	topo      *Topology
	seq       map[addr.AS]uint32
	threshold float64
	logger    log.Logger
}

// Build creates the topology from the records. Links are processed in input
// order. Each link end is placed on the nearest router of its AS within the
// placement threshold, preferring the earlier router on equal distance, or on
// a new router at the link location.
func (b *Builder) Build(recs *caida.Records) (*Topology, error) {
	topo := &Topology{
		Source:  recs.Source,
		byAS:    make(map[addr.AS]*AS, len(recs.ASes)),
		routers: make(map[addr.Router]*Router),
	}
	for _, rec := range recs.ASes {
		if _, ok := topo.byAS[rec.ID]; ok {
			return nil, serrors.JoinNoStack(ErrDuplicateAS, nil, "as", rec.ID)
		}
		as := &AS{Record: rec}
		topo.ASes = append(topo.ASes, as)
		topo.byAS[rec.ID] = as
	}
	p := placement{
		topo:      topo,
		seq:       make(map[addr.AS]uint32),
		threshold: float64(b.threshold) / float64(time.Millisecond),
		logger:    b.logger,
	}
	for i, rec := range recs.Links {
		if err := p.addLink(i, rec); err != nil {
			return nil, err
		}
	}
	topo.computeGroups()
	log.SafeInfo(b.logger, "Topology built", "ases", len(topo.ASes),
		"links", len(topo.Links), "routers", len(topo.routers), "groups", len(topo.groups))
	return topo, nil
}

func (p *placement) addLink(idx int, rec caida.LinkRecord) error {
	if rec.From == rec.To {
		return serrors.JoinNoStack(ErrSelfLink, nil, "link", idx, "as", rec.From)
	}
	from, ok := p.topo.byAS[rec.From]
	if !ok {
		return serrors.JoinNoStack(ErrUnknownAS, nil, "link", idx, "as", rec.From)
	}
	to, ok := p.topo.byAS[rec.To]
	if !ok {
		return serrors.JoinNoStack(ErrUnknownAS, nil, "link", idx, "as", rec.To)
	}
	fromBR := p.resolve(from, rec.Location)
	toBR := p.resolve(to, rec.Location)
	fromBR.Neighbors = append(fromBR.Neighbors, Neighbor{
		Router:   toBR.Name,
		Rel:      rec.Rel,
		Capacity: rec.Capacity,
		Link:     idx,
	})
	toBR.Neighbors = append(toBR.Neighbors, Neighbor{
		Router:   fromBR.Name,
		Rel:      rec.Rel.Reverse(),
		Capacity: rec.Capacity,
		Link:     idx,
	})
	li := len(p.topo.Links)
	p.topo.Links = append(p.topo.Links, Link{Record: rec, From: fromBR.Name, To: toBR.Name})
	from.links = append(from.links, li)
	to.links = append(to.links, li)
	return nil
}

func (p *placement) resolve(as *AS, loc geo.Coord) *Router {
	var best *Router
	var bestLatency float64
	for _, r := range as.Routers {
		l := geo.Latency(r.Location, loc)
		if l > p.threshold {
			continue
		}
		if best == nil || l < bestLatency {
			best, bestLatency = r, l
		}
	}
	if best != nil {
		return best
	}
	p.seq[as.Record.ID]++
	r := &Router{
		Name:     addr.Router{AS: as.Record.ID, ID: p.seq[as.Record.ID]},
		Location: loc,
	}
	as.Routers = append(as.Routers, r)
	p.topo.routers[r.Name] = r
	log.SafeDebug(p.logger, "Placed border router", "router", r.Name, "location", loc)
	return r
}
