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

// Package subnet allocates collision-free subnets out of a parent network.
//
// Allocation happens in two phases. In the registration phase, demand groups
// are registered under a key and members are added to them. Nothing is
// allocated until Finalize is called, at which point the total demand is
// known and blocks are carved largest first, so that the parent network is
// packed tightly regardless of registration order.
//
// A Generator covers a single parent network, and therefore a single address
// family. It is not safe for concurrent use, but independent generators can be
// finalized concurrently.
package subnet

import (
	"errors"
	"fmt"
	"math/big"
	"math/bits"
	"net/netip"
	"sort"

	"github.com/gaissmai/bart"
	"go4.org/netipx"

	"github.com/netsec-ethz/topogen/pkg/log"
	"github.com/netsec-ethz/topogen/pkg/private/serrors"
)

var (
	// ErrFinalized is returned when a generator is used after finalization.
	ErrFinalized = errors.New("generator already finalized")
	// ErrExhausted is returned when the parent network cannot hold the
	// demand.
	ErrExhausted = errors.New("address space exhausted")
	// ErrEmptyGroup is returned when a registered group has no members at
	// finalization.
	ErrEmptyGroup = errors.New("group without members")
	// ErrInvalidNetwork is returned for unusable parent networks.
	ErrInvalidNetwork = errors.New("invalid parent network")
	// ErrOverlap indicates that two allocated blocks overlap. It signals a bug
	// in the allocator and is never expected.
	ErrOverlap = errors.New("allocated blocks overlap")
)

// Option configures a Generator.
type Option func(o *options)

type options struct {
	exclude    []netip.Prefix
	noDefaults bool
	logger     log.Logger
}

// WithExclude removes p from the free space if it overlaps the parent
// network. It may be given multiple times.
func WithExclude(p netip.Prefix) Option {
	return func(o *options) {
		o.exclude = append(o.exclude, p)
	}
}

// WithoutDefaultExclude disables the removal of DefaultExclude.
func WithoutDefaultExclude() Option {
	return func(o *options) {
		o.noDefaults = true
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Generator collects demand groups for one parent network and allocates them
// on Finalize. G is the group key and M the member type.
type Generator[G, M comparable] struct {
	network   netip.Prefix
	family    Family
	exclude   []netip.Prefix
	logger    log.Logger
	groups    []*Group[G, M]
	byKey     map[G]*Group[G, M]
	finalized bool
}

// NewGenerator creates a generator for the parent network. The network must be
// valid and canonical, i.e., without host bits set.
func NewGenerator[G, M comparable](
	network netip.Prefix,
	opts ...Option,
) (*Generator[G, M], error) {

	if !network.IsValid() {
		return nil, serrors.JoinNoStack(ErrInvalidNetwork, nil, "network", network)
	}
	if network.Masked() != network {
		return nil, serrors.JoinNoStack(ErrInvalidNetwork, nil,
			"network", network, "reason", "host bits set", "canonical", network.Masked())
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	family := FamilyOf(network)
	exclude := o.exclude
	if !o.noDefaults {
		exclude = append([]netip.Prefix{DefaultExclude(family)}, exclude...)
	}
	return &Generator[G, M]{
		network: network,
		family:  family,
		exclude: exclude,
		logger:  o.logger,
		byKey:   make(map[G]*Group[G, M]),
	}, nil
}

// Network returns the parent network.
func (g *Generator[G, M]) Network() netip.Prefix {
	return g.network
}

// Family returns the address family of the parent network.
func (g *Generator[G, M]) Family() Family {
	return g.family
}

// Register returns the group for key, creating it on first use. Registering
// the same key again returns the existing group.
func (g *Generator[G, M]) Register(key G) (*Group[G, M], error) {
	if g.finalized {
		return nil, serrors.JoinNoStack(ErrFinalized, nil, "network", g.network)
	}
	if grp, ok := g.byKey[key]; ok {
		return grp, nil
	}
	grp := &Group[G, M]{
		gen:  g,
		key:  key,
		idx:  len(g.groups),
		seen: make(map[M]struct{}),
	}
	g.groups = append(g.groups, grp)
	g.byKey[key] = grp
	return grp, nil
}

// RegisterMembers registers the group for key and adds the members to it.
func (g *Generator[G, M]) RegisterMembers(key G, members ...M) error {
	grp, err := g.Register(key)
	if err != nil {
		return err
	}
	for _, m := range members {
		if err := grp.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of registered groups.
func (g *Generator[G, M]) Len() int {
	return len(g.groups)
}

// Group is a demand group: a set of members that share one subnet.
type Group[G, M comparable] struct {
	gen     *Generator[G, M]
	key     G
	idx     int
	members []M
	seen    map[M]struct{}
}

// Key returns the group key.
func (grp *Group[G, M]) Key() G {
	return grp.key
}

// Members returns the members in first-registration order.
func (grp *Group[G, M]) Members() []M {
	return append([]M(nil), grp.members...)
}

// Register adds m to the group. Adding an existing member is a no-op.
func (grp *Group[G, M]) Register(m M) error {
	if grp.gen.finalized {
		return serrors.JoinNoStack(ErrFinalized, nil,
			"network", grp.gen.network, "group", grp.key)
	}
	if _, ok := grp.seen[m]; ok {
		return nil
	}
	grp.seen[m] = struct{}{}
	grp.members = append(grp.members, m)
	return nil
}

// HostBits returns the number of host bits of the block needed for n members.
// Two members share a point-to-point block (/31 or /127) in which both
// addresses are usable. Any other group reserves the first and the last
// address of its block.
func HostBits(n int) int {
	if n == 2 {
		return 1
	}
	return bits.Len(uint(n + 1))
}

// Finalize allocates a block for every registered group. Groups are
// processed by decreasing block size and, for equal sizes, in registration
// order. Each block is carved from the smallest free range that can hold it.
// After Finalize, the generator rejects any further registration. Finalize
// can only be called once.
func (g *Generator[G, M]) Finalize() (*AddressSpace[G, M], error) {
	if g.finalized {
		return nil, serrors.JoinNoStack(ErrFinalized, nil, "network", g.network)
	}
	g.finalized = true

	free, err := g.freeSpace()
	if err != nil {
		return nil, err
	}
	order := append([]*Group[G, M](nil), g.groups...)
	for _, grp := range order {
		if len(grp.members) == 0 {
			return nil, serrors.JoinNoStack(ErrEmptyGroup, nil,
				"network", g.network, "group", grp.key)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		hi, hj := HostBits(len(order[i].members)), HostBits(len(order[j].members))
		if hi != hj {
			return hi > hj
		}
		return order[i].idx < order[j].idx
	})

	space := &AddressSpace[G, M]{
		network: g.network,
		family:  g.family,
		byKey:   make(map[G]int, len(order)),
		total:   prefixSize(g.network),
	}
	for _, grp := range order {
		hostBits := HostBits(len(grp.members))
		bitLen := g.family.BitLen() - hostBits
		var block netip.Prefix
		ok := bitLen >= g.network.Bits()
		if ok {
			block, free, ok = free.RemoveFreePrefix(uint8(bitLen))
		}
		if !ok {
			return nil, serrors.JoinNoStack(ErrExhausted, nil,
				"family", g.family,
				"network", g.network,
				"group", grp.key,
				"members", len(grp.members),
				"demand", new(big.Int).Lsh(big.NewInt(1), uint(hostBits)),
				"capacity", setSize(free),
				"allocated", len(space.subnets),
			)
		}
		sn := Subnet[G, M]{
			Key:     grp.key,
			Prefix:  block,
			Members: assign(block, grp.members),
		}
		space.byKey[grp.key] = len(space.subnets)
		space.subnets = append(space.subnets, sn)
		log.SafeDebug(g.logger, "Allocated subnet", "group", fmt.Sprint(grp.key),
			"prefix", block, "members", len(grp.members))
	}
	if err := verify(g.network, space.subnets); err != nil {
		return nil, err
	}
	log.SafeInfo(g.logger, "Address space finalized", "family", g.family,
		"network", g.network, "subnets", len(space.subnets))
	return space, nil
}

func (g *Generator[G, M]) freeSpace() (*netipx.IPSet, error) {
	var b netipx.IPSetBuilder
	b.AddPrefix(g.network)
	for _, p := range g.exclude {
		if p.IsValid() && p.Overlaps(g.network) {
			b.RemovePrefix(p)
		}
	}
	set, err := b.IPSet()
	if err != nil {
		return nil, serrors.Wrap("building free space", err, "network", g.network)
	}
	return set, nil
}

func assign[M comparable](block netip.Prefix, members []M) []Assignment[M] {
	r := make([]Assignment[M], 0, len(members))
	ip := block.Addr()
	if len(members) != 2 {
		ip = ip.Next()
	}
	for _, m := range members {
		r = append(r, Assignment[M]{
			Member: m,
			Addr:   netip.PrefixFrom(ip, block.Bits()),
		})
		ip = ip.Next()
	}
	return r
}

// verify cross-checks the allocation independently of the free-space
// bookkeeping: every block must lie in the parent network and no two blocks
// may overlap.
func verify[G, M comparable](network netip.Prefix, subnets []Subnet[G, M]) error {
	var tbl bart.Table[int]
	for i, sn := range subnets {
		if sn.Prefix.Bits() < network.Bits() || !network.Contains(sn.Prefix.Addr()) {
			return serrors.JoinNoStack(ErrOverlap, nil,
				"network", network, "prefix", sn.Prefix, "reason", "outside parent")
		}
		if tbl.OverlapsPrefix(sn.Prefix) {
			return serrors.JoinNoStack(ErrOverlap, nil, "network", network, "prefix", sn.Prefix)
		}
		tbl.Insert(sn.Prefix, i)
	}
	return nil
}

func prefixSize(p netip.Prefix) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(p.Addr().BitLen()-p.Bits()))
}

func setSize(s *netipx.IPSet) *big.Int {
	total := new(big.Int)
	for _, p := range s.Prefixes() {
		total.Add(total, prefixSize(p))
	}
	return total
}
