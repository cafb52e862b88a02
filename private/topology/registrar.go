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

//go:generate mockgen -destination mock_topology/topology.go -package mock_topology github.com/netsec-ethz/topogen/private/topology Registrar

import (
	"github.com/netsec-ethz/topogen/pkg/addr"
	"github.com/netsec-ethz/topogen/pkg/private/serrors"
)

// Registrar accepts address demand. The subnet generator implements it.
type Registrar interface {
	// RegisterMembers registers the group key and adds the members to it.
	// Registering an existing key or member must be a no-op.
	RegisterMembers(key addr.RouterPair, members ...addr.Router) error
}

// Registrars fans registrations out to multiple registrars, one per address
// family.
type Registrars []Registrar

// RegisterMembers registers with every registrar in order.
func (rs Registrars) RegisterMembers(key addr.RouterPair, members ...addr.Router) error {
	for _, r := range rs {
		if err := r.RegisterMembers(key, members...); err != nil {
			return err
		}
	}
	return nil
}

// Register registers every group of the topology in registration order.
func (t *Topology) Register(reg Registrar) error {
	for _, g := range t.groups {
		if err := reg.RegisterMembers(g.Key, g.Members[0], g.Members[1]); err != nil {
			return serrors.Wrap("registering group", err, "group", g.Key)
		}
	}
	return nil
}
