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

// Package registry records the allocated subnets outside of the lab. The flat
// registry is the networks.conf file, which lists every subnet as a section
// with one line per router. The sqlite registry holds the same data in a
// queryable form.
package registry

import (
	"bytes"
	"fmt"
	"io"

	"github.com/netsec-ethz/topogen/pkg/private/serrors"
	"github.com/netsec-ethz/topogen/private/topology"
)

// NetworksConf is the name of the flat registry file.
const NetworksConf = "networks.conf"

// WriteNetworks writes the subnets of res to w. Families are written in
// canonical order, subnets in allocation order.
//
//	[10.0.0.0/31]
//	br1_1 = 10.0.0.0
//	br2_1 = 10.0.0.1
func WriteNetworks(w io.Writer, res *topology.Result) error {
	for _, f := range res.Families() {
		for _, sn := range res.Subnets(f) {
			if _, err := fmt.Fprintf(w, "[%s]\n", sn.Prefix); err != nil {
				return serrors.Wrap("writing section", err, "subnet", sn.Prefix)
			}
			for _, a := range sn.Members {
				if _, err := fmt.Fprintf(w, "%s = %s\n", a.Member, a.Addr.Addr()); err != nil {
					return serrors.Wrap("writing address", err,
						"subnet", sn.Prefix, "router", a.Member)
				}
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return serrors.Wrap("writing section", err, "subnet", sn.Prefix)
			}
		}
	}
	return nil
}

// Networks renders the flat registry.
func Networks(res *topology.Result) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer do not fail.
	_ = WriteNetworks(&buf, res)
	return buf.Bytes()
}
