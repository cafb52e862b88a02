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

package config

const topologySample = `
# CAIDA XML topology file. (default "default.xml")
caida_file = "default.xml"

# Link ends of an AS that are closer to an existing router of that AS than
# this latency share the router. (default 200us)
same_router_latency = "200us"
`

const networkSample = `
# Parent network of the IPv4 subnets. (default "10.0.0.0/8")
ipv4 = "10.0.0.0/8"

# Parent network of the IPv6 subnets. (default "fd00:f00d:cafe::7f00:0/104")
ipv6 = "fd00:f00d:cafe::7f00:0/104"

# Address families to allocate (ipv4|ipv6). (default ["ipv4"])
families = ["ipv4"]

# Additional prefixes that are never allocated, for example
# exclude = ["10.255.0.0/16"]. (default [])

# Do not exclude 127.0.0.0/30 and fd00:f00d:cafe::7f00:0/126. (default false)
no_default_exclude = false
`

const katharaSample = `
# Docker registry the router image is pulled from. (default "")
registry = ""

# Router image name. (default "base")
image = "base"

# Router image tag. (default "latest")
tag = "latest"

# Generate a lab for the distributed Megalos runtime. (default false)
megalos = false
`

const outputSample = `
# Directory of the generated lab. (default "kathara_lab")
dir = "kathara_lab"

# SQLite subnet registry. If empty, no database is written. (default "")
registry_db = ""

# Graphviz DOT router graph. If empty, no graph is written. (default "")
dot = ""
`
