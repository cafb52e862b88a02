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

// Package config describes the configuration of the topogen lab generator.
package config

import (
	"io"
	"net/netip"
	"slices"
	"strings"
	"time"

	"github.com/netsec-ethz/topogen/pkg/log"
	"github.com/netsec-ethz/topogen/pkg/private/serrors"
	"github.com/netsec-ethz/topogen/pkg/private/util"
	"github.com/netsec-ethz/topogen/pkg/subnet"
	"github.com/netsec-ethz/topogen/private/config"
	"github.com/netsec-ethz/topogen/private/env"
	"github.com/netsec-ethz/topogen/private/kathara"
	"github.com/netsec-ethz/topogen/private/topology"
)

const (
	// DefaultCAIDAFile is the default topology input.
	DefaultCAIDAFile = "default.xml"
	// DefaultOutputDir is the default lab directory.
	DefaultOutputDir = "kathara_lab"
	// DefaultIPv4Network is the default parent network for IPv4 subnets.
	DefaultIPv4Network = "10.0.0.0/8"
	// DefaultIPv6Network is the default parent network for IPv6 subnets.
	DefaultIPv6Network = "fd00:f00d:cafe::7f00:0/104"
)

var _ config.Config = (*Config)(nil)

// Config is the topogen configuration.
type Config struct {
	General  env.General `toml:"general,omitempty"`
	Logging  log.Config  `toml:"log,omitempty"`
	Metrics  env.Metrics `toml:"metrics,omitempty"`
	Topology Topology    `toml:"topology,omitempty"`
	Network  Network     `toml:"network,omitempty"`
	Kathara  Kathara     `toml:"kathara,omitempty"`
	Output   Output      `toml:"output,omitempty"`
}

// InitDefaults initializes the default values for all parts of the config.
func (cfg *Config) InitDefaults() {
	config.InitAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.Topology,
		&cfg.Network,
		&cfg.Kathara,
		&cfg.Output,
	)
}

// Validate validates all parts of the config.
func (cfg *Config) Validate() error {
	return config.ValidateAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.Topology,
		&cfg.Network,
		&cfg.Kathara,
		&cfg.Output,
	)
}

// Sample generates a sample config file for topogen.
func (cfg *Config) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteSample(dst, path, nil,
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.Topology,
		&cfg.Network,
		&cfg.Kathara,
		&cfg.Output,
	)
}

var _ config.Config = (*Topology)(nil)

// Topology configures the input and the router placement.
type Topology struct {
	// CAIDAFile is the CAIDA XML topology.
	CAIDAFile string `toml:"caida_file,omitempty"`
	// SameRouterLatency is the latency below which a link end reuses an
	// existing router of its AS.
	SameRouterLatency util.DurWrap `toml:"same_router_latency,omitempty"`
}

func (cfg *Topology) InitDefaults() {
	if cfg.CAIDAFile == "" {
		cfg.CAIDAFile = DefaultCAIDAFile
	}
	if cfg.SameRouterLatency.Duration == 0 {
		cfg.SameRouterLatency.Duration = topology.DefaultSameRouterLatency
	}
}

func (cfg *Topology) Validate() error {
	if cfg.CAIDAFile == "" {
		return serrors.New("caida_file must be set")
	}
	if cfg.SameRouterLatency.Duration < 0 {
		return serrors.New("same_router_latency must not be negative",
			"value", cfg.SameRouterLatency)
	}
	return nil
}

func (cfg *Topology) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, topologySample)
}

func (cfg *Topology) ConfigName() string {
	return "topology"
}

// Threshold returns the placement threshold.
func (cfg *Topology) Threshold() time.Duration {
	return cfg.SameRouterLatency.Duration
}

var _ config.Config = (*Network)(nil)

// Network configures the address allocation.
type Network struct {
	// IPv4 is the parent network of the IPv4 subnets.
	IPv4 string `toml:"ipv4,omitempty"`
	// IPv6 is the parent network of the IPv6 subnets.
	IPv6 string `toml:"ipv6,omitempty"`
	// Families are the address families to allocate.
	Families []subnet.Family `toml:"families,omitempty"`
	// Exclude lists additional prefixes that are never allocated.
	Exclude []string `toml:"exclude,omitempty"`
	// NoDefaultExclude disables the default loopback-like exclusions.
	NoDefaultExclude bool `toml:"no_default_exclude,omitempty"`
}

func (cfg *Network) InitDefaults() {
	if cfg.IPv4 == "" {
		cfg.IPv4 = DefaultIPv4Network
	}
	if cfg.IPv6 == "" {
		cfg.IPv6 = DefaultIPv6Network
	}
	if len(cfg.Families) == 0 {
		cfg.Families = []subnet.Family{subnet.IPv4}
	}
}

func (cfg *Network) Validate() error {
	if len(cfg.Families) == 0 {
		return serrors.New("no address family configured")
	}
	seen := make(map[subnet.Family]bool)
	for _, f := range cfg.Families {
		if f != subnet.IPv4 && f != subnet.IPv6 {
			return serrors.New("unknown address family", "family", f)
		}
		if seen[f] {
			return serrors.New("duplicate address family", "family", f)
		}
		seen[f] = true
	}
	for _, f := range cfg.Families {
		if _, err := cfg.Parent(f); err != nil {
			return err
		}
	}
	if _, err := cfg.Excluded(); err != nil {
		return err
	}
	return nil
}

func (cfg *Network) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, networkSample)
}

func (cfg *Network) ConfigName() string {
	return "network"
}

// Parent returns the parsed parent network of the family.
func (cfg *Network) Parent(f subnet.Family) (netip.Prefix, error) {
	raw := cfg.IPv4
	if f == subnet.IPv6 {
		raw = cfg.IPv6
	}
	p, err := netip.ParsePrefix(raw)
	if err != nil {
		return netip.Prefix{}, serrors.Wrap("parsing network", err, "family", f)
	}
	if subnet.FamilyOf(p) != f {
		return netip.Prefix{}, serrors.New("network of wrong family",
			"family", f, "network", p)
	}
	return p, nil
}

// Excluded returns the parsed additional exclusions.
func (cfg *Network) Excluded() ([]netip.Prefix, error) {
	var res []netip.Prefix
	for _, raw := range cfg.Exclude {
		p, err := netip.ParsePrefix(raw)
		if err != nil {
			return nil, serrors.Wrap("parsing excluded prefix", err)
		}
		res = append(res, p.Masked())
	}
	return res, nil
}

// Ordered returns the configured families in canonical order.
func (cfg *Network) Ordered() []subnet.Family {
	var fs []subnet.Family
	for _, f := range subnet.Families {
		if slices.Contains(cfg.Families, f) {
			fs = append(fs, f)
		}
	}
	return fs
}

var _ config.Config = (*Kathara)(nil)

// Kathara configures the generated lab.
type Kathara struct {
	// Registry is the docker registry the images are pulled from.
	Registry string `toml:"registry,omitempty"`
	// Image is the router image name.
	Image string `toml:"image,omitempty"`
	// Tag is the router image tag.
	Tag string `toml:"tag,omitempty"`
	// Megalos generates a lab for the distributed Megalos runtime.
	Megalos bool `toml:"megalos,omitempty"`
}

func (cfg *Kathara) InitDefaults() {
	if cfg.Image == "" {
		cfg.Image = kathara.DefaultImage
	}
	if cfg.Tag == "" {
		cfg.Tag = kathara.DefaultTag
	}
}

func (cfg *Kathara) Validate() error {
	if strings.ContainsAny(cfg.Image, ": ") {
		return serrors.New("image must not contain a tag", "image", cfg.Image)
	}
	if strings.ContainsAny(cfg.Tag, ":/ ") {
		return serrors.New("invalid image tag", "tag", cfg.Tag)
	}
	return nil
}

func (cfg *Kathara) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, katharaSample)
}

func (cfg *Kathara) ConfigName() string {
	return "kathara"
}

// Options returns the render options.
func (cfg *Kathara) Options() kathara.Options {
	return kathara.Options{
		Megalos:  cfg.Megalos,
		Registry: cfg.Registry,
		Image:    cfg.Image,
		Tag:      cfg.Tag,
	}
}

var _ config.Config = (*Output)(nil)

// Output configures the generated files.
type Output struct {
	// Dir is the lab directory.
	Dir string `toml:"dir,omitempty"`
	// RegistryDB is the sqlite subnet registry. If not set, no database is
	// written.
	RegistryDB string `toml:"registry_db,omitempty"`
	// DOT is the Graphviz router graph file. If not set, no graph is
	// written.
	DOT string `toml:"dot,omitempty"`
}

func (cfg *Output) InitDefaults() {
	if cfg.Dir == "" {
		cfg.Dir = DefaultOutputDir
	}
}

func (cfg *Output) Validate() error {
	for _, p := range []string{cfg.Dir, cfg.RegistryDB, cfg.DOT} {
		if strings.Contains(p, ":") {
			return serrors.New("output path must not contain ':'", "path", p)
		}
	}
	if cfg.Dir == "" {
		return serrors.New("output dir must be set")
	}
	return nil
}

func (cfg *Output) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, outputSample)
}

func (cfg *Output) ConfigName() string {
	return "output"
}
