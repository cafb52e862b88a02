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

package main

import (
	"context"
	"net/netip"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/netsec-ethz/topogen/pkg/private/util"
	"github.com/netsec-ethz/topogen/pkg/subnet"
	"github.com/netsec-ethz/topogen/private/app/command"
	"github.com/netsec-ethz/topogen/private/app/flag"
	"github.com/netsec-ethz/topogen/private/app/launcher"
	"github.com/netsec-ethz/topogen/topogen"
	"github.com/netsec-ethz/topogen/topogen/config"
)

// topologyFlags are the flags that control the core of a run.
type topologyFlags struct {
	network   netip.Prefix
	network6  netip.Prefix
	families  []subnet.Family
	latency   util.DurWrap
	ipv6      bool
	dualStack bool
}

func (f *topologyFlags) register(fs *pflag.FlagSet, l *launcher.Loader) {
	fs.StringP("caida-config", "c", "", "CAIDA XML topology file (default \"default.xml\")")
	flag.PrefixVarP(fs, &f.network, "network", "n", "IPv4 network to create subnets in "+
		"(default \""+config.DefaultIPv4Network+"\")")
	flag.PrefixVarP(fs, &f.network6, "network-v6", "", "IPv6 network to create subnets in "+
		"(default \""+config.DefaultIPv6Network+"\")")
	flag.FamiliesVar(fs, &f.families, "families", "Address families to allocate (ipv4,ipv6)")
	fs.StringSlice("exclude", nil, "Additional prefixes that are never allocated")
	fs.Var(&f.latency, "same-router-latency",
		"Link ends closer than this latency to a router of their AS share it (default 200us)")
	fs.BoolVar(&f.ipv6, "ipv6", false, "Use IPv6 only")
	fs.BoolVar(&f.dualStack, "dual-stack", false, "Use IPv4 and IPv6")
	fs.String("log-level", "", "Console logging level (debug|info|error)")
	l.MustBind(map[string]string{
		"topology.caida_file":          "caida-config",
		"topology.same_router_latency": "same-router-latency",
		"network.ipv4":                 "network",
		"network.ipv6":                 "network-v6",
		"network.families":             "families",
		"network.exclude":              "exclude",
		"log.console.level":            "log-level",
	})
}

// apply applies the family shortcuts. --dual-stack wins over --ipv6.
func (f *topologyFlags) apply(cfg *config.Config) {
	switch {
	case f.dualStack:
		cfg.Network.Families = []subnet.Family{subnet.IPv4, subnet.IPv6}
	case f.ipv6:
		cfg.Network.Families = []subnet.Family{subnet.IPv6}
	}
}

func load(l *launcher.Loader, f *topologyFlags) (*config.Config, error) {
	var cfg config.Config
	if err := l.Load(&cfg); err != nil {
		return nil, err
	}
	f.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newGenerate(pather command.Pather) *cobra.Command {
	var flags topologyFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a Kathará lab from a CAIDA topology",
		Example: "  " + pather.CommandPath() + " generate -c caida.xml -n 10.0.0.0/8 -o lab\n" +
			"  " + pather.CommandPath() + " generate --config topogen.toml --dual-stack",
		Args: cobra.NoArgs,
	}
	l := launcher.NewLoader(cmd.Flags(), envPrefix)
	flags.register(cmd.Flags(), l)
	cmd.Flags().StringP("output-dir", "o", "", "Output directory (default \"kathara_lab\")")
	cmd.Flags().String("docker-registry", "", "Docker registry to pull images from")
	cmd.Flags().String("image", "", "Router image name (default \"base\")")
	cmd.Flags().String("image-tag", "", "Router image tag (default \"latest\")")
	cmd.Flags().Bool("megalos", false, "Generate a lab for the Megalos runtime")
	cmd.Flags().String("registry-db", "", "Write the subnets to this SQLite database")
	cmd.Flags().String("dot", "", "Write the router graph to this Graphviz file")
	cmd.Flags().String("metrics-file", "", "Write run metrics to this Prometheus text file")
	l.MustBind(map[string]string{
		"output.dir":         "output-dir",
		"kathara.registry":   "docker-registry",
		"kathara.image":      "image",
		"kathara.tag":        "image-tag",
		"kathara.megalos":    "megalos",
		"output.registry_db": "registry-db",
		"output.dot":         "dot",
		"metrics.text_file":  "metrics-file",
	})

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := load(l, &flags)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true
		return launcher.Run(cmd.Context(), "generate", cfg.General.ID, cfg.Logging,
			func(ctx context.Context) error {
				g := topogen.Generator{Config: cfg, Metrics: topogen.NewMetrics()}
				_, err := g.Run(ctx)
				return err
			},
		)
	}
	return cmd
}
