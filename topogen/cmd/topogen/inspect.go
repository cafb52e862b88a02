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

	"github.com/spf13/cobra"

	"github.com/netsec-ethz/topogen/private/app/command"
	"github.com/netsec-ethz/topogen/private/app/flag"
	"github.com/netsec-ethz/topogen/private/app/launcher"
	"github.com/netsec-ethz/topogen/topogen"
)

func newInspect(pather command.Pather) *cobra.Command {
	var flags topologyFlags
	var format string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the addressed topology without writing a lab",
		Example: "  " + pather.CommandPath() + " inspect -c caida.xml\n" +
			"  " + pather.CommandPath() + " inspect -c caida.xml --dual-stack --format json",
		Args: cobra.NoArgs,
	}
	l := launcher.NewLoader(cmd.Flags(), envPrefix)
	flags.register(cmd.Flags(), l)
	flag.EnumVarP(cmd.Flags(), &format, "format", "", string(topogen.FormatHuman),
		[]string{
			string(topogen.FormatHuman),
			string(topogen.FormatJSON),
			string(topogen.FormatYAML),
		},
		"Output format",
	)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := load(l, &flags)
		if err != nil {
			return err
		}
		f, err := topogen.ParseFormat(format)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true
		out := cmd.OutOrStdout()
		return launcher.Run(cmd.Context(), "inspect", cfg.General.ID, cfg.Logging,
			func(ctx context.Context) error {
				g := topogen.Generator{Config: cfg}
				recs, err := g.Load(ctx)
				if err != nil {
					return err
				}
				res, err := g.Build(ctx, recs)
				if err != nil {
					return err
				}
				return topogen.NewSummary(res).Write(out, f, isTerminal(out))
			},
		)
	}
	return cmd
}
