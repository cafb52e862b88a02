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

// topogen generates Kathará labs from CAIDA AS topologies.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/netsec-ethz/topogen/private/app/command"
)

const envPrefix = "TOPOGEN"

func main() {
	cmd := newRoot(filepath.Base(os.Args[0]))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRoot(executable string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   executable,
		Short: "Kathará lab generator for CAIDA AS topologies",
		Args:  cobra.NoArgs,
		// Silence the errors, since we print them in main. Otherwise, cobra
		// will print any non-nil errors returned by a RunE function.
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newGenerate(cmd),
		newInspect(cmd),
		newSample(cmd),
		command.NewVersion(cmd),
		command.NewCompletion(cmd),
		command.NewGendocs(cmd),
	)
	return cmd
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
