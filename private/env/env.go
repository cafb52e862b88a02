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

// Package env contains the configuration blocks and start-up code shared by
// the topogen commands.
package env

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/netsec-ethz/topogen/pkg/log"
	"github.com/netsec-ethz/topogen/pkg/private/serrors"
	"github.com/netsec-ethz/topogen/private/config"
)

// DefaultID is the default element ID written to logs and metrics.
const DefaultID = "topogen"

// StartupVersion is the version of the build. It is set with
// -ldflags "-X github.com/netsec-ethz/topogen/private/env.StartupVersion=...".
var StartupVersion = ""

var _ config.Config = (*General)(nil)

type General struct {
	// ID identifies the run in logs and metrics.
	ID string `toml:"id,omitempty"`
}

func (cfg *General) InitDefaults() {
	if cfg.ID == "" {
		cfg.ID = DefaultID
	}
}

func (cfg *General) Validate() error {
	if cfg.ID == "" {
		return serrors.New("no id specified")
	}
	return nil
}

func (cfg *General) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, generalSample)
}

func (cfg *General) ConfigName() string {
	return "general"
}

var _ config.Config = (*Metrics)(nil)

type Metrics struct {
	config.NoDefaulter
	config.NoValidator
	// TextFile is the file the metrics are written to in the Prometheus text
	// exposition format. If not set, metrics are not exported.
	TextFile string `toml:"text_file,omitempty"`
}

func (cfg *Metrics) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteString(dst, metricsSample)
}

func (cfg *Metrics) ConfigName() string {
	return "metrics"
}

// Export writes the metrics gathered by g to the text file, if one is
// configured.
func (cfg *Metrics) Export(g prometheus.Gatherer) error {
	if cfg.TextFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(cfg.TextFile, g); err != nil {
		return serrors.Wrap("writing metrics", err, "file", cfg.TextFile)
	}
	log.Debug("Exported metrics", "file", cfg.TextFile)
	return nil
}

// Version returns the version of the build.
func Version() string {
	if StartupVersion != "" {
		return StartupVersion
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// VersionInfo returns build version information.
func VersionInfo() string {
	goVersion := "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
	}
	return fmt.Sprintf("  %s\n  %s\n",
		fmt.Sprintf("Version:       %s", Version()),
		fmt.Sprintf("Go version:    %s", goVersion),
	)
}

// LogAppStarted logs the start of a command.
func LogAppStarted(name, id string) {
	log.Info(fmt.Sprintf("=====================> Started %s %s\n%s  %s\n",
		name, id, VersionInfo(),
		fmt.Sprintf("cmd line:      %q", os.Args),
	))
}

// LogAppStopped logs the end of a command.
func LogAppStopped(name, id string) {
	log.Info(fmt.Sprintf("=====================> Stopped %s %s", name, id))
}
