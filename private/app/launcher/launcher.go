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

// Package launcher loads the configuration of a command and runs it with the
// common logging harness.
//
// The configuration is merged from the following sources, later sources take
// precedence: the TOML config file given with --config, the environment
// variables <PREFIX>_<BLOCK>_<KEY> and the command line flags that are bound
// to configuration keys. Unset values are filled with the defaults of the
// configuration.
package launcher

import (
	"context"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/netsec-ethz/topogen/pkg/log"
	"github.com/netsec-ethz/topogen/pkg/private/serrors"
	libconfig "github.com/netsec-ethz/topogen/private/config"
	"github.com/netsec-ethz/topogen/private/env"
)

const cfgConfigFile = "config"

// Loader merges the configuration sources of a command.
type Loader struct {
	flags    *pflag.FlagSet
	config   *viper.Viper
	bindings []binding
}

type binding struct {
	key  string
	flag *pflag.Flag
}

// NewLoader registers the --config flag on flags. Environment variables are
// looked up with the given prefix.
func NewLoader(flags *pflag.FlagSet, envPrefix string) *Loader {
	flags.String(cfgConfigFile, "", "Configuration file (TOML)")
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return &Loader{flags: flags, config: v}
}

// Bind binds the configuration key, for example "network.ipv4", to the flag
// and to the corresponding environment variable.
func (l *Loader) Bind(key, flagName string) error {
	f := l.flags.Lookup(flagName)
	if f == nil {
		return serrors.New("binding unknown flag", "flag", flagName)
	}
	if err := l.config.BindPFlag(key, f); err != nil {
		return serrors.Wrap("binding flag", err, "flag", flagName)
	}
	if err := l.config.BindEnv(key); err != nil {
		return serrors.Wrap("binding environment", err, "key", key)
	}
	l.bindings = append(l.bindings, binding{key: key, flag: f})
	return nil
}

// MustBind is like Bind but panics on error.
func (l *Loader) MustBind(bindings map[string]string) {
	for key, flagName := range bindings {
		if err := l.Bind(key, flagName); err != nil {
			panic(err)
		}
	}
}

// ConfigFile returns the config file given on the command line.
func (l *Loader) ConfigFile() string {
	f, _ := l.flags.GetString(cfgConfigFile)
	return f
}

// Load populates cfg from all sources and initializes the defaults. It does
// not validate cfg.
func (l *Loader) Load(cfg libconfig.Config) error {
	if file := l.ConfigFile(); file != "" {
		if err := libconfig.LoadFile(file, cfg); err != nil {
			return serrors.Wrap("loading config from file", err, "file", file)
		}
	}
	overlay := make(map[string]any)
	for _, b := range l.bindings {
		if !l.config.IsSet(b.key) {
			continue
		}
		setPath(overlay, strings.Split(b.key, "."), l.value(b))
	}
	if len(overlay) != 0 {
		raw, err := toml.Marshal(overlay)
		if err != nil {
			return serrors.Wrap("encoding overrides", err)
		}
		if err := libconfig.Decode(raw, cfg); err != nil {
			return serrors.Wrap("applying overrides", err)
		}
	}
	cfg.InitDefaults()
	return nil
}

func (l *Loader) value(b binding) any {
	switch b.flag.Value.Type() {
	case "bool":
		return l.config.GetBool(b.key)
	case "stringSlice", "stringArray":
		switch v := l.config.Get(b.key).(type) {
		case []string:
			return v
		default:
			var res []string
			for _, s := range strings.Split(l.config.GetString(b.key), ",") {
				if s = strings.TrimSpace(s); s != "" {
					res = append(res, s)
				}
			}
			return res
		}
	default:
		return l.config.GetString(b.key)
	}
}

func setPath(m map[string]any, path []string, v any) {
	for _, p := range path[:len(path)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[p] = next
		}
		m = next
	}
	m[path[len(path)-1]] = v
}

// Run sets up logging from logCfg and runs main with a context that carries
// the root logger. The start and end of the command are logged.
func Run(ctx context.Context, name, id string, logCfg log.Config,
	main func(ctx context.Context) error) error {

	if err := log.Setup(logCfg); err != nil {
		return serrors.Wrap("initialize logging", err)
	}
	defer log.Flush()
	defer log.HandlePanic()
	env.LogAppStarted(name, id)
	defer env.LogAppStopped(name, id)

	ctx, _ = log.WithLabels(ctx, "id", id)
	if err := main(ctx); err != nil {
		log.FromCtx(ctx).Error("Command failed", "err", err)
		return err
	}
	return nil
}
