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

// Package topogen generates Kathará labs from CAIDA AS topologies.
//
// A run reads the CAIDA records, places border routers, allocates one subnet
// per router pair in every configured address family and renders the lab
// together with the subnet registries.
package topogen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/netsec-ethz/topogen/pkg/addr"
	"github.com/netsec-ethz/topogen/pkg/caida"
	"github.com/netsec-ethz/topogen/pkg/log"
	"github.com/netsec-ethz/topogen/pkg/private/prom"
	"github.com/netsec-ethz/topogen/pkg/private/serrors"
	"github.com/netsec-ethz/topogen/pkg/private/util"
	"github.com/netsec-ethz/topogen/pkg/subnet"
	"github.com/netsec-ethz/topogen/private/dot"
	"github.com/netsec-ethz/topogen/private/kathara"
	"github.com/netsec-ethz/topogen/private/registry"
	"github.com/netsec-ethz/topogen/private/topology"
	"github.com/netsec-ethz/topogen/topogen/config"
)

var (
	// ErrLoad indicates that the topology could not be read.
	ErrLoad = errors.New("loading topology")
	// ErrOutput indicates that an output could not be written.
	ErrOutput = errors.New("writing output")
)

// Generator runs the lab generation for one configuration.
type Generator struct {
	Config *config.Config
	// Metrics is optional.
	Metrics *Metrics
}

// Load reads the configured CAIDA file.
func (g *Generator) Load(ctx context.Context) (*caida.Records, error) {
	file := g.Config.Topology.CAIDAFile
	recs, err := caida.LoadFile(file)
	if err != nil {
		return nil, serrors.JoinNoStack(ErrLoad, err, "file", file)
	}
	log.FromCtx(ctx).Info("Loaded topology", "file", file,
		"ases", len(recs.ASes), "links", len(recs.Links))
	g.Metrics.ObserveRecords(recs)
	return recs, nil
}

// Build places the routers and allocates the subnets of recs.
func (g *Generator) Build(ctx context.Context, recs *caida.Records) (*topology.Result, error) {
	logger := log.FromCtx(ctx)
	topo, err := topology.NewBuilder(
		topology.WithSameRouterLatency(g.Config.Topology.Threshold()),
		topology.WithLogger(logger),
	).Build(recs)
	if err != nil {
		return nil, err
	}
	logger.Info("Placed routers", "routers", len(topo.Routers()),
		"subnets", len(topo.Groups()))

	spaces, err := g.allocate(ctx, topo)
	if err != nil {
		return nil, err
	}
	res, err := topology.Assemble(topo, spaces)
	if err != nil {
		return nil, err
	}
	g.Metrics.ObserveResult(res)
	return res, nil
}

// allocate registers the demand of topo with one generator per family and
// finalizes the generators concurrently.
func (g *Generator) allocate(
	ctx context.Context,
	topo *topology.Topology,
) (map[subnet.Family]*topology.Space, error) {

	logger := log.FromCtx(ctx)
	netCfg := &g.Config.Network
	excluded, err := netCfg.Excluded()
	if err != nil {
		return nil, err
	}
	gens := make(map[subnet.Family]*subnet.Generator[addr.RouterPair, addr.Router])
	var regs topology.Registrars
	for _, f := range netCfg.Ordered() {
		parent, err := netCfg.Parent(f)
		if err != nil {
			return nil, err
		}
		opts := []subnet.Option{subnet.WithLogger(logger.New("family", f))}
		if netCfg.NoDefaultExclude {
			opts = append(opts, subnet.WithoutDefaultExclude())
		}
		for _, p := range excluded {
			if subnet.FamilyOf(p) == f {
				opts = append(opts, subnet.WithExclude(p))
			}
		}
		gen, err := subnet.NewGenerator[addr.RouterPair, addr.Router](parent, opts...)
		if err != nil {
			return nil, err
		}
		gens[f] = gen
		regs = append(regs, gen)
	}
	if err := topo.Register(regs); err != nil {
		return nil, err
	}

	var mtx sync.Mutex
	spaces := make(map[subnet.Family]*topology.Space, len(gens))
	eg, _ := errgroup.WithContext(ctx)
	for f, gen := range gens {
		eg.Go(func() error {
			defer log.HandlePanic()
			space, err := gen.Finalize()
			if err != nil {
				return serrors.Wrap("allocating subnets", err, "family", f)
			}
			logger.Debug("Allocated subnets", "family", f, "subnets", space.Len(),
				"utilization", space.Utilization())
			mtx.Lock()
			defer mtx.Unlock()
			spaces[f] = space
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return spaces, nil
}

// Write renders the lab and the registries of res.
func (g *Generator) Write(ctx context.Context, res *topology.Result) error {
	logger := log.FromCtx(ctx)
	out := g.Config.Output

	lab, err := kathara.Render(res, g.Config.Kathara.Options())
	if err != nil {
		return err
	}
	if err := lab.Write(out.Dir); err != nil {
		return serrors.JoinNoStack(ErrOutput, err, "dir", out.Dir)
	}
	networks := filepath.Join(out.Dir, registry.NetworksConf)
	if err := util.WriteFile(networks, registry.Networks(res), 0o644); err != nil {
		return serrors.JoinNoStack(ErrOutput, err, "file", networks)
	}
	logger.Info("Wrote lab", "dir", out.Dir, "files", len(lab.Files())+1)

	if out.RegistryDB != "" {
		if err := writeRegistry(ctx, out.RegistryDB, res); err != nil {
			return serrors.JoinNoStack(ErrOutput, err, "file", out.RegistryDB)
		}
		logger.Info("Wrote subnet registry", "file", out.RegistryDB)
	}
	if out.DOT != "" {
		raw, err := dot.Marshal(res)
		if err != nil {
			return err
		}
		if err := util.WriteFile(out.DOT, raw, 0o644); err != nil {
			return serrors.JoinNoStack(ErrOutput, err, "file", out.DOT)
		}
		logger.Info("Wrote router graph", "file", out.DOT)
	}
	return nil
}

func writeRegistry(ctx context.Context, path string, res *topology.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := registry.New(path)
	if err != nil {
		return err
	}
	defer b.Close()
	return b.Insert(ctx, res)
}

// Run loads, builds and writes the lab. The outcome is recorded in the
// metrics, which are exported if configured.
func (g *Generator) Run(ctx context.Context) (*topology.Result, error) {
	res, err := g.run(ctx)
	g.Metrics.ObserveRun(Classify(err))
	if g.Metrics != nil {
		prom.ExportElementID(g.Metrics.Registry, g.Config.General.ID)
		if exportErr := g.Config.Metrics.Export(g.Metrics.Registry); exportErr != nil {
			log.FromCtx(ctx).Error("Exporting metrics failed", "err", exportErr)
		}
	}
	return res, err
}

func (g *Generator) run(ctx context.Context) (*topology.Result, error) {
	recs, err := g.Load(ctx)
	if err != nil {
		return nil, err
	}
	res, err := g.Build(ctx, recs)
	if err != nil {
		return nil, err
	}
	if err := g.Write(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Classify maps the error of a run to a result label.
func Classify(err error) string {
	switch {
	case err == nil:
		return prom.Success
	case errors.Is(err, ErrLoad):
		return prom.ErrParse
	case errors.Is(err, subnet.ErrExhausted):
		return prom.ErrExhausted
	case errors.Is(err, ErrOutput):
		return prom.ErrIO
	case errors.Is(err, topology.ErrDuplicateAS),
		errors.Is(err, topology.ErrUnknownAS),
		errors.Is(err, topology.ErrSelfLink):
		return prom.ErrValidate
	default:
		return prom.ErrInternal
	}
}
