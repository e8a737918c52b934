// Package module composes the charts and report modules into a runnable pipeline
package module

import (
	"context"

	"mqttreport/internal/modkit"
	"mqttreport/internal/modkit/module"
	"mqttreport/internal/platform/logger"
	chartsdom "mqttreport/internal/services/charts/domain"
	chartsmod "mqttreport/internal/services/charts/module"
	"mqttreport/internal/services/pipeline/domain"
	"mqttreport/internal/services/pipeline/service"
	reportdom "mqttreport/internal/services/report/domain"
	reportmod "mqttreport/internal/services/report/module"
	"mqttreport/internal/services/report/narrative"

	"github.com/google/uuid"
)

// Ports is the cross-module surface of the pipeline module
type Ports struct {
	Runner domain.RunnerPort
}

// Module is one configured run
type Module struct {
	runID string
	ports Ports
}

// seams
var (
	newRunID         = uuid.NewString
	defaultNarrative = narrative.Default
)

// New wires one run. The run id comes from ctx when set, otherwise a new one
// is minted; every component logs it
func New(ctx context.Context, deps modkit.Deps, opts service.Options) (*Module, error) {
	runID := logger.RunID(ctx)
	if runID == "" {
		runID = newRunID()
	}
	deps.Log = deps.Log.With().Str("run_id", runID).Logger()

	n, err := defaultNarrative()
	if err != nil {
		return nil, err
	}

	chartOpts := opts.Charts
	chartOpts.CodeSnippet = n.CodeSnippet
	opts.Charts = chartOpts

	cm := chartsmod.New(deps, chartOpts)
	rm := reportmod.New(deps, opts.Document)

	r := service.New(
		opts,
		runID,
		n,
		module.MustPortsOf[chartsdom.RendererPort](cm),
		module.MustPortsOf[reportdom.Opener](rm),
		deps.Named("pipeline"),
	)
	return &Module{runID: runID, ports: Ports{Runner: r}}, nil
}

// Name implements module.Module
func (m *Module) Name() string { return "pipeline" }

// Ports implements module.Module
func (m *Module) Ports() any { return m.ports }

// RunID returns the id stamped on this run's logs and document
func (m *Module) RunID() string { return m.runID }

// Run wires and executes a single run
func Run(ctx context.Context, deps modkit.Deps, opts service.Options) (domain.Summary, error) {
	m, err := New(ctx, deps, opts)
	if err != nil {
		return domain.Summary{}, err
	}
	return module.MustPortsOf[domain.RunnerPort](m).Run(ctx)
}
