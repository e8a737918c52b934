// Package module wires the PDF document from config
package module

import (
	"mqttreport/internal/modkit"
	"mqttreport/internal/services/report/domain"
	"mqttreport/internal/services/report/service"

	"github.com/rs/zerolog"
)

// Ports is the cross-module surface of the report module
type Ports struct {
	Documents domain.Opener
}

// Module hands out one fresh document per run
type Module struct {
	ports Ports
}

// New builds the report module
func New(deps modkit.Deps, opts service.Options) *Module {
	return &Module{ports: Ports{Documents: opener{opts: opts, log: deps.Log}}}
}

// Name implements module.Module
func (m *Module) Name() string { return "report" }

// Ports implements module.Module
func (m *Module) Ports() any { return m.ports }

type opener struct {
	opts service.Options
	log  zerolog.Logger
}

func (o opener) Open(n domain.Narrative, runID string) domain.DocumentPort {
	opts := o.opts
	opts.RunID = runID
	return service.New(opts, n, o.log)
}
