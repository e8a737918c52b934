// Package module wires the chart renderer from config
package module

import (
	"mqttreport/internal/modkit"
	"mqttreport/internal/services/charts/domain"
	"mqttreport/internal/services/charts/service"
)

// Ports is the cross-module surface of the charts module
type Ports struct {
	Renderer domain.RendererPort
}

// Module owns one renderer configured for a run
type Module struct {
	ports Ports
}

// New builds the charts module. opts usually come from FromConfig with the
// code figure text filled in by the caller
func New(deps modkit.Deps, opts service.Options) *Module {
	return &Module{ports: Ports{Renderer: service.New(opts, deps.Log)}}
}

// Name implements module.Module
func (m *Module) Name() string { return "charts" }

// Ports implements module.Module
func (m *Module) Ports() any { return m.ports }
