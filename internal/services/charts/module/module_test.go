package module

import (
	"testing"

	"mqttreport/internal/modkit"
	"mqttreport/internal/modkit/module"
	"mqttreport/internal/services/charts/domain"
)

func TestNew_ExposesRenderer(t *testing.T) {
	m := New(modkit.Deps{}, FromConfig(modkit.Deps{}.Cfg))
	if m.Name() != "charts" {
		t.Fatalf("Name() = %q", m.Name())
	}
	if _, ok := module.PortsOf[domain.RendererPort](m); !ok {
		t.Fatalf("renderer port not exposed")
	}
}
