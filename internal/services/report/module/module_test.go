package module

import (
	"path/filepath"
	"testing"

	"mqttreport/internal/modkit"
	"mqttreport/internal/modkit/module"
	"mqttreport/internal/platform/config"
	"mqttreport/internal/services/report/domain"
	"mqttreport/internal/services/report/narrative"
	"mqttreport/internal/services/report/service"
)

func TestNew_OpensIndependentDocuments(t *testing.T) {
	m := New(modkit.Deps{Cfg: config.New()}, FromConfig(config.New()))
	if m.Name() != "report" {
		t.Fatalf("Name() = %q", m.Name())
	}
	docs := module.MustPortsOf[domain.Opener](m)

	n, err := narrative.Default()
	if err != nil {
		t.Fatal(err)
	}
	a := docs.Open(n, "run-a")
	b := docs.Open(n, "run-b")
	if err := a.Finalize(filepath.Join(t.TempDir(), "a.pdf")); err != nil {
		t.Fatalf("Finalize a: %v", err)
	}
	// finalizing one document leaves the other open
	if err := b.AddPage(); err != nil {
		t.Fatalf("AddPage on second document: %v", err)
	}
	if !a.(*service.Document).Finalized() || b.(*service.Document).Finalized() {
		t.Fatalf("documents share state")
	}
}
