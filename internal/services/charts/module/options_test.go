package module

import (
	"testing"

	"mqttreport/internal/platform/config"
)

func TestFromConfig_Defaults(t *testing.T) {
	o := FromConfig(config.New())
	if o.Dir != "." || o.Width != 1500 || o.Height != 750 || o.DPI != 150 {
		t.Fatalf("defaults mismatch: %+v", o)
	}
}

func TestFromConfig_Env(t *testing.T) {
	t.Setenv("REPORT_CHART_DIR", "/tmp/charts")
	t.Setenv("REPORT_CHART_WIDTH", "800")
	t.Setenv("REPORT_CHART_HEIGHT", "400")
	t.Setenv("REPORT_CHART_DPI", "96")
	o := FromConfig(config.New())
	if o.Dir != "/tmp/charts" || o.Width != 800 || o.Height != 400 || o.DPI != 96 {
		t.Fatalf("env mismatch: %+v", o)
	}
}
