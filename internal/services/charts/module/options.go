package module

import (
	"mqttreport/internal/platform/config"
	"mqttreport/internal/services/charts/service"
)

// FromConfig reads renderer options from config with the REPORT_ prefix
func FromConfig(cfg config.Conf) service.Options {
	c := cfg.Prefix("REPORT_")
	return service.Options{
		Dir:    c.MayString("CHART_DIR", "."),
		Width:  c.MayInt("CHART_WIDTH", 1500),
		Height: c.MayInt("CHART_HEIGHT", 750),
		DPI:    c.MayFloat64("CHART_DPI", 150),
	}
}
