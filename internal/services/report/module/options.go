package module

import (
	"mqttreport/internal/platform/config"
	"mqttreport/internal/services/report/service"
)

// FromConfig reads document options from config with the REPORT_ prefix
func FromConfig(cfg config.Conf) service.Options {
	c := cfg.Prefix("REPORT_")
	return service.Options{
		ImageWidthMM: c.MayFloat64("IMAGE_WIDTH_MM", 170),
		PageSize:     c.MayEnum("PAGE_SIZE", "A4", "A4", "Letter"),
	}
}
