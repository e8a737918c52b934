package module

import (
	"mqttreport/internal/platform/config"
	chartsmod "mqttreport/internal/services/charts/module"
	"mqttreport/internal/services/pipeline/service"
	reportmod "mqttreport/internal/services/report/module"
)

// FromConfig reads run options from config with the REPORT_ prefix
func FromConfig(cfg config.Conf) service.Options {
	c := cfg.Prefix("REPORT_")
	return service.Options{
		CSVFile:   c.MayString("CSV_FILE", "mqtt_captured_data.csv"),
		OutputPDF: c.MayString("OUTPUT_PDF", "Professional_Report.pdf"),
		Charts:    chartsmod.FromConfig(cfg),
		Document:  reportmod.FromConfig(cfg),
	}
}
