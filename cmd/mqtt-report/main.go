// Command mqtt-report turns a captured MQTT traffic CSV into charts and a PDF report
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"mqttreport/internal/core/version"
	"mqttreport/internal/modkit"
	"mqttreport/internal/platform/config"
	perr "mqttreport/internal/platform/errors"
	"mqttreport/internal/platform/logger"

	pipelinemod "mqttreport/internal/services/pipeline/module"

	"github.com/google/uuid"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func must(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(perr.Exit(err))
	}
}

func main() {
	var (
		fCSV     = flag.String("csv", "", "captured traffic CSV (REPORT_CSV_FILE)")
		fOut     = flag.String("out", "", "output PDF path (REPORT_OUTPUT_PDF)")
		fCharts  = flag.String("charts", "", "directory for chart PNGs (REPORT_CHART_DIR)")
		fWidthMM = flag.String("image-width", "", "embedded image width in mm (REPORT_IMAGE_WIDTH_MM)")
		fPage    = flag.String("page", "", "page size A4 | Letter (REPORT_PAGE_SIZE)")
		fVersion = flag.Bool("version", false, "print build info and exit")
	)
	flag.Parse()

	info := version.Info()
	if *fVersion {
		fmt.Println(info.String())
		return
	}

	// flags win over env; modules only read config
	mustSetEnv("REPORT_CSV_FILE", *fCSV)
	mustSetEnv("REPORT_OUTPUT_PDF", *fOut)
	mustSetEnv("REPORT_CHART_DIR", *fCharts)
	mustSetEnv("REPORT_IMAGE_WIDTH_MM", *fWidthMM)
	mustSetEnv("REPORT_PAGE_SIZE", *fPage)

	root := config.New()
	l := logger.Get()
	ctx := logger.WithRun(context.Background(), uuid.NewString())
	logger.C(ctx).Info().Str("version", info.Version).Str("commit", info.Commit).Msg("mqtt-report starting")

	opts := pipelinemod.FromConfig(root)
	opts.Document.Creator = info.String()

	sum, err := pipelinemod.Run(ctx, modkit.Deps{Log: *l, Cfg: root}, opts)
	printSummary(os.Stdout, opts.CSVFile, sum, err)
	must(err)
}
