// Package service drives one run: load, render charts, assemble, finalize
package service

import (
	"context"

	"mqttreport/internal/core/traffic"
	perr "mqttreport/internal/platform/errors"
	"mqttreport/internal/platform/validate"
	chartsdom "mqttreport/internal/services/charts/domain"
	chartssvc "mqttreport/internal/services/charts/service"
	"mqttreport/internal/services/pipeline/domain"
	reportdom "mqttreport/internal/services/report/domain"
	reportsvc "mqttreport/internal/services/report/service"

	"github.com/rs/zerolog"
)

// Options configures a run
type Options struct {
	CSVFile   string `env:"CSV_FILE" validate:"required"`
	OutputPDF string `env:"OUTPUT_PDF" validate:"required,ext=.pdf"`
	Charts    chartssvc.Options
	Document  reportsvc.Options
}

// seam
var loadTable = traffic.Load

// Runner implements domain.RunnerPort
type Runner struct {
	opts     Options
	runID    string
	narr     reportdom.Narrative
	renderer chartsdom.RendererPort
	docs     reportdom.Opener
	log      zerolog.Logger
}

var _ domain.RunnerPort = (*Runner)(nil)

// New builds a Runner for a single run id
func New(opts Options, runID string, n reportdom.Narrative, renderer chartsdom.RendererPort, docs reportdom.Opener, log zerolog.Logger) *Runner {
	return &Runner{opts: opts, runID: runID, narr: n, renderer: renderer, docs: docs, log: log}
}

// Run executes the stages in order. Only bad options, a failed load and a
// failed finalize are returned as errors; chart and embed failures are
// recorded in the summary and logged
func (r *Runner) Run(ctx context.Context) (domain.Summary, error) {
	sum := domain.Summary{RunID: r.runID, Output: r.opts.OutputPDF}

	if err := validate.Struct(r.opts); err != nil {
		return sum, perr.WithOp(invalidOptions(err), "pipeline")
	}

	t, err := loadTable(r.opts.CSVFile)
	if err != nil {
		r.log.Error().Err(err).Str("csv", r.opts.CSVFile).Msg("could not load data")
		return sum, err
	}
	sum.Rows = t.Len()
	r.log.Info().Str("csv", r.opts.CSVFile).Int("rows", sum.Rows).Strs("columns", t.Columns()).Msg("data loaded")

	if err := ctx.Err(); err != nil {
		return sum, perr.Wrap(err, perr.ErrorCodeUnknown, "run cancelled")
	}
	sum.Outcomes = r.renderer.RenderAll(t)

	if err := ctx.Err(); err != nil {
		return sum, perr.Wrap(err, perr.ErrorCodeUnknown, "run cancelled")
	}
	doc := r.docs.Open(r.narr, r.runID)
	if sum.Embedded, err = reportsvc.Assemble(doc, r.narr, r.opts.Charts.Dir); err != nil {
		return sum, err
	}
	if err := doc.Finalize(r.opts.OutputPDF); err != nil {
		r.log.Error().Err(err).Str("output", r.opts.OutputPDF).Msg("could not save report")
		return sum, err
	}

	r.log.Info().
		Str("output", r.opts.OutputPDF).
		Int("charts", sum.Produced()).
		Int("embedded", sum.Embedded).
		Int("failed", len(sum.Failures())).
		Msg("run complete")
	return sum, nil
}

// invalidOptions recodes a validation failure on options as a bad argument
func invalidOptions(err error) error {
	e, ok := perr.As(err)
	if !ok {
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "invalid options")
	}
	return perr.WithField(perr.InvalidArgf("invalid options: %s", e.Message()), e.Field())
}
