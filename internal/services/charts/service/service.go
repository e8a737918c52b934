// Package service renders the report's chart artifacts to PNG files, each
// one isolated from the failures of the others
package service

import (
	stderrs "errors"
	"io/fs"
	"os"
	"path/filepath"

	"mqttreport/internal/core/traffic"
	perr "mqttreport/internal/platform/errors"
	"mqttreport/internal/services/charts/domain"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Options configures the renderer
type Options struct {
	Dir         string  `env:"CHART_DIR" validate:"required"`
	Width       int     `env:"CHART_WIDTH" validate:"min=400,max=4000"`
	Height      int     `env:"CHART_HEIGHT" validate:"min=200,max=3000"`
	DPI         float64 `env:"CHART_DPI" validate:"min=50,max=600"`
	CodeSnippet string  // body of Figure 1; empty skips it
}

// seams
var (
	writeFile = os.WriteFile
	removeFile = os.Remove
)

// Renderer implements domain.RendererPort
type Renderer struct {
	opts    Options
	log     zerolog.Logger
	printer *message.Printer
}

var _ domain.RendererPort = (*Renderer)(nil)

// New builds a Renderer
func New(opts Options, log zerolog.Logger) *Renderer {
	return &Renderer{
		opts:    opts,
		log:     log.With().Str("component", "charts").Logger(),
		printer: message.NewPrinter(language.English),
	}
}

type figure struct {
	artifact domain.Artifact
	render   func(t *traffic.Table) ([]byte, error)
}

func (r *Renderer) figures() []figure {
	return []figure{
		{domain.FigCode, r.codeFigure},
		{domain.FigBroker, r.brokerVolume},
		{domain.FigPayload, r.payloadByBroker},
		{domain.FigQoS, r.qosAndRetain},
		{domain.FigTime, r.hourly},
	}
}

// RenderAll attempts every artifact in order. It never returns early: each
// outcome is independent and the caller decides what to do with them
func (r *Renderer) RenderAll(t *traffic.Table) []domain.Outcome {
	if err := os.MkdirAll(r.opts.Dir, 0o755); err != nil {
		r.log.Warn().Err(err).Str("dir", r.opts.Dir).Msg("could not create chart directory")
	}
	figs := r.figures()
	out := make([]domain.Outcome, 0, len(figs))
	for _, f := range figs {
		out = append(out, r.attempt(f, t))
	}
	return out
}

func (r *Renderer) attempt(f figure, t *traffic.Table) (o domain.Outcome) {
	path := filepath.Join(r.opts.Dir, f.artifact.File)
	o = domain.Outcome{Artifact: f.artifact, Path: path}
	log := r.log.With().Str("artifact", f.artifact.File).Logger()

	defer func() {
		if rec := recover(); rec != nil {
			_ = removeFile(path)
			o.Status = domain.StatusFailed
			o.Bytes = 0
			o.Err = perr.PanicErrf("render %s panicked: %v", f.artifact.ID, rec)
			log.Warn().Err(o.Err).Msg("could not generate chart")
		}
	}()

	// a file left by an earlier run must not pass for this run's output
	if err := removeFile(path); err != nil && !stderrs.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not remove stale chart")
	}

	b, err := f.render(t)
	switch {
	case stderrs.Is(err, domain.ErrSkip):
		o.Status = domain.StatusSkipped
		o.Err = err
		log.Warn().Err(err).Msg("skipping chart")
		return o
	case err != nil:
		o.Status = domain.StatusFailed
		o.Err = perr.WithOp(perr.Wrapf(err, perr.ErrorCodeRender, "render %s", f.artifact.ID), "charts")
		log.Warn().Err(o.Err).Msg("could not generate chart")
		return o
	case len(b) == 0:
		o.Status = domain.StatusFailed
		o.Err = perr.Renderf("render %s produced no bytes", f.artifact.ID)
		log.Warn().Err(o.Err).Msg("could not generate chart")
		return o
	}

	if err := writeFile(path, b, 0o644); err != nil {
		_ = removeFile(path)
		o.Status = domain.StatusFailed
		o.Err = perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "write %s", path), "charts")
		log.Warn().Err(o.Err).Msg("could not save chart")
		return o
	}

	o.Status = domain.StatusProduced
	o.Bytes = len(b)
	log.Info().Int("bytes", len(b)).Msg("chart saved")
	return o
}

// skip wraps domain.ErrSkip with a reason
func skip(reason string) error {
	return perr.Wrap(domain.ErrSkip, perr.ErrorCodeValidation, reason)
}

// count formats n with grouped thousands
func (r *Renderer) count(n int) string { return r.printer.Sprintf("%d", n) }
