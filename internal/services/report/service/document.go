// Package service lays out the report as a paginated PDF
package service

import (
	stderrs "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	perr "mqttreport/internal/platform/errors"
	"mqttreport/internal/services/report/domain"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
)

// Options configures the document
type Options struct {
	ImageWidthMM float64 `env:"IMAGE_WIDTH_MM" validate:"min=10,max=190"`
	PageSize     string  `env:"PAGE_SIZE" validate:"oneof=A4 Letter a4 letter"`
	RunID        string
	Creator      string
}

// ErrFinalized is returned by every mutation after Finalize
var ErrFinalized = perr.New(perr.ErrorCodeFinalized, "document already finalized")

type state uint8

const (
	stateOpen state = iota
	stateFinalized
)

// seams
var (
	statFile   = os.Stat
	createTemp = os.CreateTemp
	renameFile = os.Rename
)

// Document accumulates pages until Finalize writes them once
type Document struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	opts   Options
	log    zerolog.Logger
	state  state
	layout []string
}

var _ domain.DocumentPort = (*Document)(nil)

// New opens a document whose every page carries the narrative header and author line
func New(opts Options, n domain.Narrative, log zerolog.Logger) *Document {
	pdf := fpdf.New("P", "mm", opts.PageSize, "")
	d := &Document{
		pdf:  pdf,
		tr:   pdf.UnicodeTranslatorFromDescriptor(""),
		opts: opts,
		log:  log.With().Str("component", "report").Logger(),
	}

	pdf.SetTitle(n.Header, true)
	pdf.SetAuthor(n.Author, true)
	pdf.SetCreator(opts.Creator, true)
	if opts.RunID != "" {
		pdf.SetKeywords("run:"+opts.RunID, false)
	}

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, d.tr(n.Header), "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 10, d.tr(n.Author), "", 1, "C", false, 0, "")
		pdf.Ln(10)
	})
	return d
}

// Layout returns the operations applied so far, in order
func (d *Document) Layout() []string { return append([]string(nil), d.layout...) }

// Finalized reports whether the document has been written
func (d *Document) Finalized() bool { return d.state == stateFinalized }

// AddPage begins a new page
func (d *Document) AddPage() error {
	if d.state != stateOpen {
		return ErrFinalized
	}
	d.pdf.AddPage()
	d.layout = append(d.layout, "page")
	return nil
}

// AddSection appends a filled heading band and a body paragraph wrapped to the margins
func (d *Document) AddSection(title, body string) error {
	if d.state != stateOpen {
		return ErrFinalized
	}
	d.pdf.SetFont("Arial", "B", 12)
	d.pdf.SetFillColor(200, 220, 255)
	d.pdf.CellFormat(0, 10, d.tr(title), "", 1, "L", true, 0, "")
	d.pdf.Ln(4)

	d.pdf.SetFont("Arial", "", 11)
	d.pdf.MultiCell(0, 6, d.tr(body), "", "", false)
	d.pdf.Ln(-1)

	d.layout = append(d.layout, "section:"+title)
	return nil
}

// AddImageIfPresent embeds path at the configured width. A missing file is
// noted and an embed failure is warned about; neither stops the document
func (d *Document) AddImageIfPresent(path string) (bool, error) {
	if d.state != stateOpen {
		return false, ErrFinalized
	}
	name := filepath.Base(path)
	log := d.log.With().Str("image", path).Logger()

	if _, err := statFile(path); err != nil {
		if stderrs.Is(err, fs.ErrNotExist) {
			log.Info().Msg("image not found")
		} else {
			log.Warn().Err(err).Msg("image not readable")
		}
		d.layout = append(d.layout, "missing:"+name)
		return false, nil
	}

	d.pdf.ImageOptions(path, d.pdf.GetX(), 0, d.opts.ImageWidthMM, 0, true, fpdf.ImageOptions{}, 0, "")
	if d.pdf.Err() {
		err := d.pdf.Error()
		d.pdf.ClearError()
		log.Warn().Err(err).Msg("error adding image")
		d.layout = append(d.layout, "failed:"+name)
		return false, nil
	}
	d.pdf.Ln(10)
	d.layout = append(d.layout, "image:"+name)
	return true, nil
}

// Finalize writes the document to outputPath. The document is finalized
// whether or not the write succeeds. The bytes go to a temp file beside
// outputPath that is renamed into place, so a failed save leaves whatever was
// at outputPath untouched
func (d *Document) Finalize(outputPath string) error {
	if d.state != stateOpen {
		return ErrFinalized
	}
	d.state = stateFinalized

	if d.pdf.Err() {
		return perr.WithOp(perr.Wrap(d.pdf.Error(), perr.ErrorCodeRender, "layout document"), "finalize")
	}
	if err := perr.WrapIf(d.save(outputPath), perr.ErrorCodeIO, "save "+outputPath); err != nil {
		return perr.WithOp(err, "finalize")
	}
	d.log.Info().Str("path", outputPath).Int("pages", d.pdf.PageCount()).Msg("report written")
	return nil
}

func (d *Document) save(path string) error {
	if fi, err := statFile(path); err == nil && fi.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	f, err := createTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()

	err = d.pdf.Output(f)
	err = stderrs.Join(err, f.Chmod(0o644), f.Close())
	if err == nil {
		err = renameFile(tmp, path)
	}
	if err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil && !stderrs.Is(rmErr, fs.ErrNotExist) {
			d.log.Warn().Err(rmErr).Str("path", tmp).Msg("could not remove temp output")
		}
		return err
	}
	return nil
}
