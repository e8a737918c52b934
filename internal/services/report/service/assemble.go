package service

import (
	"path/filepath"

	perr "mqttreport/internal/platform/errors"
	chartsdom "mqttreport/internal/services/charts/domain"
	"mqttreport/internal/services/report/domain"
)

// step is one fixed layout instruction
type step struct {
	newPage bool
	section int // index into Narrative.Sections, -1 for none
	images  []chartsdom.Artifact
}

// layout is the design-time order of pages, sections and figures
var layout = []step{
	{newPage: true, section: -1},
	{section: 0},
	{section: 1, images: []chartsdom.Artifact{chartsdom.FigCode}},
	{section: 2, images: []chartsdom.Artifact{chartsdom.FigBroker}},
	{newPage: true, section: -1},
	{section: 3, images: []chartsdom.Artifact{chartsdom.FigPayload, chartsdom.FigQoS}},
	{section: 4, images: []chartsdom.Artifact{chartsdom.FigTime}},
	{section: 5},
}

// Assemble drives doc through the fixed layout, looking for chart files in chartDir.
// Only a finalized document or a short narrative stops it
func Assemble(doc domain.DocumentPort, n domain.Narrative, chartDir string) (embedded int, err error) {
	if len(n.Sections) < domain.SectionCount {
		return 0, perr.WithOp(perr.Validationf("narrative has %d sections, want %d", len(n.Sections), domain.SectionCount), "assemble")
	}
	for _, s := range layout {
		if s.newPage {
			if err := doc.AddPage(); err != nil {
				return embedded, err
			}
		}
		if s.section >= 0 {
			sec := n.Sections[s.section]
			if err := doc.AddSection(sec.Title, sec.Body); err != nil {
				return embedded, err
			}
		}
		for _, a := range s.images {
			ok, err := doc.AddImageIfPresent(filepath.Join(chartDir, a.File))
			if err != nil {
				return embedded, err
			}
			if ok {
				embedded++
			}
		}
	}
	return embedded, nil
}
