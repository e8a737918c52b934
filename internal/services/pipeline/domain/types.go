// Package domain holds the run summary of one report pipeline run
package domain

import (
	"context"

	chartsdom "mqttreport/internal/services/charts/domain"
)

// Summary describes what one run produced
type Summary struct {
	RunID    string
	Rows     int
	Outcomes []chartsdom.Outcome
	Output   string
	Embedded int
}

// Produced counts the charts written to disk
func (s Summary) Produced() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Produced() {
			n++
		}
	}
	return n
}

// Failures returns the outcomes that did not produce a file, in artifact order
func (s Summary) Failures() []chartsdom.Outcome {
	var out []chartsdom.Outcome
	for _, o := range s.Outcomes {
		if !o.Produced() {
			out = append(out, o)
		}
	}
	return out
}

// RunnerPort runs the pipeline once
type RunnerPort interface {
	Run(ctx context.Context) (Summary, error)
}
