package main

import (
	"bytes"
	"testing"

	perr "mqttreport/internal/platform/errors"
	kit "mqttreport/internal/platform/testkit"
	chartsdom "mqttreport/internal/services/charts/domain"
	"mqttreport/internal/services/pipeline/domain"
)

func outcomes(failed ...chartsdom.Artifact) []chartsdom.Outcome {
	var out []chartsdom.Outcome
	for _, a := range chartsdom.Artifacts() {
		o := chartsdom.Outcome{Artifact: a, Status: chartsdom.StatusProduced}
		for _, f := range failed {
			if f.ID == a.ID {
				o.Status = chartsdom.StatusSkipped
				o.Err = perr.Validationf("could not extract hours from timestamp")
			}
		}
		out = append(out, o)
	}
	return out
}

func TestPrintSummary(t *testing.T) {
	cases := []struct {
		name    string
		sum     domain.Summary
		err     error
		want    []string
		notWant string
	}{
		{
			name: "success",
			sum:  domain.Summary{RunID: "r1", Rows: 12345, Outcomes: outcomes(), Output: "Professional_Report.pdf", Embedded: 5},
			want: []string{"SUCCESS! Report generated: Professional_Report.pdf", "rows: 12,345", "charts: 5/5", "run: r1"},
		},
		{
			name:    "success with a skipped chart",
			sum:     domain.Summary{Rows: 3, Outcomes: outcomes(chartsdom.FigTime), Output: "r.pdf", Embedded: 4},
			want:    []string{"fig5_time.png skipped: could not extract hours", "charts: 4/5"},
			notWant: "Error",
		},
		{
			name:    "missing input",
			err:     perr.NotFoundf("input not found"),
			want:    []string{"Could not find 'capture.csv'"},
			notWant: "SUCCESS",
		},
		{
			name: "bad option",
			err:  perr.WithField(perr.New(perr.ErrorCodeInvalidArgument, "invalid options: OUTPUT_PDF must end with .pdf"), "OUTPUT_PDF"),
			want: []string{"bad option OUTPUT_PDF"},
		},
		{
			name: "save failure",
			sum:  domain.Summary{Outcomes: outcomes()},
			err:  perr.WithOp(perr.New(perr.ErrorCodeIO, "save out.pdf"), "finalize"),
			want: []string{"Error saving PDF: save out.pdf"},
		},
		{
			name: "other",
			err:  perr.Decodef("line 3: bad qos"),
			want: []string{"Error processing data: line 3: bad qos"},
		},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		printSummary(&buf, "capture.csv", c.sum, c.err)
		out := buf.String()
		for _, w := range c.want {
			kit.MustContain(t, out, w)
		}
		if c.notWant != "" {
			kit.MustNotContain(t, out, c.notWant)
		}
	}
}
