package main

import (
	"fmt"
	"io"

	perr "mqttreport/internal/platform/errors"
	"mqttreport/internal/services/pipeline/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printSummary writes the end-of-run banner, or one line per failed stage
func printSummary(w io.Writer, csvFile string, sum domain.Summary, err error) {
	p := message.NewPrinter(language.English)

	if err != nil {
		switch e, _ := perr.As(err); {
		case perr.IsCode(err, perr.ErrorCodeNotFound):
			p.Fprintf(w, "\n❌ Error: Could not find '%s'. Please make sure it is in the same folder.\n", csvFile)
		case perr.IsCode(err, perr.ErrorCodeInvalidArgument) && e != nil && e.Field() != "":
			p.Fprintf(w, "\n❌ Error: bad option %s: %s\n", e.Field(), e.Message())
		case e != nil && e.Op() == "finalize":
			p.Fprintf(w, "\n❌ Error saving PDF: %v\n", err)
		default:
			p.Fprintf(w, "\n❌ Error processing data: %v\n", err)
		}
	}

	for _, o := range sum.Failures() {
		p.Fprintf(w, "⚠  %s %s: %v\n", o.Artifact.File, o.Status, o.Err)
	}
	if err != nil {
		return
	}

	p.Fprintf(w, "\n✅ SUCCESS! Report generated: %s\n", sum.Output)
	p.Fprintf(w, "   rows: %d  charts: %d/%d  embedded: %d  run: %s\n",
		sum.Rows, sum.Produced(), len(sum.Outcomes), sum.Embedded, sum.RunID)
	_, _ = fmt.Fprintln(w, "Now you can upload this PDF to LinkedIn!")
}
