// Package narrative decodes the report's fixed text
package narrative

import (
	"bytes"
	_ "embed"
	"io"
	"strings"

	perr "mqttreport/internal/platform/errors"
	"mqttreport/internal/platform/validate"
	"mqttreport/internal/services/report/domain"

	"gopkg.in/yaml.v3"
)

//go:embed narrative.yaml
var embedded []byte

// Default returns the narrative compiled into the binary
func Default() (domain.Narrative, error) {
	return Decode(bytes.NewReader(embedded))
}

// Decode reads a narrative document; unknown keys are rejected
func Decode(r io.Reader) (domain.Narrative, error) {
	var n domain.Narrative
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&n); err != nil {
		return domain.Narrative{}, perr.WithOp(perr.Wrap(err, perr.ErrorCodeDecode, "decode narrative"), "narrative")
	}
	n.Header = strings.TrimSpace(n.Header)
	n.Author = strings.TrimSpace(n.Author)
	for i := range n.Sections {
		n.Sections[i].Title = strings.TrimSpace(n.Sections[i].Title)
		n.Sections[i].Body = strings.TrimSpace(n.Sections[i].Body)
	}
	if err := validate.Struct(n); err != nil {
		return domain.Narrative{}, perr.WithOp(err, "narrative")
	}
	return n, nil
}
