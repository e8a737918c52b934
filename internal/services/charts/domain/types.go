// Package domain holds the chart artifact catalogue and per-artifact outcomes
package domain

import (
	"errors"

	"mqttreport/internal/core/traffic"
)

// Artifact is one fixed chart image
type Artifact struct {
	ID    string
	File  string
	Title string
}

// The fixed artifact set, in render order
var (
	FigCode    = Artifact{ID: "code", File: "fig1_code.png", Title: "Figure 1: Core Multi-broker Logger"}
	FigBroker  = Artifact{ID: "broker", File: "fig2_broker.png", Title: "Figure 2: Messages Received per Broker (Traffic Volume)"}
	FigPayload = Artifact{ID: "payload", File: "fig3_payload.png", Title: "Figure 3: Payload Type Distribution per Broker"}
	FigQoS     = Artifact{ID: "qos", File: "fig4_qos.png", Title: "Figure 4: QoS Usage and Retained Messages"}
	FigTime    = Artifact{ID: "time", File: "fig5_time.png", Title: "Figure 5: Hourly Traffic Distribution"}
)

// Artifacts lists every artifact in render order
func Artifacts() []Artifact {
	return []Artifact{FigCode, FigBroker, FigPayload, FigQoS, FigTime}
}

// Status is the result class of one render attempt
type Status uint8

const (
	// StatusProduced means the file was written
	StatusProduced Status = iota + 1
	// StatusSkipped means there was nothing to draw
	StatusSkipped
	// StatusFailed means rendering or writing failed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusProduced:
		return "produced"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrSkip marks a render that had no data to draw; wrap it with the reason
var ErrSkip = errors.New("skipped")

// Outcome reports what happened to one artifact
type Outcome struct {
	Artifact Artifact
	Path     string
	Status   Status
	Bytes    int
	Err      error
}

// Produced reports whether the artifact file exists after the attempt
func (o Outcome) Produced() bool { return o.Status == StatusProduced }

// RendererPort renders every artifact independently for a table
type RendererPort interface {
	RenderAll(t *traffic.Table) []Outcome
}
