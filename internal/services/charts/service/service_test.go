package service

import (
	"bytes"
	stderrs "errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"mqttreport/internal/core/traffic"
	perr "mqttreport/internal/platform/errors"
	kit "mqttreport/internal/platform/testkit"
	"mqttreport/internal/services/charts/domain"

	"github.com/rs/zerolog"
)

const snippet = "for _, b := range brokers {\n    go capture(b)\n}"

func scenario() *traffic.Table {
	return traffic.NewTable([]traffic.Record{
		{Broker: "A", QoS: 0, Retain: false, PayloadType: "JSON", Timestamp: "10:00:00"},
		{Broker: "A", QoS: 0, Retain: true, PayloadType: "Numeric", Timestamp: "10:05:00"},
		{Broker: "B", QoS: 0, Retain: false, PayloadType: "JSON", Timestamp: "bad"},
	})
}

func newTestRenderer(t *testing.T) (*Renderer, *bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	dir := t.TempDir()
	r := New(Options{Dir: dir, Width: 600, Height: 300, DPI: 92, CodeSnippet: snippet}, zerolog.New(&buf))
	return r, &buf, dir
}

func byID(outs []domain.Outcome) map[string]domain.Outcome {
	m := make(map[string]domain.Outcome, len(outs))
	for _, o := range outs {
		m[o.Artifact.ID] = o
	}
	return m
}

// every produced artifact is a non-empty decodable PNG; every other one is
// absent and was warned about
func assertArtifactContract(t *testing.T, outs []domain.Outcome, logs string) {
	t.Helper()
	for _, o := range outs {
		if o.Produced() {
			if size, _ := kit.AssertPNG(t, o.Path); int64(o.Bytes) != size {
				t.Fatalf("%s: bytes=%d size=%d", o.Artifact.File, o.Bytes, size)
			}
			continue
		}
		if _, err := os.Stat(o.Path); err == nil {
			t.Fatalf("%s: status %s but file exists", o.Artifact.File, o.Status)
		}
		if o.Err == nil {
			t.Fatalf("%s: status %s without error", o.Artifact.File, o.Status)
		}
		kit.MustContain(t, logs, `"artifact":"`+o.Artifact.File+`"`)
		kit.MustContain(t, logs, `"level":"warn"`)
	}
}

func TestRenderAll_ScenarioProducesEverything(t *testing.T) {
	r, buf, dir := newTestRenderer(t)
	outs := r.RenderAll(scenario())

	if len(outs) != len(domain.Artifacts()) {
		t.Fatalf("outcomes = %d, want %d", len(outs), len(domain.Artifacts()))
	}
	for i, a := range domain.Artifacts() {
		if outs[i].Artifact != a {
			t.Fatalf("outcome %d = %s, want %s", i, outs[i].Artifact.ID, a.ID)
		}
		if outs[i].Path != filepath.Join(dir, a.File) {
			t.Fatalf("path = %s", outs[i].Path)
		}
		if !outs[i].Produced() {
			t.Fatalf("%s: %s (%v)", a.File, outs[i].Status, outs[i].Err)
		}
	}
	assertArtifactContract(t, outs, buf.String())
}

func TestRenderAll_NoParsableTimestampsSkipsHistogramOnly(t *testing.T) {
	r, buf, dir := newTestRenderer(t)
	stale := filepath.Join(dir, domain.FigTime.File)
	if err := os.WriteFile(stale, []byte("old run"), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl := traffic.NewTable([]traffic.Record{
		{Broker: "A", PayloadType: "JSON", Timestamp: "not-a-time"},
		{Broker: "B", PayloadType: "Text", Timestamp: "25:00:00"},
	})
	outs := byID(r.RenderAll(tbl))

	o := outs[domain.FigTime.ID]
	if o.Status != domain.StatusSkipped || !stderrs.Is(o.Err, domain.ErrSkip) {
		t.Fatalf("histogram = %s (%v), want skipped", o.Status, o.Err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale histogram should be removed, stat=%v", err)
	}
	for _, id := range []string{"code", "broker", "payload", "qos"} {
		if !outs[id].Produced() {
			t.Fatalf("%s should still render: %s (%v)", id, outs[id].Status, outs[id].Err)
		}
	}
	kit.MustContain(t, buf.String(), "could not extract hours from timestamp")
	assertArtifactContract(t, r.RenderAll(tbl), buf.String())
}

func TestRenderAll_MissingColumnsFailLocally(t *testing.T) {
	r, buf, _ := newTestRenderer(t)
	tbl := traffic.NewTable([]traffic.Record{
		{Broker: "A", Timestamp: "23:00:00"},
		{Broker: "A", Timestamp: "23:10:00"},
	}, traffic.ColBroker, traffic.ColTimestamp)

	outs := r.RenderAll(tbl)
	m := byID(outs)
	for _, id := range []string{"payload", "qos"} {
		if m[id].Status != domain.StatusFailed {
			t.Fatalf("%s = %s, want failed", id, m[id].Status)
		}
		if !perr.IsCode(perr.Root(m[id].Err), perr.ErrorCodeValidation) && !strings.Contains(m[id].Err.Error(), "missing column") {
			t.Fatalf("%s err = %v", id, m[id].Err)
		}
	}
	for _, id := range []string{"code", "broker", "time"} {
		if !m[id].Produced() {
			t.Fatalf("%s should render: %s (%v)", id, m[id].Status, m[id].Err)
		}
	}
	assertArtifactContract(t, outs, buf.String())
}

func TestRenderAll_WriteFailureIsIsolated(t *testing.T) {
	kit.Serial(t)
	r, buf, _ := newTestRenderer(t)
	kit.Swap(t, &writeFile, func(name string, b []byte, perm os.FileMode) error {
		if filepath.Base(name) == domain.FigBroker.File {
			return stderrs.New("disk full")
		}
		return os.WriteFile(name, b, perm)
	})

	outs := r.RenderAll(scenario())
	m := byID(outs)
	if m["broker"].Status != domain.StatusFailed || !perr.IsCode(m["broker"].Err, perr.ErrorCodeIO) {
		t.Fatalf("broker = %s (%v)", m["broker"].Status, m["broker"].Err)
	}
	for _, id := range []string{"code", "payload", "qos", "time"} {
		if !m[id].Produced() {
			t.Fatalf("%s should render after a failed sibling: %v", id, m[id].Err)
		}
	}
	kit.MustContain(t, buf.String(), "disk full")
	assertArtifactContract(t, outs, buf.String())
}

func TestRenderAll_PanicIsRecovered(t *testing.T) {
	kit.Serial(t)
	r, buf, _ := newTestRenderer(t)
	kit.Swap(t, &writeFile, func(name string, b []byte, perm os.FileMode) error {
		if filepath.Base(name) == domain.FigPayload.File {
			panic("encoder blew up")
		}
		return os.WriteFile(name, b, perm)
	})

	var outs []domain.Outcome
	kit.MustNotPanic(t, func() { outs = r.RenderAll(scenario()) })
	m := byID(outs)
	if m["payload"].Status != domain.StatusFailed || !perr.IsCode(m["payload"].Err, perr.ErrorCodePanic) {
		t.Fatalf("payload = %s (%v)", m["payload"].Status, m["payload"].Err)
	}
	if !m["qos"].Produced() || !m["time"].Produced() {
		t.Fatalf("later charts should still render")
	}
	assertArtifactContract(t, outs, buf.String())
}

func TestRenderAll_EmptyTable(t *testing.T) {
	r, buf, _ := newTestRenderer(t)
	outs := r.RenderAll(traffic.NewTable(nil))
	m := byID(outs)
	if !m["code"].Produced() {
		t.Fatalf("code figure needs no data: %v", m["code"].Err)
	}
	for _, id := range []string{"broker", "payload", "qos", "time"} {
		if m[id].Status != domain.StatusSkipped {
			t.Fatalf("%s = %s, want skipped", id, m[id].Status)
		}
	}
	assertArtifactContract(t, outs, buf.String())
}

func TestRenderAll_NoSnippetSkipsCodeFigure(t *testing.T) {
	var buf bytes.Buffer
	r := New(Options{Dir: t.TempDir(), Width: 600, Height: 300, DPI: 92}, zerolog.New(&buf))
	m := byID(r.RenderAll(scenario()))
	if m["code"].Status != domain.StatusSkipped {
		t.Fatalf("code = %s, want skipped", m["code"].Status)
	}
}

func TestNiceCeilAndBarWidth(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 5}, {1, 5}, {4, 5}, {5, 10}, {9, 10}, {13, 20}, {95, 200}, {104213, 200000}, {40, 50},
	}
	for _, c := range cases {
		got := niceCeil(c.in)
		if got != c.want {
			t.Fatalf("niceCeil(%d) = %d, want %d", c.in, got, c.want)
		}
		if got%5 != 0 {
			t.Fatalf("niceCeil(%d) = %d not divisible into five ticks", c.in, got)
		}
	}
	if w := barWidth(0, 600); w != 40 {
		t.Fatalf("barWidth(0) = %d", w)
	}
	if w := barWidth(1000, 600); w != 6 {
		t.Fatalf("barWidth clamps low, got %d", w)
	}
	if w := barWidth(1, 5000); w != 120 {
		t.Fatalf("barWidth clamps high, got %d", w)
	}
}

func TestCountAxis_GroupedLabels(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	ax := r.countAxis(104213)
	if len(ax.Ticks) != 6 {
		t.Fatalf("ticks = %d, want 6", len(ax.Ticks))
	}
	if got := ax.Ticks[5].Label; got != "200,000" {
		t.Fatalf("top label = %q, want 200,000", got)
	}
}

func TestSortByNumericKey(t *testing.T) {
	cs := []traffic.Count{{Key: "2", N: 1}, {Key: "0", N: 9}, {Key: "1", N: 3}}
	sortByNumericKey(cs)
	if cs[0].Key != "0" || cs[1].Key != "1" || cs[2].Key != "2" {
		t.Fatalf("order = %v", cs)
	}
}

func TestRenderAll_LongBrokerTailFoldsIntoOther(t *testing.T) {
	var buf bytes.Buffer
	r := New(Options{Dir: t.TempDir(), Width: 1500, Height: 750, DPI: 150, CodeSnippet: snippet}, zerolog.New(&buf))

	var recs []traffic.Record
	for b := 0; b < 300; b++ {
		for p := 0; p < 40; p++ {
			recs = append(recs, traffic.Record{
				Broker:      fmt.Sprintf("broker-%03d.example.net", b),
				PayloadType: fmt.Sprintf("type-%02d", p),
				Timestamp:   fmt.Sprintf("%02d:00:00", (b+p)%24),
			})
		}
	}
	outs := r.RenderAll(traffic.NewTable(recs))
	for _, o := range outs {
		if !o.Produced() {
			t.Fatalf("%s: %s (%v)", o.Artifact.File, o.Status, o.Err)
		}
	}
	assertArtifactContract(t, outs, buf.String())
}

func TestFoldTail(t *testing.T) {
	weight := map[string]int{"a": 1, "b": 5, "c": 3, "d": 3, "e": 1}
	w := func(k string) int { return weight[k] }
	other := func(n int) string { return fmt.Sprintf("other (%d)", n) }

	got := foldTail([]string{"a", "b", "c", "d", "e"}, w, 3, other)
	if len(got) != 3 {
		t.Fatalf("groups = %+v", got)
	}
	if got[0].label != "b" || got[1].label != "c" {
		t.Fatalf("kept = %+v", got[:2])
	}
	if got[2].label != "other (3)" || !slices.Equal(got[2].keys, []string{"d", "a", "e"}) {
		t.Fatalf("tail = %+v", got[2])
	}

	if all := foldTail([]string{"a", "b"}, w, 3, other); len(all) != 2 || all[0].label != "b" {
		t.Fatalf("short input should not fold: %+v", all)
	}
}
