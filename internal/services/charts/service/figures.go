package service

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"mqttreport/internal/core/traffic"
	"mqttreport/internal/services/charts/domain"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const maxCodeScale = 3

func (r *Renderer) codeFigure(_ *traffic.Table) ([]byte, error) {
	if strings.TrimSpace(r.opts.CodeSnippet) == "" {
		return nil, skip("no code snippet configured")
	}
	card := textBlock(domain.FigCode.Title, r.opts.CodeSnippet, 12)
	k := min(max(1, r.opts.Width/card.Bounds().Dx()), maxCodeScale)
	return encodePNG(scaleUp(card, k))
}

func (r *Renderer) brokerVolume(t *traffic.Table) ([]byte, error) {
	if err := t.Require(traffic.ColBroker); err != nil {
		return nil, err
	}
	counts := t.CountBy(traffic.ByBroker)
	if len(counts) == 0 {
		return nil, skip("no records")
	}
	n := make(map[string]int, len(counts))
	keys := make([]string, len(counts))
	for i, c := range counts {
		n[c.Key] = c.N
		keys[i] = c.Key
	}
	groups := foldTail(keys, func(k string) int { return n[k] }, maxBrokerBars, func(k int) string {
		return fmt.Sprintf("other (%d brokers)", k)
	})
	bars := make([]chart.Value, len(groups))
	peak := 0
	for i, g := range groups {
		sum, col := 0, pick(viridis, i)
		for _, k := range g.keys {
			sum += n[k]
		}
		if len(g.keys) > 1 {
			col = otherCol
		}
		bars[i] = r.bar(g.label, sum, col)
		peak = max(peak, sum)
	}
	bc := r.barChart(domain.FigBroker.Title, bars, peak, r.opts.Width)
	img, err := renderPNG(bc)
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

// Figures 2 and 3 keep the busiest brokers and payload types; the rest fold
// into one "other" bar or segment
const (
	maxBrokerBars   = 20
	maxPayloadBars  = 12
	maxPayloadKinds = 8
)

var otherCol = drawing.ColorFromHex("9e9e9e")

// group is a display bucket over one or more crosstab keys
type group struct {
	label string
	keys  []string
}

// foldTail orders keys by descending weight (ties keep input order) and folds
// everything past limit-1 into a trailing group named by other
func foldTail(keys []string, weight func(string) int, limit int, other func(n int) string) []group {
	sorted := slices.Clone(keys)
	sort.SliceStable(sorted, func(i, j int) bool { return weight(sorted[i]) > weight(sorted[j]) })

	keep := len(sorted)
	if keep > limit {
		keep = limit - 1
	}
	out := make([]group, 0, keep+1)
	for _, k := range sorted[:keep] {
		out = append(out, group{label: k, keys: []string{k}})
	}
	if tail := sorted[keep:]; len(tail) > 0 {
		out = append(out, group{label: other(len(tail)), keys: tail})
	}
	return out
}

func (r *Renderer) payloadByBroker(t *traffic.Table) ([]byte, error) {
	if err := t.Require(traffic.ColBroker, traffic.ColPayloadType); err != nil {
		return nil, err
	}
	ct := t.CrossCount(traffic.ByBroker, traffic.ByPayloadType)
	if len(ct.Rows) == 0 {
		return nil, skip("no records")
	}

	kindTotal := make(map[string]int, len(ct.Cols))
	for _, c := range t.CountBy(traffic.ByPayloadType) {
		kindTotal[c.Key] = c.N
	}
	brokers := foldTail(ct.Rows, ct.RowTotal, maxPayloadBars, func(n int) string {
		return fmt.Sprintf("other (%d brokers)", n)
	})
	kinds := foldTail(ct.Cols, func(k string) int { return kindTotal[k] }, maxPayloadKinds, func(n int) string {
		return fmt.Sprintf("other (%d types)", n)
	})

	colorOf := make([]drawing.Color, len(kinds))
	for i, k := range kinds {
		colorOf[i] = pick(viridis, i)
		if len(k.keys) > 1 {
			colorOf[i] = otherCol
		}
	}
	cell := func(b, k group) int {
		n := 0
		for _, bk := range b.keys {
			for _, kk := range k.keys {
				n += ct.At(bk, kk)
			}
		}
		return n
	}

	bw := barWidth(len(brokers), r.opts.Width)
	bars := make([]chart.StackedBar, 0, len(brokers))
	for _, b := range brokers {
		total := 0
		for _, bk := range b.keys {
			total += ct.RowTotal(bk)
		}
		sb := chart.StackedBar{Name: fmt.Sprintf("%s (%s)", b.label, r.count(total)), Width: bw}
		for i, k := range kinds {
			if n := cell(b, k); n > 0 {
				sb.Values = append(sb.Values, chart.Value{
					Label: k.label,
					Value: float64(n),
					Style: chart.Style{FillColor: colorOf[i], StrokeColor: colorOf[i]},
				})
			}
		}
		bars = append(bars, sb)
	}

	sbc := chart.StackedBarChart{
		Title:      domain.FigPayload.Title,
		TitleStyle: chart.Style{FontSize: 13},
		Background: chart.Style{Padding: chart.Box{Top: 60, Left: 10, Right: 10, Bottom: 10}},
		Width:      r.opts.Width,
		Height:     r.opts.Height,
		DPI:        r.opts.DPI,
		BarSpacing: bw / 2,
		XAxis:      chart.Style{FontSize: 9},
		Bars:       bars,
	}
	img, err := renderPNG(sbc)
	if err != nil {
		return nil, err
	}

	entries := make([]legendEntry, len(kinds))
	for i, k := range kinds {
		n := 0
		for _, kk := range k.keys {
			n += kindTotal[kk]
		}
		entries[i] = legendEntry{label: fmt.Sprintf("%s (%s)", k.label, r.count(n)), col: colorOf[i]}
	}
	canvas := toRGBA(img)
	overlay(canvas, scaleUp(legend("Payload Type", entries), 2), canvas.Bounds().Dx()-20, 70)
	return encodePNG(canvas)
}

func (r *Renderer) qosAndRetain(t *traffic.Table) ([]byte, error) {
	if err := t.Require(traffic.ColQoS, traffic.ColRetain); err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, skip("no records")
	}
	half := r.opts.Width / 2

	// 4a: QoS value counts, in QoS order
	qos := t.CountBy(traffic.ByQoS)
	top := qos[0]
	sortByNumericKey(qos)
	bars := make([]chart.Value, len(qos))
	peak := 0
	for i, c := range qos {
		bars[i] = r.bar("QoS "+c.Key, c.N, pick(magma, i))
		peak = max(peak, c.N)
	}
	share := 100 * float64(top.N) / float64(traffic.Total(qos))
	title := fmt.Sprintf("Figure 4a: QoS Usage (%.0f%% QoS %s)", share, top.Key)
	left, err := renderPNG(r.barChart(title, bars, peak, half))
	if err != nil {
		return nil, fmt.Errorf("qos chart: %w", err)
	}

	// 4b: retained proportion, fixed slice order
	ret := t.CountBy(traffic.ByRetain)
	n := map[string]int{}
	for _, c := range ret {
		n[c.Key] = c.N
	}
	total := traffic.Total(ret)
	var vals []chart.Value
	for i, label := range []string{traffic.LabelNotRetained, traffic.LabelRetained} {
		if n[label] == 0 {
			continue
		}
		pct := 100 * float64(n[label]) / float64(total)
		vals = append(vals, chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", label, pct),
			Value: float64(n[label]),
			Style: chart.Style{FillColor: pieCols[i], StrokeColor: drawing.ColorWhite, FontSize: 10},
		})
	}
	pc := chart.PieChart{
		Title:      "Figure 4b: Retained Messages",
		TitleStyle: chart.Style{FontSize: 13},
		Background: chart.Style{Padding: chart.Box{Top: 60, Left: 10, Right: 10, Bottom: 10}},
		Width:      half,
		Height:     r.opts.Height,
		DPI:        r.opts.DPI,
		Values:     vals,
	}
	right, err := renderPNG(pc)
	if err != nil {
		return nil, fmt.Errorf("retain chart: %w", err)
	}
	return encodePNG(hstack(left, right))
}

func (r *Renderer) hourly(t *traffic.Table) ([]byte, error) {
	if err := t.Require(traffic.ColTimestamp); err != nil {
		return nil, err
	}
	h := t.Hours()
	if h.Empty() {
		return nil, skip("could not extract hours from timestamp")
	}
	if h.Dropped > 0 {
		r.log.Debug().Int("dropped", h.Dropped).Int("parsed", h.Parsed).Msg("timestamps outside HH:MM:SS ignored")
	}

	bars := make([]chart.Value, len(h.Bins))
	peakHour, peak := 0, 0
	for hr, c := range h.Bins {
		bars[hr] = r.bar(strconv.Itoa(hr), c, purple)
		if c > peak {
			peakHour, peak = hr, c
		}
	}
	title := fmt.Sprintf("%s (Spike at %02d:00)", domain.FigTime.Title, peakHour)
	img, err := renderPNG(r.barChart(title, bars, peak, r.opts.Width))
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

func (r *Renderer) bar(label string, n int, col drawing.Color) chart.Value {
	return chart.Value{
		Label: label,
		Value: float64(n),
		Style: chart.Style{FillColor: col, StrokeColor: col},
	}
}

func (r *Renderer) barChart(title string, bars []chart.Value, peak, width int) chart.BarChart {
	bw := barWidth(len(bars), width)
	return chart.BarChart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: 13},
		Background: chart.Style{Padding: chart.Box{Top: 60, Left: 10, Right: 10, Bottom: 10}},
		Width:      width,
		Height:     r.opts.Height,
		DPI:        r.opts.DPI,
		BarWidth:   bw,
		BarSpacing: bw / 2,
		XAxis:      chart.Style{FontSize: 9},
		YAxis:      r.countAxis(peak),
		Bars:       bars,
	}
}

// countAxis pins the axis at zero with five integer ticks labelled with grouped thousands
func (r *Renderer) countAxis(peak int) chart.YAxis {
	top := niceCeil(peak)
	step := top / 5
	ticks := make([]chart.Tick, 0, 6)
	for v := 0; v <= top; v += step {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: r.count(v)})
	}
	return chart.YAxis{
		Name:  "Message Count",
		Range: &chart.ContinuousRange{Min: 0, Max: float64(top)},
		Ticks: ticks,
	}
}

// niceCeil rounds v*1.1 up to 1, 2 or 5 times a power of ten; never below 5
func niceCeil(v int) int {
	if v <= 4 {
		return 5
	}
	target := float64(v) * 1.1
	mag := math.Pow(10, math.Floor(math.Log10(target)))
	for _, m := range []float64{1, 2, 5, 10} {
		if m*mag >= target {
			return int(m * mag)
		}
	}
	return int(10 * mag)
}

func barWidth(n, width int) int {
	if n <= 0 {
		return 40
	}
	return min(max((width-200)/(2*n), 6), 120)
}

func sortByNumericKey(cs []traffic.Count) {
	num := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}
	sort.SliceStable(cs, func(i, j int) bool { return num(cs[i].Key) < num(cs[j].Key) })
}
