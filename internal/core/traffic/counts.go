package traffic

import (
	"sort"
	"strconv"
)

// Labels used for the retain flag
const (
	LabelRetained    = "Retained"
	LabelNotRetained = "Not Retained"
)

// Key extracts a categorical value from a record
type Key func(Record) string

// Common keys
var (
	ByBroker      Key = func(r Record) string { return r.Broker }
	ByPayloadType Key = func(r Record) string { return r.PayloadType }
	ByQoS         Key = func(r Record) string { return strconv.Itoa(r.QoS) }
	ByRetain      Key = func(r Record) string {
		if r.Retain {
			return LabelRetained
		}
		return LabelNotRetained
	}
)

// Count is one value count
type Count struct {
	Key string
	N   int
}

// Total sums a slice of counts
func Total(cs []Count) int {
	n := 0
	for _, c := range cs {
		n += c.N
	}
	return n
}

// CountBy returns value counts ordered by descending count; ties keep first-seen order
func (t *Table) CountBy(key Key) []Count {
	pos := map[string]int{}
	var out []Count
	for _, r := range t.records {
		k := key(r)
		i, ok := pos[k]
		if !ok {
			i = len(out)
			pos[k] = i
			out = append(out, Count{Key: k})
		}
		out[i].N++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].N > out[j].N })
	return out
}

// Crosstab counts col values grouped by row values; both axes keep first-seen order
type Crosstab struct {
	Rows  []string
	Cols  []string
	cells map[[2]string]int
}

// At returns the count for (row, col)
func (c Crosstab) At(row, col string) int { return c.cells[[2]string{row, col}] }

// RowTotal returns the sum across a row
func (c Crosstab) RowTotal(row string) int {
	n := 0
	for _, col := range c.Cols {
		n += c.At(row, col)
	}
	return n
}

// CrossCount builds a Crosstab of col counts per row
func (t *Table) CrossCount(row, col Key) Crosstab {
	ct := Crosstab{cells: map[[2]string]int{}}
	seenR := map[string]bool{}
	seenC := map[string]bool{}
	for _, r := range t.records {
		rk, ck := row(r), col(r)
		if !seenR[rk] {
			seenR[rk] = true
			ct.Rows = append(ct.Rows, rk)
		}
		if !seenC[ck] {
			seenC[ck] = true
			ct.Cols = append(ct.Cols, ck)
		}
		ct.cells[[2]string{rk, ck}]++
	}
	return ct
}
