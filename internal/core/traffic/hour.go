package traffic

import "time"

// TimestampLayout is the fixed HH:MM:SS capture format; no date, no zone
const TimestampLayout = "15:04:05"

// HourOf parses ts with TimestampLayout and returns the hour of day. Values
// that do not parse are reported as false and dropped by callers; there is no
// fallback format
func HourOf(ts string) (int, bool) {
	t, err := time.Parse(TimestampLayout, ts)
	if err != nil {
		return 0, false
	}
	return t.Hour(), true
}

// HourHistogram is a 24-bin count of parsed timestamps
type HourHistogram struct {
	Bins    [24]int
	Parsed  int
	Dropped int
}

// Empty reports whether no timestamp parsed
func (h HourHistogram) Empty() bool { return h.Parsed == 0 }

// Hours bins every record whose timestamp parses; the table itself is untouched
func (t *Table) Hours() HourHistogram {
	var h HourHistogram
	for _, r := range t.records {
		hr, ok := HourOf(r.Timestamp)
		if !ok {
			h.Dropped++
			continue
		}
		h.Bins[hr]++
		h.Parsed++
	}
	return h
}
