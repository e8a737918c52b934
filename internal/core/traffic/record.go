// Package traffic holds the in-memory table of captured broker messages and
// the aggregations the report charts are built from
package traffic

import (
	"slices"

	perr "mqttreport/internal/platform/errors"
)

// Expected column names in the capture CSV
const (
	ColBroker      = "broker"
	ColPayloadType = "payload_type"
	ColQoS         = "qos"
	ColRetain      = "retain"
	ColTimestamp   = "timestamp"
)

// ExpectedColumns lists the columns the report knows how to use, in canonical order
var ExpectedColumns = []string{ColBroker, ColPayloadType, ColQoS, ColRetain, ColTimestamp}

// Record is one captured message
type Record struct {
	Broker      string
	PayloadType string
	QoS         int
	Retain      bool
	Timestamp   string // HH:MM:SS, not guaranteed to parse
}

// Table is a flat, insertion-ordered collection of records plus the set of
// columns the source carried
type Table struct {
	columns []string
	present map[string]bool
	records []Record
}

// NewTable builds a table from records; columns lists the source header and
// defaults to ExpectedColumns when empty
func NewTable(records []Record, columns ...string) *Table {
	if len(columns) == 0 {
		columns = ExpectedColumns
	}
	t := &Table{
		columns: slices.Clone(columns),
		present: make(map[string]bool, len(columns)),
		records: slices.Clone(records),
	}
	for _, c := range columns {
		t.present[c] = true
	}
	return t
}

// Len returns the number of rows
func (t *Table) Len() int { return len(t.records) }

// Columns returns the source header in file order, extras included
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// Has reports whether the source carried col
func (t *Table) Has(col string) bool { return t.present[col] }

// Require returns a validation error naming the first absent column
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.present[c] {
			return perr.WithField(perr.Validationf("missing column %q", c), c)
		}
	}
	return nil
}

// Records returns a copy of the rows in source order
func (t *Table) Records() []Record { return slices.Clone(t.records) }

// At returns the i-th record
func (t *Table) At(i int) Record { return t.records[i] }
