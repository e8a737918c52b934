package traffic

import (
	"encoding/csv"
	stderrs "errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	perr "mqttreport/internal/platform/errors"
)

// Load reads the capture CSV at path. The load is all-or-nothing: a missing
// file is NotFound, anything that does not parse is Decode
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrs.Is(err, fs.ErrNotExist) {
			return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeNotFound, "could not find %q", path), "load")
		}
		return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "open %q", path), "load")
	}
	defer func() { _ = f.Close() }()

	t, err := LoadReader(f)
	if err != nil {
		return nil, perr.WithOp(err, "load")
	}
	return t, nil
}

// LoadReader is Load over an arbitrary reader
func LoadReader(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		if stderrs.Is(err, io.EOF) {
			return nil, perr.Decodef("empty input: no header row")
		}
		return nil, perr.Wrap(err, perr.ErrorCodeDecode, "read header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	idx := map[string]int{}
	for i, h := range header {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}

	var records []Record
	line := 1
	for {
		row, err := cr.Read()
		if stderrs.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDecode, "read row")
		}
		rec, err := decodeRow(row, idx)
		if err != nil {
			field := ""
			if e, ok := perr.As(err); ok {
				field = e.Field()
			}
			return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeDecode, "line %d", line), field)
		}
		records = append(records, rec)
	}

	return NewTable(records, header...), nil
}

func decodeRow(row []string, idx map[string]int) (Record, error) {
	cell := func(col string) (string, bool) {
		i, ok := idx[col]
		if !ok {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	var rec Record
	if v, ok := cell(ColBroker); ok {
		rec.Broker = v
	}
	if v, ok := cell(ColPayloadType); ok {
		rec.PayloadType = v
	}
	if v, ok := cell(ColTimestamp); ok {
		rec.Timestamp = v
	}
	if v, ok := cell(ColQoS); ok {
		q, err := parseQoS(v)
		if err != nil {
			return Record{}, perr.WithField(err, ColQoS)
		}
		rec.QoS = q
	}
	if v, ok := cell(ColRetain); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Record{}, perr.WithField(perr.Decodef("retain %q is not a boolean", v), ColRetain)
		}
		rec.Retain = b
	}
	return rec, nil
}

// parseQoS accepts "1" and the float form "1.0" that spreadsheet exports produce
func parseQoS(v string) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f == float64(int(f)) {
		return int(f), nil
	}
	return 0, perr.Decodef("qos %q is not an integer", v)
}
