// Package storage provides the SnapshotStore implementations (JSON file,
// SQLite, in-memory) and owns the JSON wire formats: the snapshot mapping,
// the export envelope and the merge-input shapes.
package storage

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"ledger/internal/core"
)

// wireRecord is the persisted shape of one record: amount is a number,
// everything else a string. timestamp is the record date as an instant,
// createdAt the immutable creation instant.
type wireRecord struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Owner       string  `json:"owner,omitempty"`
	Date        string  `json:"date"`
	Timestamp   string  `json:"timestamp"`
	CreatedAt   string  `json:"createdAt"`
}

type wireCategory struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// exportEnvelope is the one-way export format. Its records mapping is also
// accepted back as merge input.
type exportEnvelope struct {
	Records     map[string]wireRecord `json:"records"`
	ExportDate  string                `json:"exportDate"`
	RecordCount int                   `json:"recordCount"`
	TotalAmount float64               `json:"totalAmount"`
}

func toWire(r core.Record) wireRecord {
	w := wireRecord{
		ID:          r.ID,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Owner:       r.Owner,
		Date:        r.Date,
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if d, err := core.ParseDate(r.Date); err == nil {
		w.Timestamp = d.Format(time.RFC3339)
	}
	return w
}

// fromWire converts leniently: the mapping key backs a missing id field and
// the date instant backs a missing creation instant, so files produced by
// older exports still merge.
func fromWire(key string, w wireRecord) core.Record {
	r := core.Record{
		ID:          w.ID,
		Amount:      w.Amount,
		Category:    w.Category,
		Description: w.Description,
		Owner:       w.Owner,
		Date:        w.Date,
	}
	if r.ID == "" {
		r.ID = key
	}
	if t, err := time.Parse(time.RFC3339Nano, w.CreatedAt); err == nil {
		r.CreatedAt = t
	} else if t, err := time.Parse(time.RFC3339, w.Timestamp); err == nil {
		r.CreatedAt = t
	}
	return r
}

func encodeSnapshot(records map[string]core.Record) ([]byte, error) {
	wire := make(map[string]wireRecord, len(records))
	for id, r := range records {
		wire[id] = toWire(r)
	}
	return json.MarshalIndent(wire, "", "  ")
}

func decodeSnapshot(path string, data []byte) (map[string]core.Record, error) {
	var wire map[string]wireRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &core.ParseError{Path: path, Err: err}
	}
	records := make(map[string]core.Record, len(wire))
	for id, w := range wire {
		records[id] = fromWire(id, w)
	}
	return records, nil
}

// WriteExport writes the export envelope for the given collection.
func WriteExport(w io.Writer, records map[string]core.Record) error {
	env := exportEnvelope{
		Records:     make(map[string]wireRecord, len(records)),
		ExportDate:  time.Now().UTC().Format(time.RFC3339),
		RecordCount: len(records),
	}
	for id, r := range records {
		env.Records[id] = toWire(r)
		env.TotalAmount += r.Amount
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ReadMergeFile reads a merge input file, accepting either a bare id->record
// mapping or an export envelope carrying one under its records field.
func ReadMergeFile(path string) (map[string]core.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.IOError{Op: "read", Path: path, Err: err}
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &core.ParseError{Path: path, Err: err}
	}

	payload := data
	if raw, ok := probe["records"]; ok {
		payload = raw
	}

	var wire map[string]wireRecord
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, &core.ParseError{Path: path, Err: err}
	}

	records := make(map[string]core.Record, len(wire))
	for id, w := range wire {
		records[id] = fromWire(id, w)
	}
	return records, nil
}
