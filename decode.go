package dpd

import (
	"bytes"
	"encoding/json"
)

// decodeRecords parses a response body into an ordered record sequence.
// An array yields one record per element (order preserved), a single
// object yields a one-element sequence, an empty array or JSON null
// yields an empty sequence. Numbers decode as json.Number so identifiers
// survive round-tripping untouched.
func decodeRecords(body []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return normalizeRecords(value), nil
}

// normalizeRecords coerces a decoded JSON value into []Record. Non-object
// array elements and scalar bodies are dropped rather than rejected; the
// API only ever returns objects or arrays of objects, and "no matches" is
// an empty sequence, not an error.
func normalizeRecords(value any) []Record {
	switch v := value.(type) {
	case nil:
		return []Record{}
	case []any:
		records := make([]Record, 0, len(v))
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				records = append(records, Record(obj))
			}
		}
		return records
	case map[string]any:
		return []Record{Record(v)}
	default:
		return []Record{}
	}
}
