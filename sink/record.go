package sink

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is the structured form of a log entry before encoding.
type Record struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// EncodeRecord renders a record as a single JSON line (trailing newline
// included) ready for Sink.Write.
func EncodeRecord(r Record) ([]byte, error) {
	buf, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return append(buf, '\n'), nil
}

// DecodeRecord parses a JSON line produced by EncodeRecord.
func DecodeRecord(entry []byte) (Record, error) {
	var r Record
	err := json.Unmarshal(entry, &r)
	return r, err
}
