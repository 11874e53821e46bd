package ollama

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// streamRecord is one newline-delimited JSON record of a streaming response.
// Mid-stream failures arrive as a record with Error set.
type streamRecord struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// lineParser incrementally splits a byte stream into parsed streamRecords.
// Network chunks do not align with record boundaries, so partial lines are
// buffered across Feed calls. The parser is pure state over bytes, which
// keeps the trickiest part of streaming testable without any transport.
type lineParser struct {
	buf bytes.Buffer
}

// Feed appends chunk to the buffer and returns every record whose line is
// now complete, in order. An incomplete trailing line stays buffered.
func (p *lineParser) Feed(chunk []byte) ([]streamRecord, error) {
	p.buf.Write(chunk)

	var records []streamRecord
	for {
		data := p.buf.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			return records, nil
		}

		line := make([]byte, idx)
		copy(line, data[:idx])
		p.buf.Next(idx + 1)

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var rec streamRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return records, fmt.Errorf("malformed stream record %q: %w", line, err)
		}
		records = append(records, rec)
	}
}
