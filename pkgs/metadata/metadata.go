// Package metadata parses the trailing metadata block Enso source files
// may carry (spec §6 `parse_metadata`): a marker line followed by a single
// JSON array of per-statement (index, size, id) records, each id a UUID
// identifying that statement across edits. google/uuid is already in the
// teacher's dependency graph for its own identifier needs; it is the
// natural fit here too.
package metadata

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Marker is the literal line separating source from its metadata block.
const Marker = "#### METADATA ####"

// Record associates one statement's position/size in the source with a
// stable UUID that survives edits (spec §6).
type Record struct {
	Index int
	Size  int
	ID    uuid.UUID
}

// Block is a parsed metadata section: zero or more records, in source
// order.
type Block struct {
	Records []Record
}

// rawRecord mirrors the on-disk shape of one record: a 2-element JSON
// array of ({index:{value:N}, size:{value:N}}, "uuid-string").
type rawRecord struct {
	Index struct {
		Value int `json:"value"`
	} `json:"index"`
	Size struct {
		Value int `json:"value"`
	} `json:"size"`
}

// UnmarshalJSON decodes a record from its 2-element array encoding.
func (r *Record) UnmarshalJSON(data []byte) error {
	var parts [2]json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("metadata: record: %w", err)
	}
	var raw rawRecord
	if err := json.Unmarshal(parts[0], &raw); err != nil {
		return fmt.Errorf("metadata: record position: %w", err)
	}
	var idText string
	if err := json.Unmarshal(parts[1], &idText); err != nil {
		return fmt.Errorf("metadata: record id: %w", err)
	}
	id, err := uuid.Parse(idText)
	if err != nil {
		return fmt.Errorf("metadata: record id %q: %w", idText, err)
	}
	r.Index = raw.Index.Value
	r.Size = raw.Size.Value
	r.ID = id
	return nil
}

// MarshalJSON encodes a record back to its 2-element array form, the
// inverse of UnmarshalJSON.
func (r Record) MarshalJSON() ([]byte, error) {
	var raw rawRecord
	raw.Index.Value = r.Index
	raw.Size.Value = r.Size
	return json.Marshal([2]interface{}{raw, r.ID.String()})
}

// Parse splits source on Marker and decodes the trailing JSON array, if
// present. It returns the metadata-free source text (so the caller can
// feed the remainder to the parser) alongside the decoded block; a source
// with no marker yields a nil block and the source unchanged.
func Parse(source string) (*Block, string, error) {
	idx := strings.Index(source, Marker)
	if idx < 0 {
		return nil, source, nil
	}
	body := source[:idx]
	rest := strings.TrimLeft(source[idx+len(Marker):], "\r\n")
	line := rest
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		line = rest[:nl]
	}
	line = strings.TrimRight(line, "\r")

	var records []Record
	if strings.TrimSpace(line) != "" {
		if err := json.Unmarshal([]byte(line), &records); err != nil {
			return nil, body, fmt.Errorf("metadata: %w", err)
		}
	}
	return &Block{Records: records}, body, nil
}

// Format renders a block back into the marker + JSON-array form Parse
// accepts, for round-tripping a tree's metadata alongside its source.
func Format(b *Block) (string, error) {
	if b == nil {
		return "", nil
	}
	data, err := json.Marshal(b.Records)
	if err != nil {
		return "", fmt.Errorf("metadata: format: %w", err)
	}
	return Marker + "\n" + string(data), nil
}
