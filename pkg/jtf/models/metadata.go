package models

import (
	"encoding/json"
	"fmt"
)

// Metadata holds document-level descriptors.
type Metadata struct {
	// Author is the document author.
	Author string `json:"author,omitempty"`
	// Title is the document title.
	Title string `json:"title,omitempty"`
	// JTF is the format version the document was written against (e.g. "v1.1.9").
	JTF string `json:"jtf,omitempty"`
	// CSS contains stylesheet data or paths.
	CSS CSS `json:"css,omitempty"`
	// Extra contains opaque per-processor payloads.
	Extra []ProcessorData `json:"extra,omitempty"`
}

// CSS is a list of stylesheet strings. In JSON it is either a single string
// or an array of strings; a single entry is written back as a string.
type CSS []string

// MarshalJSON implements json.Marshaler.
func (c CSS) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0])
	}
	return json.Marshal([]string(c))
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *CSS) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = CSS{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("css must be a string or an array of strings: %w", err)
	}
	*c = CSS(list)
	return nil
}

// ProcessorData is an opaque payload owned by one processor, identified by
// its "processor" key.
type ProcessorData map[string]any

// ProcessorKey is the key identifying the owner of a ProcessorData entry.
const ProcessorKey = "processor"

// Processor returns the processor identifier of the entry.
func (p ProcessorData) Processor() string {
	s, _ := p[ProcessorKey].(string)
	return s
}
