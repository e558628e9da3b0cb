package jtf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/ukaji3/jtf-go/pkg/jtf/models"
)

// Parse validates JSON text and returns the document it describes.
func Parse(data []byte, opts Options) (*Document, error) {
	raw, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	v := NewValidator(opts)
	if err := v.ValidateDocument(raw); err != nil {
		return nil, err
	}

	var wire models.DocumentData
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, wrapSchemaError("", err)
	}
	return newDocument(&wire, v, opts.clock())
}

// ParseValue validates an already decoded value. Strings and byte slices are
// treated as JSON text.
func ParseValue(value any, opts Options) (*Document, error) {
	data, err := encodeValue(value)
	if err != nil {
		return nil, err
	}
	return Parse(data, opts)
}

// ParseFile reads and parses a JTF document from disk.
func ParseFile(path string, opts Options) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	return Parse(data, opts)
}

func newDocument(wire *models.DocumentData, v *Validator, now func() time.Time) (*Document, error) {
	doc := &Document{
		tables:    wire.Data,
		style:     wire.Style,
		validator: v,
		now:       now,
	}
	if doc.tables == nil {
		doc.tables = make(map[int]*models.Table)
	}

	var err error
	if doc.createdAt, err = timestampOrNow(wire.CreatedAt, now); err != nil {
		return nil, wrapSchemaError("createdAt", err)
	}
	if doc.updatedAt, err = timestampOrNow(wire.UpdatedAt, now); err != nil {
		return nil, wrapSchemaError("updatedAt", err)
	}

	if wire.Metadata != nil {
		doc.metadata = *wire.Metadata
	}
	if doc.metadata.JTF == "" {
		doc.metadata.JTF = v.PreferredVersion()
	}
	return doc, nil
}

func timestampOrNow(s string, now func() time.Time) (time.Time, error) {
	if s == "" {
		return now(), nil
	}
	return ParseTimestamp(s)
}

// decodeJSON decodes a single JSON value, keeping numbers as json.Number.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after top-level value", ErrInvalidJSON)
	}
	return raw, nil
}

// encodeValue turns a Go value into JSON text.
func encodeValue(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case json.RawMessage:
		return v, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, wrapSchemaError("", fmt.Errorf("value cannot be represented as JSON: %w", err))
	}
	return data, nil
}

// toRaw converts a Go value into the generic decoded form the validator walks.
func toRaw(value any) (any, []byte, error) {
	data, err := encodeValue(value)
	if err != nil {
		return nil, nil, err
	}
	raw, err := decodeJSON(data)
	if err != nil {
		return nil, nil, err
	}
	return raw, data, nil
}
