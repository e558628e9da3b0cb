package jtf

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/ukaji3/jtf-go/pkg/jtf/models"
)

// GetExtraProcessorData returns a copy of the extra metadata stored for a
// processor.
func (d *Document) GetExtraProcessorData(processor string) (models.ProcessorData, bool) {
	for _, entry := range d.metadata.Extra {
		if entry.Processor() == processor {
			return maps.Clone(entry), true
		}
	}
	return nil, false
}

// SetExtraProcessorData stores data for a processor. With extend set, the keys
// of data are merged into an existing entry; otherwise the entry is replaced.
// The "processor" key is always set to processor.
func (d *Document) SetExtraProcessorData(processor string, data map[string]any, extend bool) error {
	if processor == "" {
		return NewSchemaError("metadata.extra", "processor identifier must be a non-empty string")
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return NewSchemaError("metadata.extra", fmt.Sprintf("processor data cannot be represented as JSON: %v", err))
	}
	var entry models.ProcessorData
	if err := json.Unmarshal(encoded, &entry); err != nil {
		return wrapSchemaError("metadata.extra", err)
	}
	if entry == nil {
		entry = models.ProcessorData{}
	}
	entry[models.ProcessorKey] = processor

	for i, existing := range d.metadata.Extra {
		if existing.Processor() != processor {
			continue
		}
		if extend {
			merged := maps.Clone(existing)
			maps.Copy(merged, entry)
			entry = merged
		}
		d.metadata.Extra[i] = entry
		d.touch()
		return nil
	}

	d.metadata.Extra = append(d.metadata.Extra, entry)
	d.touch()
	return nil
}
