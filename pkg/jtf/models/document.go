package models

// DocumentData is the wire representation of a JTF document.
type DocumentData struct {
	// CreatedAt is the ISO-8601 creation timestamp.
	CreatedAt string `json:"createdAt,omitempty"`
	// UpdatedAt is the ISO-8601 timestamp of the last mutation.
	UpdatedAt string `json:"updatedAt,omitempty"`
	// Metadata holds document descriptors.
	Metadata *Metadata `json:"metadata,omitempty"`
	// Data maps a table index to its table.
	Data map[int]*Table `json:"data"`
	// Style contains document-scoped style rules.
	Style []StyleRule `json:"style,omitempty"`
}
