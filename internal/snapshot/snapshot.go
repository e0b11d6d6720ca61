// Package snapshot encodes the persisted session document. The wire format
// is versioned JSON; decoding is tolerant so a snapshot written by an older
// or newer deployment restores the fields both sides understand.
package snapshot

import "encoding/json"

// SchemaVersion is written into every encoded document.
const SchemaVersion = 1

// User is the persisted profile shape.
type User struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
}

// Farm is the persisted farm selection.
type Farm struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location,omitempty"`
	Size        int    `json:"size,omitempty"`
	AnimalCount int    `json:"animal_count,omitempty"`
	OwnerID     string `json:"owner_id,omitempty"`
}

// Document is one serialized session.
type Document struct {
	Version         int    `json:"version"`
	User            *User  `json:"user,omitempty"`
	Token           string `json:"token,omitempty"`
	IsAuthenticated bool   `json:"is_authenticated"`
	SelectedFarm    *Farm  `json:"selected_farm,omitempty"`
}

// Encode serializes doc, stamping the current schema version.
func Encode(doc Document) (string, error) {
	doc.Version = SchemaVersion
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a stored document. It reports false on malformed input;
// unknown fields are ignored and missing fields stay zero, so version drift
// degrades to a partial restore rather than a failure.
func Decode(raw string) (*Document, bool) {
	if raw == "" {
		return nil, false
	}
	doc := &Document{}
	if err := json.Unmarshal([]byte(raw), doc); err != nil {
		return nil, false
	}
	return doc, true
}
