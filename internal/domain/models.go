package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Story represents a single item returned by the story service
type Story struct {
	ObjectID    ID     `json:"objectID"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Author      string `json:"author"`
	NumComments int    `json:"num_comments"`
	Points      int    `json:"points"`
}

// ID identifies a story. The search API sends it as a string, older
// payloads and fixtures use a number, so both are accepted.
type ID string

// UnmarshalJSON accepts either a JSON string or a JSON number
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("objectID must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier as plain text
func (id ID) String() string {
	return string(id)
}

// Stories is an ordered list of stories
type Stories []Story

// IDs returns the identifiers in list order
func (s Stories) IDs() []ID {
	ids := make([]ID, 0, len(s))
	for _, story := range s {
		ids = append(ids, story.ObjectID)
	}
	return ids
}
