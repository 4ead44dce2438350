package models

import (
	"encoding/json"
	"time"
)

// Course represents a purchasable course in the catalog.
// Price is stored in the smallest currency unit (e.g. cents).
type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Instructor  string `json:"instructor,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Price       int64  `json:"price"`
	Thumbnail   string `json:"thumbnail,omitempty"`

	// JSON string field for DB storage
	ContentJSON string `json:"-"`

	// Ordered content references for API interaction
	Content []string `json:"content,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// PrepareForSave marshals the content list into its JSON string for DB storage.
func (c *Course) PrepareForSave() {
	contentBytes, _ := json.Marshal(c.Content)
	c.ContentJSON = string(contentBytes)
}

// PrepareForAPI unmarshals the JSON content string for API responses.
func (c *Course) PrepareForAPI() {
	if c.ContentJSON != "" {
		json.Unmarshal([]byte(c.ContentJSON), &c.Content)
	}
}
