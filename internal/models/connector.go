package models

import (
	"strings"
	"time"
)

// FormURLFieldID is the reserved field id that records the page URL a
// connector was captured on (origin + pathname, no query or fragment).
const FormURLFieldID = "form-url"

// ConnectorField is a single credential entry: the DOM element id it fills
// and the value to fill it with.
type ConnectorField struct {
	ID          string `json:"id" validate:"required"`
	Value       string `json:"value" validate:"required"`
	IsMultiline bool   `json:"isMultiline,omitempty"`
}

// Connector represents a named credential bundle for one site or service
type Connector struct {
	ID        string           `json:"id" badgerhold:"key"`
	Title     string           `json:"title" validate:"required"`
	Fields    []ConnectorField `json:"fields" validate:"required,min=1,dive"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// FormURL returns the recorded page URL field value, or "" if the connector
// has none.
func (c *Connector) FormURL() string {
	for _, f := range c.Fields {
		if f.ID == FormURLFieldID {
			return f.Value
		}
	}
	return ""
}

// TitleEquals reports whether the connector title matches the given title,
// case-insensitively.
func (c *Connector) TitleEquals(title string) bool {
	return strings.EqualFold(c.Title, title)
}
