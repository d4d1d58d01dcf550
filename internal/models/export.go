package models

import "time"

// ExportVersion is the envelope version written on export and accepted on
// import.
const ExportVersion = "1.0"

// ExportEnvelope wraps connectors for transfer between installations.
// The wire form is this structure as JSON, Base64-encoded.
type ExportEnvelope struct {
	Version    string      `json:"version"`
	ExportedAt time.Time   `json:"exportedAt"`
	Connectors []Connector `json:"connectors"`
}

// ImportPayload covers the single-connector import shapes: either a
// wrapped {"connector": {...}} object or a bare connector.
type ImportPayload struct {
	Connector *Connector `json:"connector,omitempty"`
}
