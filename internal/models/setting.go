package models

import "time"

// Setting keys. Key names are kept verbatim from the extension's storage so
// exported data and saved settings stay interchangeable.
const (
	SettingGeminiAPIKey       = "geminiApiKey"
	SettingSuggestionsEnabled = "suggestionsEnabled"
)

// Setting is a single persisted key/value setting
type Setting struct {
	Key       string    `json:"key" badgerhold:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
