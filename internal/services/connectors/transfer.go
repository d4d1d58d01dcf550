package connectors

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ternarybob/formfill/internal/models"
)

// ExportResult carries both wire forms of an export: the Base64 payload to
// hand out and the decoded JSON for display.
type ExportResult struct {
	Encoded string `json:"encoded"`
	Decoded string `json:"decoded"`
}

// Export wraps the named connectors in a versioned envelope and encodes it
// for transfer.
func (s *Service) Export(ctx context.Context, titles []string) (*ExportResult, error) {
	if len(titles) == 0 {
		return nil, fmt.Errorf("no connectors selected for export")
	}

	envelope := models.ExportEnvelope{
		Version:    models.ExportVersion,
		ExportedAt: time.Now().UTC(),
		Connectors: make([]models.Connector, 0, len(titles)),
	}

	for _, title := range titles {
		connector, err := s.storage.GetByTitle(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("cannot export %q: %w", title, err)
		}
		envelope.Connectors = append(envelope.Connectors, *connector)
	}

	decoded, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export envelope: %w", err)
	}

	s.logger.Info().Int("count", len(envelope.Connectors)).Msg("Connectors exported")

	return &ExportResult{
		Encoded: base64.StdEncoding.EncodeToString(decoded),
		Decoded: string(decoded),
	}, nil
}

// Import accepts connector data in any of the export formats: a Base64
// envelope, a raw JSON envelope, a wrapped single connector, or a bare
// connector. Title collisions are resolved by renaming to "<title> (<n>)"
// with the smallest free n. Returns the titles stored.
func (s *Service) Import(ctx context.Context, data string) ([]string, error) {
	incoming, err := decodeImport(data)
	if err != nil {
		return nil, err
	}
	if len(incoming) == 0 {
		return nil, fmt.Errorf("import contains no connectors")
	}

	existing, err := s.storage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list connectors: %w", err)
	}
	// Titles are unique case-insensitively, so collision detection keys on
	// the lowered form
	taken := make(map[string]bool, len(existing))
	for _, c := range existing {
		taken[strings.ToLower(c.Title)] = true
	}

	now := time.Now()
	imported := make([]string, 0, len(incoming))

	for i := range incoming {
		connector := incoming[i]
		if err := s.validate.Struct(&connector); err != nil {
			return nil, fmt.Errorf("invalid connector in import: %w", err)
		}

		title := connector.Title
		for n := 1; taken[strings.ToLower(title)]; n++ {
			title = fmt.Sprintf("%s (%d)", connector.Title, n)
		}
		taken[strings.ToLower(title)] = true

		connector.Title = title
		connector.ID = uuid.New().String()
		connector.CreatedAt = now
		connector.UpdatedAt = now

		if err := s.storage.Save(ctx, &connector); err != nil {
			return nil, fmt.Errorf("failed to store imported connector %q: %w", title, err)
		}
		imported = append(imported, title)
	}

	s.logger.Info().Int("count", len(imported)).Msg("Connectors imported")
	s.publishChange(ctx, "")

	return imported, nil
}

// decodeImport unwraps the accepted import shapes into a connector list
func decodeImport(data string) ([]models.Connector, error) {
	raw := []byte(data)
	if decoded, err := base64.StdEncoding.DecodeString(data); err == nil && json.Valid(decoded) {
		raw = decoded
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("import data is neither Base64 nor JSON")
	}

	// Envelope with a connector list
	var envelope models.ExportEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Connectors) > 0 {
		return envelope.Connectors, nil
	}

	// Wrapped single connector
	var payload models.ImportPayload
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Connector != nil {
		return []models.Connector{*payload.Connector}, nil
	}

	// Bare connector
	var connector models.Connector
	if err := json.Unmarshal(raw, &connector); err == nil && connector.Title != "" {
		return []models.Connector{connector}, nil
	}

	return nil, fmt.Errorf("unrecognized import format")
}
