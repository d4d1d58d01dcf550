package cleaner

import (
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/formfill/internal/models"
)

// segmentStoplist filters dot-path segments that carry no meaning on their
// own (e.g. "item.credential.guid.basic.extra.database" -> "database").
var segmentStoplist = map[string]bool{
	"item":       true,
	"credential": true,
	"guid":       true,
	"basic":      true,
	"extra":      true,
	"advanced":   true,
	"config":     true,
	"form":       true,
	"field":      true,
	"input":      true,
	"data":       true,
}

var (
	leadingBoilerplate  = regexp.MustCompile(`(?i)^(?:item|credential|guid|form|input|field|data|model|entity|object)(?:[\s_.-]+|$)`)
	trailingBoilerplate = regexp.MustCompile(`(?i)(?:^|[\s_.-]+)(?:item|credential|guid|form|input|field|data|model|entity|object)$`)
	separatorRuns       = regexp.MustCompile(`[\s_.-]+`)
	camelBoundary       = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	invalidChars        = regexp.MustCompile(`[^a-z0-9_ ]`)
	whitespaceRuns      = regexp.MustCompile(`\s+`)
	underscoreRuns      = regexp.MustCompile(`_+`)

	titleSuffix = regexp.MustCompile(`\s*[-|].*$`)
	titleNoise  = regexp.MustCompile(`(?i)\b(?:login|signin|sign in|connect|connection|admin|dashboard)\b`)
)

// Service turns raw extracted field identifiers into display-ready names
// for connector authoring.
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new cleaner service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
	}
}

// CleanFields produces one CleanedField per usable control, deduplicated by
// the identifier that won the label fallback. Submit and button controls are
// dropped, as are controls with no identifying text at all.
func (s *Service) CleanFields(fields []models.ExtractedField) []models.CleanedField {
	seen := make(map[string]bool)
	cleaned := []models.CleanedField{}

	for _, field := range fields {
		if field.Type == "submit" || field.Type == "button" {
			continue
		}
		if field.ID == "" && field.Name == "" && field.Placeholder == "" && field.Label == "" {
			continue
		}

		identifier, userVisible := winningIdentifier(field)
		if identifier == "" {
			continue
		}

		dedupKey := strings.ToLower(identifier)
		if seen[dedupKey] {
			continue
		}
		seen[dedupKey] = true

		cleaned = append(cleaned, models.CleanedField{
			ID:          field.ID,
			Name:        field.Name,
			Type:        field.Type,
			Placeholder: field.Placeholder,
			Label:       field.Label,
			CleanName:   CleanName(identifier, userVisible),
		})
	}

	return cleaned
}

// winningIdentifier picks the identifying text for a field and reports
// whether it is user-visible text (label or nearby text) or a technical
// identifier (placeholder, name, or id).
func winningIdentifier(field models.ExtractedField) (string, bool) {
	switch {
	case field.Label != "":
		return field.Label, true
	case field.NearbyText != "":
		return field.NearbyText, true
	case field.Placeholder != "":
		return field.Placeholder, false
	case field.Name != "":
		return field.Name, false
	default:
		return field.ID, false
	}
}

// CleanName cleans a single identifier. User-visible text only has trailing
// colons and asterisks stripped; technical identifiers go through the full
// pipeline.
func CleanName(identifier string, userVisible bool) string {
	if userVisible {
		return trimDecoration(identifier)
	}
	return cleanTechnical(identifier)
}

// trimDecoration strips trailing colons and asterisks plus surrounding
// whitespace, keeping the text otherwise untouched.
func trimDecoration(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasSuffix(s, ":") || strings.HasSuffix(s, "*") {
		s = strings.TrimSpace(strings.TrimRight(s, ":*"))
	}
	return s
}

// cleanTechnical reduces a technical identifier to a short lowercase name:
// pick the meaningful dot-path segment, strip boilerplate affixes, split
// camelCase, then sanitize to [a-z0-9_ ].
func cleanTechnical(identifier string) string {
	name := meaningfulSegment(identifier)

	for {
		stripped := leadingBoilerplate.ReplaceAllString(name, "")
		stripped = trailingBoilerplate.ReplaceAllString(stripped, "")
		if stripped == name {
			break
		}
		name = stripped
	}

	name = separatorRuns.ReplaceAllString(name, " ")
	name = camelBoundary.ReplaceAllString(name, "$1 $2")
	name = strings.ToLower(strings.TrimSpace(name))

	if name == "" {
		// The pipeline consumed everything; keep the raw identifier
		name = strings.ToLower(identifier)
	}

	name = invalidChars.ReplaceAllString(name, "")
	name = whitespaceRuns.ReplaceAllString(name, "_")
	name = underscoreRuns.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if name == "" {
		return "field"
	}
	return name
}

// meaningfulSegment splits a dot path and returns the last segment that is
// not on the stoplist, falling back to the last segment when every one is.
func meaningfulSegment(identifier string) string {
	segments := strings.Split(identifier, ".")
	if len(segments) == 1 {
		return identifier
	}

	for i := len(segments) - 1; i >= 0; i-- {
		if !segmentStoplist[strings.ToLower(segments[i])] {
			return segments[i]
		}
	}
	return segments[len(segments)-1]
}

// SuggestConnectorTitle derives a connector title from a page title: drop
// everything after a dash or pipe, remove login/navigation words, and fall
// back to a generic title when too little remains.
func SuggestConnectorTitle(pageTitle string) string {
	title := titleSuffix.ReplaceAllString(pageTitle, "")
	title = titleNoise.ReplaceAllString(title, "")
	title = whitespaceRuns.ReplaceAllString(title, " ")
	title = strings.TrimSpace(title)

	if len(title) < 3 {
		return "New Connector"
	}
	return title
}
