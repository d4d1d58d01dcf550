package extractor

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/formfill/internal/models"
)

// Service discovers fillable form controls on a page and resolves a human
// label for each one.
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new extractor service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
	}
}

// ExtractForms parses the given HTML and returns every form with its
// controls in DOM order. A page with no forms yields an empty Forms slice
// and no error.
func (s *Service) ExtractForms(html string, pageURL string) (*models.PageForms, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML for form extraction: %w", err)
	}

	return s.ExtractFromDocument(doc, pageURL), nil
}

// ExtractFromDocument extracts forms from an already-parsed document
func (s *Service) ExtractFromDocument(doc *goquery.Document, pageURL string) *models.PageForms {
	result := &models.PageForms{
		PageTitle: strings.TrimSpace(doc.Find("title").First().Text()),
		FormURL:   PageURL(pageURL),
		Forms:     []models.ExtractedForm{},
	}

	doc.Find("form").Each(func(i int, form *goquery.Selection) {
		extracted := models.ExtractedForm{
			FormContext: s.formContext(form),
			Fields:      []models.ExtractedField{},
		}

		form.Find("input, select, textarea").Each(func(j int, control *goquery.Selection) {
			extracted.Fields = append(extracted.Fields, s.extractField(doc, form, control))
		})

		result.Forms = append(result.Forms, extracted)
	})

	s.logger.Debug().
		Str("url", result.FormURL).
		Int("forms", len(result.Forms)).
		Int("fields", result.FieldCount()).
		Msg("Extracted forms from page")

	return result
}

// PageURL reduces a raw URL to origin + pathname, the form a connector's
// recorded URL field uses. Query strings and fragments are dropped.
func PageURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	return u.Scheme + "://" + u.Host + u.Path
}

// extractField builds an ExtractedField for one control, resolving its
// label through four fallback tiers: explicit label[for], wrapping label,
// nearby text, then aria attributes.
func (s *Service) extractField(doc *goquery.Document, form *goquery.Selection, control *goquery.Selection) models.ExtractedField {
	id, _ := control.Attr("id")
	name, _ := control.Attr("name")
	placeholder, _ := control.Attr("placeholder")
	fieldType, _ := control.Attr("type")
	if fieldType == "" {
		fieldType = "text"
	}

	field := models.ExtractedField{
		ID:          id,
		Name:        name,
		Type:        fieldType,
		Placeholder: placeholder,
	}

	// Tier 1: explicit label scoped to the same form
	if id != "" {
		label := form.Find(fmt.Sprintf(`label[for=%q]`, id)).First()
		if label.Length() > 0 {
			field.Label = strings.TrimSpace(label.Text())
		}
	}

	// Tier 2: wrapping label, with the control's own value stripped out
	if field.Label == "" {
		wrapping := control.Closest("label")
		if wrapping.Length() > 0 {
			text := wrapping.Text()
			if value, ok := control.Attr("value"); ok && value != "" {
				text = strings.ReplaceAll(text, value, "")
			}
			field.Label = strings.TrimSpace(text)
		}
	}

	// Tier 3: nearby text from preceding siblings, then nearby ancestors
	if field.Label == "" {
		field.NearbyText = s.nearbyText(control)
	}

	// Tier 4: aria attributes
	if field.Label == "" && field.NearbyText == "" {
		if ariaLabel, ok := control.Attr("aria-label"); ok && strings.TrimSpace(ariaLabel) != "" {
			field.Label = strings.TrimSpace(ariaLabel)
		} else if labelledBy, ok := control.Attr("aria-labelledby"); ok && labelledBy != "" {
			// Attribute selector, not #id: referenced ids may contain
			// selector metacharacters (dots, brackets)
			ref := doc.Find(fmt.Sprintf("[id=%s]", strconv.Quote(labelledBy))).First()
			if ref.Length() > 0 {
				field.Label = strings.TrimSpace(ref.Text())
			}
		}
	}

	return field
}

// nearbyText scans preceding siblings closest-first, then up to three
// ancestor levels for short text-bearing elements.
func (s *Service) nearbyText(control *goquery.Selection) string {
	for prev := control.Prev(); prev.Length() > 0; prev = prev.Prev() {
		text := strings.TrimSpace(prev.Text())
		if len(text) > 2 && hasLetter(text) {
			return text
		}
	}

	controlValue, _ := control.Attr("value")

	parent := control.Parent()
	for level := 0; level < 3 && parent.Length() > 0; level++ {
		found := ""
		parent.Find("span, div, p, h1, h2, h3, h4, h5, h6, strong, b").EachWithBreak(func(i int, candidate *goquery.Selection) bool {
			// Containers that wrap controls are layout, not labels
			if candidate.Find("input, select, textarea").Length() > 0 {
				return true
			}
			text := strings.TrimSpace(candidate.Text())
			if len(text) > 2 && len(text) < 50 && hasLetter(text) && text != controlValue {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
		parent = parent.Parent()
	}

	return ""
}

// formContext returns the heading of the section the form sits in
func (s *Service) formContext(form *goquery.Selection) string {
	container := form.Closest("section, div, article")
	if container.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(container.Find("h1, h2, h3").First().Text())
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
