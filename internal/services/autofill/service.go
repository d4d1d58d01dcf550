package autofill

import (
	"context"
	"errors"
	"sort"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/formfill/internal/interfaces"
	"github.com/ternarybob/formfill/internal/models"
	"github.com/ternarybob/formfill/internal/services/extractor"
	"github.com/ternarybob/formfill/internal/services/llm"
	"github.com/ternarybob/formfill/internal/services/matcher"
)

// Service runs the autofill sequence: load connectors, match them to the
// page, extract the form fields, ask the model for a field map, and apply
// it. Every failure class gets its own user-facing notification; the
// trigger itself never sees an error.
type Service struct {
	connectors interfaces.ConnectorStorage
	matcher    *matcher.Service
	extractor  *extractor.Service
	llm        interfaces.LLMFactory
	notifier   interfaces.Notifier
	logger     arbor.ILogger
}

// NewService creates a new autofill service
func NewService(
	connectors interfaces.ConnectorStorage,
	matcherSvc *matcher.Service,
	extractorSvc *extractor.Service,
	llmFactory interfaces.LLMFactory,
	notifier interfaces.Notifier,
	logger arbor.ILogger,
) *Service {
	return &Service{
		connectors: connectors,
		matcher:    matcherSvc,
		extractor:  extractorSvc,
		llm:        llmFactory,
		notifier:   notifier,
		logger:     logger,
	}
}

// Run performs one autofill pass over the given page. connectorName, when
// set, pins the run to a specific connector; otherwise connectors are
// matched against the page title. A nil result means storage was
// unreachable and the run stopped silently.
func (s *Service) Run(ctx context.Context, snapshot *interfaces.PageSnapshot, filler interfaces.PageFiller, connectorName string) *models.AutofillResult {
	all, err := s.connectors.List(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Connector storage unreachable, autofill skipped")
		return nil
	}

	if len(all) == 0 {
		s.notifier.Error("No connectors found. Please add a connector first.")
		return &models.AutofillResult{Status: models.AutofillStatusNoConnectors}
	}

	page, err := s.extractor.ExtractForms(snapshot.HTML, snapshot.URL)
	if err != nil {
		s.logger.Error().Err(err).Str("url", snapshot.URL).Msg("Failed to extract forms")
		s.notifier.Error("Could not read the page.")
		return &models.AutofillResult{Status: models.AutofillStatusFailed, Message: "page extraction failed"}
	}

	var matched []*models.Connector
	if connectorName != "" {
		matched = s.matcher.MatchByName(all, connectorName)
	} else {
		matched = s.matcher.MatchByTitle(all, page.PageTitle)
	}
	if len(matched) == 0 {
		s.notifier.Error("No credentials found for this page.")
		return &models.AutofillResult{Status: models.AutofillStatusNoMatch, FormsScanned: len(page.Forms)}
	}

	result := &models.AutofillResult{
		FormsScanned: len(page.Forms),
		Connectors:   connectorTitles(matched),
	}

	if page.FieldCount() == 0 {
		s.notifier.Warning("No form fields found on this page.")
		result.Status = models.AutofillStatusFailed
		result.Message = "no form fields on page"
		return result
	}

	provider, err := s.llm.Provider(ctx)
	if err != nil {
		if errors.Is(err, llm.ErrNoAPIKey) {
			s.notifier.Error("Gemini API key not found. Please set it in settings.")
			result.Status = models.AutofillStatusNoAPIKey
			return result
		}
		s.logger.Error().Err(err).Msg("Failed to initialize LLM provider")
		s.notifier.Error("Autofill request failed. Please try again.")
		result.Status = models.AutofillStatusFailed
		result.Message = "provider initialization failed"
		return result
	}
	defer provider.Close()

	prompt, err := BuildPrompt(page, matched)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build autofill prompt")
		s.notifier.Error("Autofill request failed. Please try again.")
		result.Status = models.AutofillStatusFailed
		result.Message = "prompt build failed"
		return result
	}

	response, err := provider.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("provider", provider.Provider()).Msg("LLM completion failed")
		s.notifier.Error("Autofill request failed. Please try again.")
		result.Status = models.AutofillStatusFailed
		result.Message = "completion failed"
		return result
	}

	fieldMap, err := llm.ExtractFieldMap(response)
	if err != nil {
		s.logger.Error().Err(err).Msg("Could not parse field map from model response")
		s.notifier.Error("Could not understand the model response.")
		result.Status = models.AutofillStatusFailed
		result.Message = "unparseable model response"
		return result
	}
	result.FieldMap = fieldMap

	for _, id := range sortedKeys(fieldMap) {
		if err := filler.SetFieldValue(ctx, id, fieldMap[id]); err != nil {
			if errors.Is(err, interfaces.ErrElementNotFound) {
				s.logger.Warn().Str("element_id", id).Msg("Mapped element not found on page")
			} else {
				s.logger.Warn().Err(err).Str("element_id", id).Msg("Failed to fill element")
			}
			result.Missing = append(result.Missing, id)
			continue
		}
		result.Applied = append(result.Applied, id)
	}

	s.notifier.Success("Form autofill successful")
	result.Status = models.AutofillStatusFilled

	s.logger.Info().
		Str("url", snapshot.URL).
		Int("applied", len(result.Applied)).
		Int("missing", len(result.Missing)).
		Msg("Autofill run complete")

	return result
}

func connectorTitles(connectors []*models.Connector) []string {
	titles := make([]string, 0, len(connectors))
	for _, c := range connectors {
		titles = append(titles, c.Title)
	}
	return titles
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
