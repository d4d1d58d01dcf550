package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/formfill/internal/interfaces"
	"github.com/ternarybob/formfill/internal/models"
	"github.com/ternarybob/formfill/internal/services/autofill"
	"github.com/ternarybob/formfill/internal/services/cleaner"
	"github.com/ternarybob/formfill/internal/services/extractor"
	"github.com/ternarybob/formfill/internal/services/matcher"
	"github.com/ternarybob/formfill/internal/services/page"
)

// PageHandler handles page extraction, autofill, and suggestion HTTP requests
type PageHandler struct {
	source     interfaces.PageSource
	extractor  *extractor.Service
	cleaner    *cleaner.Service
	matcher    *matcher.Service
	autofill   *autofill.Service
	connectors interfaces.ConnectorStorage
	settings   interfaces.SettingsStorage
	logger     arbor.ILogger
}

// NewPageHandler creates a new page handler
func NewPageHandler(
	source interfaces.PageSource,
	extractorSvc *extractor.Service,
	cleanerSvc *cleaner.Service,
	matcherSvc *matcher.Service,
	autofillSvc *autofill.Service,
	connectors interfaces.ConnectorStorage,
	settings interfaces.SettingsStorage,
	logger arbor.ILogger,
) *PageHandler {
	return &PageHandler{
		source:     source,
		extractor:  extractorSvc,
		cleaner:    cleanerSvc,
		matcher:    matcherSvc,
		autofill:   autofillSvc,
		connectors: connectors,
		settings:   settings,
		logger:     logger,
	}
}

// pageRequest is the shared request body for extract and autofill. HTML can
// be supplied directly (the caller already has the page) or left empty to
// have the server fetch the URL.
type pageRequest struct {
	URL           string `json:"url"`
	HTML          string `json:"html"`
	ConnectorName string `json:"connectorName"`
}

// ExtractHandler handles POST /api/page/extract - extracts form fields from
// a page and returns them with cleaned names, ready to prefill a connector.
func (h *PageHandler) ExtractHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	req, snapshot, ok := h.resolvePage(w, r)
	if !ok {
		return
	}

	forms, err := h.extractor.ExtractForms(snapshot.HTML, snapshot.URL)
	if err != nil {
		h.logger.Error().Err(err).Str("url", req.URL).Msg("Failed to extract forms")
		WriteError(w, http.StatusUnprocessableEntity, "Could not read the page")
		return
	}

	fields := []models.CleanedField{}
	for _, form := range forms.Forms {
		fields = append(fields, h.cleaner.CleanFields(form.Fields)...)
	}

	h.logger.Debug().
		Str("url", req.URL).
		Int("forms", len(forms.Forms)).
		Int("fields", len(fields)).
		Msg("Extracted page fields")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"pageTitle":      forms.PageTitle,
		"formUrl":        forms.FormURL,
		"formsCount":     len(forms.Forms),
		"fields":         fields,
		"suggestedTitle": cleaner.SuggestConnectorTitle(forms.PageTitle),
	})
}

// AutofillHandler handles POST /api/page/autofill - runs one autofill pass
// over the page and reports what was filled.
func (h *PageHandler) AutofillHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	req, snapshot, ok := h.resolvePage(w, r)
	if !ok {
		return
	}

	filler, err := h.fillerFor(req, snapshot)
	if err != nil {
		h.logger.Error().Err(err).Str("url", req.URL).Msg("Failed to prepare page filler")
		WriteError(w, http.StatusUnprocessableEntity, "Could not read the page")
		return
	}

	result := h.autofill.Run(r.Context(), snapshot, filler, req.ConnectorName)
	if result == nil {
		WriteError(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// SuggestionsHandler handles GET /api/suggestions?url=... - returns the
// connectors whose stored form URL exactly matches the page, in stored
// order. Honors the suggestionsEnabled setting.
func (h *PageHandler) SuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	pageURL := r.URL.Query().Get("url")
	if pageURL == "" {
		WriteError(w, http.StatusBadRequest, "Missing url parameter")
		return
	}

	if !h.suggestionsEnabled(r) {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"enabled":     false,
			"suggestions": []string{},
		})
		return
	}

	all, err := h.connectors.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list connectors for suggestions")
		WriteError(w, http.StatusInternalServerError, "Failed to load suggestions")
		return
	}

	matched, err := h.matcher.MatchByURL(all, pageURL)
	if err != nil && !errors.Is(err, matcher.ErrNoConnectors) {
		h.logger.Error().Err(err).Str("url", pageURL).Msg("Failed to match connectors by URL")
		WriteError(w, http.StatusInternalServerError, "Failed to load suggestions")
		return
	}

	suggestions := make([]map[string]interface{}, 0, len(matched))
	for _, connector := range matched {
		suggestions = append(suggestions, map[string]interface{}{
			"id":    connector.ID,
			"title": connector.Title,
		})
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"enabled":     true,
		"suggestions": suggestions,
	})
}

// resolvePage parses the request body and produces the page snapshot, either
// from supplied HTML or by fetching the URL.
func (h *PageHandler) resolvePage(w http.ResponseWriter, r *http.Request) (*pageRequest, *interfaces.PageSnapshot, bool) {
	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse page request body")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return nil, nil, false
	}

	if req.URL == "" {
		WriteError(w, http.StatusBadRequest, "URL is required")
		return nil, nil, false
	}

	if req.HTML != "" {
		return &req, &interfaces.PageSnapshot{URL: req.URL, HTML: req.HTML}, true
	}

	snapshot, err := h.source.Fetch(r.Context(), req.URL)
	if err != nil {
		h.logger.Error().Err(err).Str("url", req.URL).Msg("Failed to fetch page")
		WriteError(w, http.StatusBadGateway, "Failed to fetch page")
		return nil, nil, false
	}

	return &req, snapshot, true
}

// fillerFor picks the filler for an autofill run. When the page source is a
// live browser and the page was fetched through it, values go into the real
// tab; otherwise they are applied to the snapshot.
func (h *PageHandler) fillerFor(req *pageRequest, snapshot *interfaces.PageSnapshot) (interfaces.PageFiller, error) {
	if req.HTML == "" {
		if filler, ok := h.source.(interfaces.PageFiller); ok {
			return filler, nil
		}
	}
	return page.NewSnapshotFiller(snapshot.HTML)
}

// suggestionsEnabled reads the suggestionsEnabled setting, defaulting to true
func (h *PageHandler) suggestionsEnabled(r *http.Request) bool {
	value, err := h.settings.Get(r.Context(), models.SettingSuggestionsEnabled)
	if err != nil {
		return true
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return true
	}
	return parsed
}
