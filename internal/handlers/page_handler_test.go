package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/formfill/internal/common"
	"github.com/ternarybob/formfill/internal/models"
	"github.com/ternarybob/formfill/internal/services/cleaner"
	"github.com/ternarybob/formfill/internal/services/extractor"
	"github.com/ternarybob/formfill/internal/services/matcher"
)

func newPageTestHandler(connectors *memoryConnectors, settings *memorySettings) *PageHandler {
	logger := common.GetLogger()
	return NewPageHandler(
		nil,
		extractor.NewService(logger),
		cleaner.NewService(logger),
		matcher.NewService(logger),
		nil,
		connectors,
		settings,
		logger,
	)
}

func TestExtractHandlerWithSuppliedHTML(t *testing.T) {
	handler := newPageTestHandler(&memoryConnectors{}, newMemorySettings())

	body := `{"url": "https://db.example.com/setup", "html": "<html><head><title>Database Setup</title></head><body><form><label for=\"db-host\">Host</label><input id=\"db-host\" type=\"text\"></form></body></html>"}`
	req := httptest.NewRequest("POST", "/api/page/extract", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ExtractHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	response := rec.Body.String()
	assert.Contains(t, response, `"pageTitle":"Database Setup"`)
	assert.Contains(t, response, `"formsCount":1`)
	assert.Contains(t, response, `"cleanName":"Host"`)
	assert.Contains(t, response, `"suggestedTitle":"Database Setup"`)
}

func TestExtractHandlerRequiresURL(t *testing.T) {
	handler := newPageTestHandler(&memoryConnectors{}, newMemorySettings())

	req := httptest.NewRequest("POST", "/api/page/extract", strings.NewReader(`{"html": "<html></html>"}`))
	rec := httptest.NewRecorder()
	handler.ExtractHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestionsHandlerMatchesByFormURL(t *testing.T) {
	connectors := &memoryConnectors{items: []*models.Connector{
		{
			ID:    "c1",
			Title: "AWS Console",
			Fields: []models.ConnectorField{
				{ID: models.FormURLFieldID, Value: "https://console.aws.amazon.com/login"},
				{ID: "username", Value: "admin"},
			},
		},
		{
			ID:     "c2",
			Title:  "Jira",
			Fields: []models.ConnectorField{{ID: "u", Value: "x"}},
		},
	}}
	handler := newPageTestHandler(connectors, newMemorySettings())

	req := httptest.NewRequest("GET", "/api/suggestions?url=https%3A%2F%2Fconsole.aws.amazon.com%2Flogin%3Fref%3Dnav", nil)
	rec := httptest.NewRecorder()
	handler.SuggestionsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"enabled":true`)
	assert.Contains(t, body, "AWS Console")
	assert.NotContains(t, body, "Jira")
}

func TestSuggestionsHandlerHonorsDisabledSetting(t *testing.T) {
	settings := newMemorySettings()
	settings.values[models.SettingSuggestionsEnabled] = "false"
	handler := newPageTestHandler(&memoryConnectors{}, settings)

	req := httptest.NewRequest("GET", "/api/suggestions?url=https%3A%2F%2Fexample.com", nil)
	rec := httptest.NewRecorder()
	handler.SuggestionsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"enabled":false`)
}

func TestSuggestionsHandlerRequiresURL(t *testing.T) {
	handler := newPageTestHandler(&memoryConnectors{}, newMemorySettings())

	req := httptest.NewRequest("GET", "/api/suggestions", nil)
	rec := httptest.NewRecorder()
	handler.SuggestionsHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
