package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/formfill/internal/interfaces"
	"github.com/ternarybob/formfill/internal/models"
	"github.com/ternarybob/formfill/internal/services/connectors"
)

// ConnectorHandler handles connector CRUD, import, and export HTTP requests
type ConnectorHandler struct {
	service *connectors.Service
	logger  arbor.ILogger
}

// NewConnectorHandler creates a new connector handler
func NewConnectorHandler(service *connectors.Service, logger arbor.ILogger) *ConnectorHandler {
	return &ConnectorHandler{
		service: service,
		logger:  logger,
	}
}

// ConnectorsHandler handles /api/connectors - GET lists all connectors with
// masked field values, POST creates or merges a connector.
func (h *ConnectorHandler) ConnectorsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		h.listConnectors(w, r)
	case "POST":
		h.saveConnector(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ConnectorHandler) listConnectors(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list connectors")
		WriteError(w, http.StatusInternalServerError, "Failed to list connectors")
		return
	}

	// Field values are masked in list responses - full values only come back
	// on a GET for a specific connector
	sanitized := make([]map[string]interface{}, len(list))
	for i, connector := range list {
		sanitized[i] = h.sanitizeConnector(connector, true)
	}

	h.logger.Debug().Int("count", len(list)).Msg("Listed connectors")
	WriteJSON(w, http.StatusOK, sanitized)
}

func (h *ConnectorHandler) saveConnector(w http.ResponseWriter, r *http.Request) {
	var connector models.Connector
	if err := json.NewDecoder(r.Body).Decode(&connector); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse connector body")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.service.Save(r.Context(), &connector)
	if err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			WriteError(w, http.StatusBadRequest, "Connector requires a title and at least one field with id and value")
			return
		}
		h.logger.Error().Err(err).Str("title", connector.Title).Msg("Failed to save connector")
		WriteError(w, http.StatusInternalServerError, "Failed to save connector")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Connector saved successfully",
		"id":      saved.ID,
		"title":   saved.Title,
	})
}

// ConnectorByTitleHandler handles /api/connectors/{title} - GET retrieves a
// connector with full field values, DELETE removes it.
func (h *ConnectorHandler) ConnectorByTitleHandler(w http.ResponseWriter, r *http.Request) {
	encodedTitle := r.URL.Path[len("/api/connectors/"):]

	title, err := url.QueryUnescape(encodedTitle)
	if err != nil {
		h.logger.Error().Err(err).Str("encoded_title", encodedTitle).Msg("Failed to decode title")
		WriteError(w, http.StatusBadRequest, "Invalid title encoding")
		return
	}

	if title == "" {
		WriteError(w, http.StatusBadRequest, "Missing title parameter")
		return
	}

	switch r.Method {
	case "GET":
		h.getConnector(w, r, title)
	case "DELETE":
		h.deleteConnector(w, r, title)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ConnectorHandler) getConnector(w http.ResponseWriter, r *http.Request, title string) {
	connector, err := h.service.Get(r.Context(), title)
	if err != nil {
		if errors.Is(err, interfaces.ErrConnectorNotFound) {
			WriteError(w, http.StatusNotFound, "Connector not found")
			return
		}
		h.logger.Error().Err(err).Str("title", title).Msg("Failed to get connector")
		WriteError(w, http.StatusInternalServerError, "Failed to retrieve connector")
		return
	}

	// Full values for editing
	h.logger.Debug().Str("title", title).Msg("Retrieved connector")
	WriteJSON(w, http.StatusOK, h.sanitizeConnector(connector, false))
}

func (h *ConnectorHandler) deleteConnector(w http.ResponseWriter, r *http.Request, title string) {
	if err := h.service.Delete(r.Context(), title); err != nil {
		if errors.Is(err, interfaces.ErrConnectorNotFound) {
			WriteError(w, http.StatusNotFound, "Connector not found")
			return
		}
		h.logger.Error().Err(err).Str("title", title).Msg("Failed to delete connector")
		WriteError(w, http.StatusInternalServerError, "Failed to delete connector")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Connector deleted successfully",
	})
}

// ImportHandler handles POST /api/connectors/import - imports connectors from
// an export payload, renaming on title collision.
func (h *ConnectorHandler) ImportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		Data string `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse import body")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Data == "" {
		WriteError(w, http.StatusBadRequest, "Data is required")
		return
	}

	titles, err := h.service.Import(r.Context(), req.Data)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Connector import rejected")
		WriteError(w, http.StatusBadRequest, "Import data is not a valid connector export")
		return
	}

	h.logger.Info().Int("count", len(titles)).Msg("Connectors imported")
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"imported": titles,
		"count":    len(titles),
	})
}

// ExportHandler handles POST /api/connectors/export - exports the named
// connectors as a Base64 envelope.
func (h *ConnectorHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		Titles []string `json:"titles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse export body")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Titles) == 0 {
		WriteError(w, http.StatusBadRequest, "Titles are required")
		return
	}

	result, err := h.service.Export(r.Context(), req.Titles)
	if err != nil {
		if errors.Is(err, interfaces.ErrConnectorNotFound) {
			WriteError(w, http.StatusNotFound, "Connector not found")
			return
		}
		h.logger.Error().Err(err).Msg("Failed to export connectors")
		WriteError(w, http.StatusInternalServerError, "Failed to export connectors")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"encoded": result.Encoded,
		"decoded": json.RawMessage(result.Decoded),
	})
}

// sanitizeConnector renders a connector for API responses, optionally masking
// field values
func (h *ConnectorHandler) sanitizeConnector(connector *models.Connector, mask bool) map[string]interface{} {
	fields := make([]map[string]interface{}, len(connector.Fields))
	for i, field := range connector.Fields {
		value := field.Value
		if mask {
			value = maskValue(value)
		}
		fields[i] = map[string]interface{}{
			"id":          field.ID,
			"value":       value,
			"isMultiline": field.IsMultiline,
		}
	}

	return map[string]interface{}{
		"id":         connector.ID,
		"title":      connector.Title,
		"fields":     fields,
		"created_at": connector.CreatedAt,
		"updated_at": connector.UpdatedAt,
	}
}
