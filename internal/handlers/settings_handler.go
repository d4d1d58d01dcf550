package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/formfill/internal/interfaces"
	"github.com/ternarybob/formfill/internal/models"
)

// SettingsHandler handles application settings HTTP requests
type SettingsHandler struct {
	settings interfaces.SettingsStorage
	events   interfaces.EventService
	logger   arbor.ILogger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings interfaces.SettingsStorage, events interfaces.EventService, logger arbor.ILogger) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		events:   events,
		logger:   logger,
	}
}

// SettingsRoute handles /api/settings - GET returns the current settings with
// the API key masked, PUT updates the provided settings.
func (h *SettingsHandler) SettingsRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		h.getSettings(w, r)
	case "PUT":
		h.updateSettings(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	apiKey, err := h.settings.Get(r.Context(), models.SettingGeminiAPIKey)
	if err != nil && !errors.Is(err, interfaces.ErrSettingNotFound) {
		h.logger.Error().Err(err).Msg("Failed to read settings")
		WriteError(w, http.StatusInternalServerError, "Failed to read settings")
		return
	}

	// Suggestions are on unless explicitly disabled
	suggestionsEnabled := true
	if value, err := h.settings.Get(r.Context(), models.SettingSuggestionsEnabled); err == nil {
		if parsed, perr := strconv.ParseBool(value); perr == nil {
			suggestionsEnabled = parsed
		}
	}

	response := map[string]interface{}{
		models.SettingSuggestionsEnabled: suggestionsEnabled,
		"hasGeminiApiKey":                apiKey != "",
	}
	if apiKey != "" {
		response[models.SettingGeminiAPIKey] = maskValue(apiKey)
	} else {
		response[models.SettingGeminiAPIKey] = ""
	}

	WriteJSON(w, http.StatusOK, response)
}

func (h *SettingsHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GeminiAPIKey       *string `json:"geminiApiKey"`
		SuggestionsEnabled *bool   `json:"suggestionsEnabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse settings body")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.GeminiAPIKey == nil && req.SuggestionsEnabled == nil {
		WriteError(w, http.StatusBadRequest, "No settings provided")
		return
	}

	if req.GeminiAPIKey != nil {
		if err := h.set(r, models.SettingGeminiAPIKey, *req.GeminiAPIKey); err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to save settings")
			return
		}
	}

	if req.SuggestionsEnabled != nil {
		if err := h.set(r, models.SettingSuggestionsEnabled, strconv.FormatBool(*req.SuggestionsEnabled)); err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to save settings")
			return
		}
	}

	WriteSuccess(w, "Settings saved successfully")
}

func (h *SettingsHandler) set(r *http.Request, key, value string) error {
	if err := h.settings.Set(r.Context(), key, value); err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("Failed to save setting")
		return err
	}

	h.logger.Info().Str("key", key).Msg("Setting saved")

	if h.events != nil {
		if err := h.events.Publish(r.Context(), interfaces.Event{
			Type:    interfaces.EventSettingChanged,
			Payload: key,
		}); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to publish setting change event")
		}
	}

	return nil
}
