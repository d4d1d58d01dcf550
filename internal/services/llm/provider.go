package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/formfill/internal/common"
	"github.com/ternarybob/formfill/internal/interfaces"
	"github.com/ternarybob/formfill/internal/models"
)

// ErrNoAPIKey is returned when no API key is available for the configured
// provider. Callers surface this as a distinct user-facing message.
var ErrNoAPIKey = errors.New("no API key configured")

// Factory builds an LLM provider on demand. The API key is resolved from
// the settings store at call time, so a key saved through the settings API
// takes effect on the next autofill without a restart.
type Factory struct {
	config   *common.Config
	settings interfaces.SettingsStorage
	logger   arbor.ILogger
}

// NewFactory creates a new LLM provider factory
func NewFactory(config *common.Config, settings interfaces.SettingsStorage, logger arbor.ILogger) *Factory {
	return &Factory{
		config:   config,
		settings: settings,
		logger:   logger,
	}
}

// Provider returns an LLMService for the configured default provider
func (f *Factory) Provider(ctx context.Context) (interfaces.LLMService, error) {
	switch f.config.LLM.DefaultProvider {
	case common.LLMProviderClaude:
		if f.config.Claude.APIKey == "" {
			return nil, fmt.Errorf("claude: %w", ErrNoAPIKey)
		}
		return NewClaudeService(f.config.Claude.APIKey, &f.config.Claude, f.logger)

	case common.LLMProviderGemini, "":
		apiKey, err := f.resolveGeminiKey(ctx)
		if err != nil {
			return nil, err
		}
		return NewGeminiService(ctx, apiKey, &f.config.Gemini, f.logger)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", f.config.LLM.DefaultProvider)
	}
}

// resolveGeminiKey resolves the Gemini API key: settings store first (the
// key the user saved through the API), then config/env fallback.
func (f *Factory) resolveGeminiKey(ctx context.Context) (string, error) {
	if f.settings != nil {
		key, err := f.settings.Get(ctx, models.SettingGeminiAPIKey)
		if err == nil && key != "" {
			return key, nil
		}
		if err != nil && err != interfaces.ErrSettingNotFound {
			f.logger.Warn().Err(err).Msg("Failed to read API key from settings store")
		}
	}

	if f.config.Gemini.APIKey != "" {
		return f.config.Gemini.APIKey, nil
	}

	return "", fmt.Errorf("gemini: %w", ErrNoAPIKey)
}
