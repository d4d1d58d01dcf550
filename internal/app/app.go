package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/formfill/internal/common"
	"github.com/ternarybob/formfill/internal/handlers"
	"github.com/ternarybob/formfill/internal/interfaces"
	"github.com/ternarybob/formfill/internal/services/autofill"
	"github.com/ternarybob/formfill/internal/services/cleaner"
	"github.com/ternarybob/formfill/internal/services/connectors"
	"github.com/ternarybob/formfill/internal/services/events"
	"github.com/ternarybob/formfill/internal/services/extractor"
	"github.com/ternarybob/formfill/internal/services/llm"
	"github.com/ternarybob/formfill/internal/services/matcher"
	"github.com/ternarybob/formfill/internal/services/page"
	"github.com/ternarybob/formfill/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Event bus and user-facing notifications
	EventService interfaces.EventService
	Notifier     interfaces.Notifier

	// Core services
	ExtractorService *extractor.Service
	CleanerService   *cleaner.Service
	MatcherService   *matcher.Service
	ConnectorService *connectors.Service
	AutofillService  *autofill.Service
	LLMFactory       interfaces.LLMFactory

	// Page retrieval, browser-backed when render_js is enabled
	PageSource interfaces.PageSource

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	ConnectorHandler *handlers.ConnectorHandler
	SettingsHandler  *handlers.SettingsHandler
	PageHandler      *handlers.PageHandler
	WSHandler        *handlers.WebSocketHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	storageManager, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	app.EventService = events.NewService(logger)
	app.Notifier = events.NewNotifier(app.EventService, logger)
	app.WSHandler = handlers.NewWebSocketHandler(app.EventService, logger)

	app.ExtractorService = extractor.NewService(logger)
	app.CleanerService = cleaner.NewService(logger)
	app.MatcherService = matcher.NewService(logger)
	app.ConnectorService = connectors.NewService(storageManager.ConnectorStorage(), app.EventService, logger)
	app.LLMFactory = llm.NewFactory(cfg, storageManager.SettingsStorage(), logger)

	if cfg.Page.RenderJS {
		app.PageSource = page.NewBrowser(&cfg.Page, logger)
		logger.Info().Msg("Page source: headless browser")
	} else {
		app.PageSource = page.NewFetcher(&cfg.Page, logger)
		logger.Info().Msg("Page source: HTTP fetcher")
	}

	app.AutofillService = autofill.NewService(
		storageManager.ConnectorStorage(),
		app.MatcherService,
		app.ExtractorService,
		app.LLMFactory,
		app.Notifier,
		logger,
	)

	app.APIHandler = handlers.NewAPIHandler()
	app.ConnectorHandler = handlers.NewConnectorHandler(app.ConnectorService, logger)
	app.SettingsHandler = handlers.NewSettingsHandler(storageManager.SettingsStorage(), app.EventService, logger)
	app.PageHandler = handlers.NewPageHandler(
		app.PageSource,
		app.ExtractorService,
		app.CleanerService,
		app.MatcherService,
		app.AutofillService,
		storageManager.ConnectorStorage(),
		storageManager.SettingsStorage(),
		logger,
	)

	logger.Info().Msg("Application initialized")
	return app, nil
}

// Close releases application resources in reverse dependency order
func (a *App) Close() {
	if browser, ok := a.PageSource.(*page.Browser); ok {
		if err := browser.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close browser")
		}
	}

	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
	}
}
