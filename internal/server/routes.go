package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Connectors. Import and export are registered before the
	// trailing-slash route so they are not swallowed by the title route.
	mux.HandleFunc("/api/connectors/import", s.app.ConnectorHandler.ImportHandler) // POST - import from export payload
	mux.HandleFunc("/api/connectors/export", s.app.ConnectorHandler.ExportHandler) // POST - export named connectors
	mux.HandleFunc("/api/connectors", s.app.ConnectorHandler.ConnectorsHandler)    // GET (list), POST (create/merge)
	mux.HandleFunc("/api/connectors/", s.app.ConnectorHandler.ConnectorByTitleHandler)

	// API routes - Settings
	mux.HandleFunc("/api/settings", s.app.SettingsHandler.SettingsRoute) // GET, PUT

	// API routes - Page operations
	mux.HandleFunc("/api/page/extract", s.app.PageHandler.ExtractHandler)   // POST - extract form fields
	mux.HandleFunc("/api/page/autofill", s.app.PageHandler.AutofillHandler) // POST - run autofill
	mux.HandleFunc("/api/suggestions", s.app.PageHandler.SuggestionsHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
