package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/formfill/internal/models"
)

// Sentinel errors returned by storage implementations
var (
	ErrConnectorNotFound = errors.New("connector not found")
	ErrSettingNotFound   = errors.New("setting not found")
)

// ConnectorStorage - interface for connector persistence.
// List returns connectors in stored order (creation order), which is the
// order suggestions are shown in.
type ConnectorStorage interface {
	Save(ctx context.Context, connector *models.Connector) error
	Get(ctx context.Context, id string) (*models.Connector, error)
	GetByTitle(ctx context.Context, title string) (*models.Connector, error)
	List(ctx context.Context) ([]*models.Connector, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// SettingsStorage - interface for persisted key/value settings
type SettingsStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	GetAll(ctx context.Context) (map[string]string, error)
	Delete(ctx context.Context, key string) error
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	ConnectorStorage() ConnectorStorage
	SettingsStorage() SettingsStorage

	// DB returns the underlying database connection
	DB() interface{}

	// Close closes the database connection
	Close() error
}
