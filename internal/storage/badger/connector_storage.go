package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/formfill/internal/interfaces"
	"github.com/ternarybob/formfill/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ConnectorStorage implements the ConnectorStorage interface for Badger
type ConnectorStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewConnectorStorage creates a new ConnectorStorage instance
func NewConnectorStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ConnectorStorage {
	return &ConnectorStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ConnectorStorage) Save(ctx context.Context, connector *models.Connector) error {
	if connector.ID == "" {
		return fmt.Errorf("connector ID is required")
	}
	if err := s.db.Store().Upsert(connector.ID, connector); err != nil {
		return fmt.Errorf("failed to save connector: %w", err)
	}
	return nil
}

func (s *ConnectorStorage) Get(ctx context.Context, id string) (*models.Connector, error) {
	var connector models.Connector
	if err := s.db.Store().Get(id, &connector); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrConnectorNotFound
		}
		return nil, fmt.Errorf("failed to get connector: %w", err)
	}
	return &connector, nil
}

// GetByTitle returns the connector with the given title, matched
// case-insensitively.
func (s *ConnectorStorage) GetByTitle(ctx context.Context, title string) (*models.Connector, error) {
	connectors, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range connectors {
		if c.TitleEquals(title) {
			return c, nil
		}
	}
	return nil, interfaces.ErrConnectorNotFound
}

// List returns all connectors ordered by creation time, oldest first. This
// is the stored order suggestion lists preserve.
func (s *ConnectorStorage) List(ctx context.Context) ([]*models.Connector, error) {
	var connectors []models.Connector
	if err := s.db.Store().Find(&connectors, badgerhold.Where("ID").Ne("").SortBy("CreatedAt")); err != nil {
		return nil, fmt.Errorf("failed to list connectors: %w", err)
	}

	result := make([]*models.Connector, len(connectors))
	for i := range connectors {
		result[i] = &connectors[i]
	}
	return result, nil
}

func (s *ConnectorStorage) Delete(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.Connector{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return interfaces.ErrConnectorNotFound
		}
		return fmt.Errorf("failed to delete connector: %w", err)
	}
	return nil
}

func (s *ConnectorStorage) Count(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Connector{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count connectors: %w", err)
	}
	return int(count), nil
}
