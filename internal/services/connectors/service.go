package connectors

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/formfill/internal/interfaces"
	"github.com/ternarybob/formfill/internal/models"
)

// Service manages connector authoring: create, merge, list, and delete
type Service struct {
	storage  interfaces.ConnectorStorage
	events   interfaces.EventService
	logger   arbor.ILogger
	validate *validator.Validate
}

// NewService creates a new connector service
func NewService(storage interfaces.ConnectorStorage, events interfaces.EventService, logger arbor.ILogger) *Service {
	return &Service{
		storage:  storage,
		events:   events,
		logger:   logger,
		validate: validator.New(),
	}
}

// Save stores a connector, merging with any existing connector of the same
// title (case-insensitive). A merge keeps the stored ID and creation time so
// the connector holds its place in the list.
func (s *Service) Save(ctx context.Context, connector *models.Connector) (*models.Connector, error) {
	if err := s.validate.Struct(connector); err != nil {
		return nil, fmt.Errorf("invalid connector: %w", err)
	}

	now := time.Now()

	existing, err := s.storage.GetByTitle(ctx, connector.Title)
	switch {
	case err == nil:
		connector.ID = existing.ID
		connector.CreatedAt = existing.CreatedAt
	case err == interfaces.ErrConnectorNotFound:
		connector.ID = uuid.New().String()
		connector.CreatedAt = now
	default:
		return nil, fmt.Errorf("failed to look up connector title: %w", err)
	}
	connector.UpdatedAt = now

	if err := s.storage.Save(ctx, connector); err != nil {
		return nil, err
	}

	s.logger.Info().Str("title", connector.Title).Msg("Connector saved")
	s.publishChange(ctx, connector.Title)

	return connector, nil
}

// Get retrieves a connector by title
func (s *Service) Get(ctx context.Context, title string) (*models.Connector, error) {
	return s.storage.GetByTitle(ctx, title)
}

// List retrieves all connectors in stored order
func (s *Service) List(ctx context.Context) ([]*models.Connector, error) {
	connectors, err := s.storage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list connectors: %w", err)
	}
	return connectors, nil
}

// Delete removes the connector with the given title
func (s *Service) Delete(ctx context.Context, title string) error {
	connector, err := s.storage.GetByTitle(ctx, title)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, connector.ID); err != nil {
		return fmt.Errorf("failed to delete connector: %w", err)
	}

	s.logger.Info().Str("title", title).Msg("Connector deleted")
	s.publishChange(ctx, title)

	return nil
}

func (s *Service) publishChange(ctx context.Context, title string) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, interfaces.Event{
		Type:    interfaces.EventConnectorChanged,
		Payload: title,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to publish connector change event")
	}
}
