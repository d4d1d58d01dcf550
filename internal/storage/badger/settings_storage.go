package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/formfill/internal/interfaces"
	"github.com/ternarybob/formfill/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SettingsStorage implements the SettingsStorage interface for Badger
type SettingsStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSettingsStorage creates a new SettingsStorage instance
func NewSettingsStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SettingsStorage {
	return &SettingsStorage{
		db:     db,
		logger: logger,
	}
}

func (s *SettingsStorage) Get(ctx context.Context, key string) (string, error) {
	var setting models.Setting
	if err := s.db.Store().Get(key, &setting); err != nil {
		if err == badgerhold.ErrNotFound {
			return "", interfaces.ErrSettingNotFound
		}
		return "", fmt.Errorf("failed to get setting: %w", err)
	}
	return setting.Value, nil
}

func (s *SettingsStorage) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("setting key is required")
	}

	now := time.Now()
	setting := models.Setting{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Preserve the original creation time on update
	var existing models.Setting
	if err := s.db.Store().Get(key, &existing); err == nil {
		setting.CreatedAt = existing.CreatedAt
	}

	if err := s.db.Store().Upsert(key, setting); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	return nil
}

func (s *SettingsStorage) GetAll(ctx context.Context) (map[string]string, error) {
	var settings []models.Setting
	if err := s.db.Store().Find(&settings, nil); err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	result := make(map[string]string, len(settings))
	for _, setting := range settings {
		result[setting.Key] = setting.Value
	}
	return result, nil
}

func (s *SettingsStorage) Delete(ctx context.Context, key string) error {
	if err := s.db.Store().Delete(key, &models.Setting{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return interfaces.ErrSettingNotFound
		}
		return fmt.Errorf("failed to delete setting: %w", err)
	}
	return nil
}
