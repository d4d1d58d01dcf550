package connectors

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/formfill/internal/common"
	"github.com/ternarybob/formfill/internal/interfaces"
	"github.com/ternarybob/formfill/internal/models"
)

// memoryStorage is an in-memory ConnectorStorage preserving insertion order
type memoryStorage struct {
	connectors []*models.Connector
}

func (m *memoryStorage) Save(ctx context.Context, connector *models.Connector) error {
	clone := *connector
	for i, c := range m.connectors {
		if c.ID == connector.ID {
			m.connectors[i] = &clone
			return nil
		}
	}
	m.connectors = append(m.connectors, &clone)
	return nil
}

func (m *memoryStorage) Get(ctx context.Context, id string) (*models.Connector, error) {
	for _, c := range m.connectors {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, interfaces.ErrConnectorNotFound
}

func (m *memoryStorage) GetByTitle(ctx context.Context, title string) (*models.Connector, error) {
	for _, c := range m.connectors {
		if c.TitleEquals(title) {
			return c, nil
		}
	}
	return nil, interfaces.ErrConnectorNotFound
}

func (m *memoryStorage) List(ctx context.Context) ([]*models.Connector, error) {
	return append([]*models.Connector{}, m.connectors...), nil
}

func (m *memoryStorage) Delete(ctx context.Context, id string) error {
	for i, c := range m.connectors {
		if c.ID == id {
			m.connectors = append(m.connectors[:i], m.connectors[i+1:]...)
			return nil
		}
	}
	return interfaces.ErrConnectorNotFound
}

func (m *memoryStorage) Count(ctx context.Context) (int, error) {
	return len(m.connectors), nil
}

func newTestService() (*Service, *memoryStorage) {
	storage := &memoryStorage{}
	return NewService(storage, nil, common.GetLogger()), storage
}

func testConnector(title string) *models.Connector {
	return &models.Connector{
		Title: title,
		Fields: []models.ConnectorField{
			{ID: "username", Value: "admin"},
			{ID: models.FormURLFieldID, Value: "https://example.com/login"},
		},
	}
}

func TestSaveAssignsIDAndTimestamps(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	saved, err := svc.Save(ctx, testConnector("AWS"))
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.False(t, saved.UpdatedAt.IsZero())
}

func TestSaveMergesByTitleCaseInsensitive(t *testing.T) {
	svc, storage := newTestService()
	ctx := context.Background()

	first, err := svc.Save(ctx, testConnector("AWS Console"))
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	update := testConnector("aws console")
	update.Fields[0].Value = "root"
	second, err := svc.Save(ctx, update)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.CreatedAt))

	all, err := storage.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "root", all[0].Fields[0].Value)
}

func TestSaveRejectsInvalidConnector(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Save(ctx, &models.Connector{Title: "Empty"})
	assert.Error(t, err)

	_, err = svc.Save(ctx, &models.Connector{
		Title:  "Blank Field",
		Fields: []models.ConnectorField{{ID: "username", Value: ""}},
	})
	assert.Error(t, err)

	_, err = svc.Save(ctx, &models.Connector{
		Fields: []models.ConnectorField{{ID: "username", Value: "x"}},
	})
	assert.Error(t, err)
}

func TestDeleteByTitle(t *testing.T) {
	svc, storage := newTestService()
	ctx := context.Background()

	_, err := svc.Save(ctx, testConnector("Jira"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "jira"))

	count, _ := storage.Count(ctx)
	assert.Zero(t, count)

	assert.ErrorIs(t, svc.Delete(ctx, "jira"), interfaces.ErrConnectorNotFound)
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Save(ctx, testConnector("AWS"))
	require.NoError(t, err)
	_, err = svc.Save(ctx, testConnector("Jira"))
	require.NoError(t, err)

	result, err := svc.Export(ctx, []string{"AWS", "Jira"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Encoded)
	assert.Contains(t, result.Decoded, `"version": "1.0"`)

	// Importing into a fresh store yields the same connectors
	fresh, freshStorage := newTestService()
	titles, err := fresh.Import(ctx, result.Encoded)
	require.NoError(t, err)
	assert.Equal(t, []string{"AWS", "Jira"}, titles)

	restored, err := freshStorage.List(ctx)
	require.NoError(t, err)
	require.Len(t, restored, 2)
	assert.Equal(t, "https://example.com/login", restored[0].FormURL())
}

func TestImportRenamesOnCollision(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Save(ctx, testConnector("AWS"))
	require.NoError(t, err)

	result, err := svc.Export(ctx, []string{"AWS"})
	require.NoError(t, err)

	titles, err := svc.Import(ctx, result.Encoded)
	require.NoError(t, err)
	assert.Equal(t, []string{"AWS (1)"}, titles)

	titles, err = svc.Import(ctx, result.Encoded)
	require.NoError(t, err)
	assert.Equal(t, []string{"AWS (2)"}, titles)
}

func TestImportRenamesOnCaseInsensitiveCollision(t *testing.T) {
	svc, storage := newTestService()
	ctx := context.Background()

	_, err := svc.Save(ctx, testConnector("AWS"))
	require.NoError(t, err)

	titles, err := svc.Import(ctx, `{"title": "aws", "fields": [{"id": "username", "value": "root"}]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"aws (1)"}, titles)

	matching := 0
	for _, c := range storage.connectors {
		if c.TitleEquals("aws") {
			matching++
		}
	}
	assert.Equal(t, 1, matching)
}

func TestImportBareConnector(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	titles, err := svc.Import(ctx, `{"title": "Postgres", "fields": [{"id": "host", "value": "db.local"}]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Postgres"}, titles)
}

func TestImportWrappedConnector(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	titles, err := svc.Import(ctx, `{"connector": {"title": "Redis", "fields": [{"id": "port", "value": "6379"}]}}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Redis"}, titles)
}

func TestImportRejectsGarbage(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Import(ctx, "definitely not json")
	assert.Error(t, err)

	_, err = svc.Import(ctx, `{"unrelated": true}`)
	assert.Error(t, err)
}
