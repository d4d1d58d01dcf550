package autofill

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/formfill/internal/common"
	"github.com/ternarybob/formfill/internal/interfaces"
	"github.com/ternarybob/formfill/internal/models"
	"github.com/ternarybob/formfill/internal/services/extractor"
	"github.com/ternarybob/formfill/internal/services/llm"
	"github.com/ternarybob/formfill/internal/services/matcher"
)

const loginPage = `<html><head><title>AWS Console Login</title></head><body>
<form>
	<label for="username">User Name</label>
	<input id="username" type="text">
	<label for="password">Password</label>
	<input id="password" type="password">
</form>
</body></html>`

type fakeStorage struct {
	connectors []*models.Connector
	listErr    error
}

func (f *fakeStorage) Save(ctx context.Context, c *models.Connector) error { return nil }
func (f *fakeStorage) Get(ctx context.Context, id string) (*models.Connector, error) {
	return nil, interfaces.ErrConnectorNotFound
}
func (f *fakeStorage) GetByTitle(ctx context.Context, title string) (*models.Connector, error) {
	return nil, interfaces.ErrConnectorNotFound
}
func (f *fakeStorage) List(ctx context.Context) ([]*models.Connector, error) {
	return f.connectors, f.listErr
}
func (f *fakeStorage) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeStorage) Count(ctx context.Context) (int, error)      { return len(f.connectors), nil }

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return f.response, f.err
}
func (f *fakeLLM) Provider() string { return "fake" }
func (f *fakeLLM) Close() error     { return nil }

type fakeFactory struct {
	service *fakeLLM
	err     error
}

func (f *fakeFactory) Provider(ctx context.Context) (interfaces.LLMService, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

type fakeNotifier struct {
	successes []string
	errors    []string
	warnings  []string
}

func (f *fakeNotifier) Success(message string) { f.successes = append(f.successes, message) }
func (f *fakeNotifier) Error(message string)   { f.errors = append(f.errors, message) }
func (f *fakeNotifier) Warning(message string) { f.warnings = append(f.warnings, message) }

type fakeFiller struct {
	filled  map[string]string
	present map[string]bool
}

func (f *fakeFiller) SetFieldValue(ctx context.Context, elementID, value string) error {
	if !f.present[elementID] {
		return interfaces.ErrElementNotFound
	}
	if f.filled == nil {
		f.filled = map[string]string{}
	}
	f.filled[elementID] = value
	return nil
}

func awsConnector() *models.Connector {
	return &models.Connector{
		ID:    "c1",
		Title: "AWS Console",
		Fields: []models.ConnectorField{
			{ID: "username", Value: "admin"},
			{ID: "password", Value: "s3cret"},
		},
	}
}

func newTestService(storage *fakeStorage, factory interfaces.LLMFactory, notifier *fakeNotifier) *Service {
	logger := common.GetLogger()
	return NewService(storage, matcher.NewService(logger), extractor.NewService(logger), factory, notifier, logger)
}

func snapshot() *interfaces.PageSnapshot {
	return &interfaces.PageSnapshot{URL: "https://console.aws.amazon.com/login", HTML: loginPage}
}

func TestRunStorageUnreachableIsSilent(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(&fakeStorage{listErr: errors.New("db closed")}, &fakeFactory{}, notifier)

	result := svc.Run(context.Background(), snapshot(), &fakeFiller{}, "")

	assert.Nil(t, result)
	assert.Empty(t, notifier.errors)
	assert.Empty(t, notifier.successes)
}

func TestRunNoConnectorsStored(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(&fakeStorage{}, &fakeFactory{}, notifier)

	result := svc.Run(context.Background(), snapshot(), &fakeFiller{}, "")

	require.NotNil(t, result)
	assert.Equal(t, models.AutofillStatusNoConnectors, result.Status)
	require.Len(t, notifier.errors, 1)
	assert.Contains(t, notifier.errors[0], "No connectors found")
}

func TestRunNoMatchingConnector(t *testing.T) {
	notifier := &fakeNotifier{}
	storage := &fakeStorage{connectors: []*models.Connector{{
		ID: "c2", Title: "Jira", Fields: []models.ConnectorField{{ID: "u", Value: "x"}},
	}}}
	svc := newTestService(storage, &fakeFactory{}, notifier)

	result := svc.Run(context.Background(), snapshot(), &fakeFiller{}, "")

	require.NotNil(t, result)
	assert.Equal(t, models.AutofillStatusNoMatch, result.Status)
	require.Len(t, notifier.errors, 1)
	assert.Contains(t, notifier.errors[0], "No credentials found")
}

func TestRunMissingAPIKey(t *testing.T) {
	notifier := &fakeNotifier{}
	storage := &fakeStorage{connectors: []*models.Connector{awsConnector()}}
	svc := newTestService(storage, &fakeFactory{err: llm.ErrNoAPIKey}, notifier)

	result := svc.Run(context.Background(), snapshot(), &fakeFiller{}, "")

	require.NotNil(t, result)
	assert.Equal(t, models.AutofillStatusNoAPIKey, result.Status)
	require.Len(t, notifier.errors, 1)
	assert.Contains(t, notifier.errors[0], "API key")
}

func TestRunHappyPath(t *testing.T) {
	notifier := &fakeNotifier{}
	storage := &fakeStorage{connectors: []*models.Connector{awsConnector()}}
	factory := &fakeFactory{service: &fakeLLM{
		response: `{"username": "admin", "password": "s3cret", "ghost": "value"}`,
	}}
	filler := &fakeFiller{present: map[string]bool{"username": true, "password": true}}
	svc := newTestService(storage, factory, notifier)

	result := svc.Run(context.Background(), snapshot(), filler, "")

	require.NotNil(t, result)
	assert.Equal(t, models.AutofillStatusFilled, result.Status)
	assert.ElementsMatch(t, []string{"username", "password"}, result.Applied)
	assert.Equal(t, []string{"ghost"}, result.Missing)
	assert.Equal(t, "admin", filler.filled["username"])
	assert.Equal(t, "s3cret", filler.filled["password"])
	require.Len(t, notifier.successes, 1)
	assert.Equal(t, "Form autofill successful", notifier.successes[0])
}

func TestRunPinnedConnectorName(t *testing.T) {
	notifier := &fakeNotifier{}
	storage := &fakeStorage{connectors: []*models.Connector{awsConnector()}}
	factory := &fakeFactory{service: &fakeLLM{response: `{"username": "admin"}`}}
	filler := &fakeFiller{present: map[string]bool{"username": true}}
	svc := newTestService(storage, factory, notifier)

	result := svc.Run(context.Background(), snapshot(), filler, "aws console")

	require.NotNil(t, result)
	assert.Equal(t, models.AutofillStatusFilled, result.Status)
	assert.Equal(t, []string{"AWS Console"}, result.Connectors)
}

func TestRunUnparseableResponse(t *testing.T) {
	notifier := &fakeNotifier{}
	storage := &fakeStorage{connectors: []*models.Connector{awsConnector()}}
	factory := &fakeFactory{service: &fakeLLM{response: "sorry, I cannot help with that"}}
	svc := newTestService(storage, factory, notifier)

	result := svc.Run(context.Background(), snapshot(), &fakeFiller{}, "")

	require.NotNil(t, result)
	assert.Equal(t, models.AutofillStatusFailed, result.Status)
	require.Len(t, notifier.errors, 1)
	assert.Contains(t, notifier.errors[0], "model response")
}

func TestRunCompletionFailure(t *testing.T) {
	notifier := &fakeNotifier{}
	storage := &fakeStorage{connectors: []*models.Connector{awsConnector()}}
	factory := &fakeFactory{service: &fakeLLM{err: errors.New("quota exceeded")}}
	svc := newTestService(storage, factory, notifier)

	result := svc.Run(context.Background(), snapshot(), &fakeFiller{}, "")

	require.NotNil(t, result)
	assert.Equal(t, models.AutofillStatusFailed, result.Status)
	require.Len(t, notifier.errors, 1)
	assert.Contains(t, notifier.errors[0], "Autofill request failed")
}
