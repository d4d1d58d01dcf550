package matcher

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/formfill/internal/common"
	"github.com/ternarybob/formfill/internal/models"
)

func newTestService() *Service {
	return NewService(common.GetLogger())
}

func connector(title, formURL string) *models.Connector {
	c := &models.Connector{
		ID:     title,
		Title:  title,
		Fields: []models.ConnectorField{{ID: "username", Value: "user"}},
	}
	if formURL != "" {
		c.Fields = append(c.Fields, models.ConnectorField{ID: models.FormURLFieldID, Value: formURL})
	}
	return c
}

func TestMatchByTitleLooseWordMatch(t *testing.T) {
	svc := newTestService()
	connectors := []*models.Connector{
		connector("AWS Console", ""),
		connector("Jira", ""),
		connector("Postgres Admin", ""),
	}

	matched := svc.MatchByTitle(connectors, "Sign in to the AWS Management Console")

	require.Len(t, matched, 1)
	assert.Equal(t, "AWS Console", matched[0].Title)
}

func TestMatchByTitleAsymmetric(t *testing.T) {
	svc := newTestService()
	connectors := []*models.Connector{
		connector("Production Database", ""),
	}

	// A single connector word appearing in the page title is enough
	matched := svc.MatchByTitle(connectors, "database migration tool")
	assert.Len(t, matched, 1)

	// The reverse direction does not apply: page words are not split
	matched = svc.MatchByTitle(connectors, "prod db")
	assert.Empty(t, matched)
}

func TestMatchByTitleNoMatch(t *testing.T) {
	svc := newTestService()
	connectors := []*models.Connector{
		connector("AWS Console", ""),
	}

	matched := svc.MatchByTitle(connectors, "Completely Unrelated Page")
	assert.Empty(t, matched)
}

func TestMatchByNameExactWins(t *testing.T) {
	svc := newTestService()
	connectors := []*models.Connector{
		connector("AWS Console", ""),
		connector("aws console", ""),
		connector("AWS", ""),
	}

	matched := svc.MatchByName(connectors, "AWS CONSOLE")
	require.Len(t, matched, 1)
	assert.Equal(t, "AWS Console", matched[0].Title)
}

func TestMatchByNameFallsBackToLooseMatch(t *testing.T) {
	svc := newTestService()
	connectors := []*models.Connector{
		connector("AWS Console", ""),
	}

	matched := svc.MatchByName(connectors, "my aws account page")
	require.Len(t, matched, 1)
	assert.Equal(t, "AWS Console", matched[0].Title)
}

func TestMatchByURLExact(t *testing.T) {
	svc := newTestService()
	connectors := []*models.Connector{
		connector("AWS Console", "https://console.aws.amazon.com/iam/home"),
		connector("Jira", "https://jira.example.com/login"),
	}

	matched, err := svc.MatchByURL(connectors, "https://console.aws.amazon.com/iam/home?region=us-east-1")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "AWS Console", matched[0].Title)
}

func TestMatchByURLTrailingSlashIsMiss(t *testing.T) {
	svc := newTestService()
	connectors := []*models.Connector{
		connector("Jira", "https://jira.example.com/login"),
	}

	matched, err := svc.MatchByURL(connectors, "https://jira.example.com/login/")
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestMatchByURLEmptyStore(t *testing.T) {
	svc := newTestService()

	_, err := svc.MatchByURL(nil, "https://example.com/login")
	assert.ErrorIs(t, err, ErrNoConnectors)
}

func TestMatchByURLCap(t *testing.T) {
	svc := newTestService()

	connectors := make([]*models.Connector, 0, 10)
	for i := 0; i < 10; i++ {
		connectors = append(connectors, connector(fmt.Sprintf("Connector %d", i), "https://example.com/login"))
	}

	matched, err := svc.MatchByURL(connectors, "https://example.com/login")
	require.NoError(t, err)
	assert.Len(t, matched, MaxSuggestions)
	// Stored order preserved
	assert.Equal(t, "Connector 0", matched[0].Title)
	assert.Equal(t, "Connector 6", matched[6].Title)
}
