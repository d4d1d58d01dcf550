package matcher

import (
	"errors"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/formfill/internal/common"
	"github.com/ternarybob/formfill/internal/models"
	"github.com/ternarybob/formfill/internal/services/extractor"
)

// ErrNoConnectors distinguishes an empty connector store from a store that
// simply has no match for the query.
var ErrNoConnectors = errors.New("no connectors stored")

// MaxSuggestions caps how many connectors a suggestion list carries
const MaxSuggestions = 7

// Service decides which stored connectors are relevant to a page
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new matcher service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
	}
}

// MatchByTitle returns every connector where any single word of the
// connector title appears as a substring of the page title. The match is
// deliberately loose and asymmetric: connector titles are split, the page
// title is not.
func (s *Service) MatchByTitle(connectors []*models.Connector, pageTitle string) []*models.Connector {
	query := strings.ToLower(pageTitle)
	matched := []*models.Connector{}

	for _, connector := range connectors {
		for _, word := range strings.Split(strings.ToLower(connector.Title), " ") {
			if word == "" {
				continue
			}
			if strings.Contains(query, word) {
				s.logger.Debug().
					Str("connector", connector.Title).
					Str("word", word).
					Float64("similarity", common.JaccardSimilarity(common.TokenizeText(connector.Title), common.TokenizeText(pageTitle))).
					Msg("Connector title matched page")
				matched = append(matched, connector)
				break
			}
		}
	}

	return matched
}

// MatchByName returns the connector whose title equals name
// case-insensitively, falling back to the loose title match when no exact
// title exists.
func (s *Service) MatchByName(connectors []*models.Connector, name string) []*models.Connector {
	for _, connector := range connectors {
		if connector.TitleEquals(name) {
			return []*models.Connector{connector}
		}
	}
	return s.MatchByTitle(connectors, name)
}

// MatchByURL returns connectors whose recorded page URL exactly equals the
// given page URL reduced to origin + pathname. No normalization is applied
// beyond that reduction; a trailing slash difference is a miss.
func (s *Service) MatchByURL(connectors []*models.Connector, pageURL string) ([]*models.Connector, error) {
	if len(connectors) == 0 {
		return nil, ErrNoConnectors
	}

	target := extractor.PageURL(pageURL)
	matched := []*models.Connector{}

	for _, connector := range connectors {
		if connector.FormURL() == target {
			matched = append(matched, connector)
			if len(matched) >= MaxSuggestions {
				break
			}
		}
	}

	return matched, nil
}
