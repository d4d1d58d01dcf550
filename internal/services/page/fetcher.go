package page

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/formfill/internal/common"
	"github.com/ternarybob/formfill/internal/interfaces"
)

// Fetcher retrieves page snapshots over plain HTTP. A single rate limiter
// keeps fetches of arbitrary pages polite.
type Fetcher struct {
	config  *common.PageConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  arbor.ILogger
}

// NewFetcher creates a new HTTP page fetcher
func NewFetcher(config *common.PageConfig, logger arbor.ILogger) *Fetcher {
	return &Fetcher{
		config: config,
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(config.RateLimit), 1),
		logger:  logger,
	}
}

// Fetch retrieves the page at url and returns its HTML
func (f *Fetcher) Fetch(ctx context.Context, url string) (*interfaces.PageSnapshot, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch of %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(f.config.MaxBodySize)))
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", url, err)
	}

	f.logger.Debug().Str("url", url).Int("bytes", len(body)).Msg("Fetched page snapshot")

	return &interfaces.PageSnapshot{
		URL:  url,
		HTML: string(body),
	}, nil
}
