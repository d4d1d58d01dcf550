package page

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/formfill/internal/common"
	"github.com/ternarybob/formfill/internal/interfaces"
)

// Browser drives a live browser tab through chromedp. It implements both
// PageSource (navigate and capture rendered HTML) and PageFiller (apply
// values to the tab the last Fetch navigated to).
type Browser struct {
	config        *common.PageConfig
	logger        arbor.ILogger
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	mu            sync.Mutex
}

// NewBrowser creates a browser-backed page source. The browser process is
// started lazily on first use.
func NewBrowser(config *common.PageConfig, logger arbor.ILogger) *Browser {
	return &Browser{
		config: config,
		logger: logger,
	}
}

// ensureStarted starts the browser context on first use
func (b *Browser) ensureStarted() error {
	if b.browserCtx != nil {
		return nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.UserAgent(b.config.UserAgent),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if b.config.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(s string, i ...interface{}) {
			b.logger.Debug().Msg(fmt.Sprintf(s, i...))
		}),
	)

	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("failed to start browser: %w", err)
	}

	b.allocCancel = allocCancel
	b.browserCtx = browserCtx
	b.browserCancel = browserCancel

	b.logger.Info().Bool("headless", b.config.Headless).Msg("Browser started")
	return nil
}

// Fetch navigates the tab to url, waits for JavaScript to settle, and
// returns the rendered outer HTML.
func (b *Browser) Fetch(ctx context.Context, url string) (*interfaces.PageSnapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureStarted(); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(b.browserCtx, b.config.RequestTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(b.config.JavaScriptWaitTime),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture %s: %w", url, err)
	}

	b.logger.Debug().Str("url", url).Int("bytes", len(html)).Msg("Captured rendered page")

	return &interfaces.PageSnapshot{
		URL:  url,
		HTML: html,
	}, nil
}

// SetFieldValue sets the value of the element with the given id in the
// current tab and dispatches a bubbling input event so page scripts see
// the change.
func (b *Browser) SetFieldValue(ctx context.Context, elementID, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCtx == nil {
		return fmt.Errorf("no page loaded")
	}

	idJSON, _ := json.Marshal(elementID)
	valueJSON, _ := json.Marshal(value)
	fillJS := fmt.Sprintf(`
		(() => {
			const el = document.getElementById(%s);
			if (!el) {
				return false;
			}
			el.value = %s;
			el.dispatchEvent(new Event('input', { bubbles: true }));
			return true;
		})()
	`, idJSON, valueJSON)

	runCtx, cancel := context.WithTimeout(b.browserCtx, b.config.RequestTimeout)
	defer cancel()

	var filled bool
	if err := chromedp.Run(runCtx, chromedp.Evaluate(fillJS, &filled)); err != nil {
		return fmt.Errorf("failed to fill element %s: %w", elementID, err)
	}
	if !filled {
		return interfaces.ErrElementNotFound
	}

	return nil
}

// Close shuts the browser down
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCancel != nil {
		b.browserCancel()
		b.browserCancel = nil
	}
	if b.allocCancel != nil {
		b.allocCancel()
		b.allocCancel = nil
	}
	b.browserCtx = nil

	return nil
}
