package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/jonathan/resume-bender/internal/observability"
)

// DefaultRenderTimeout bounds a headless render.
const DefaultRenderTimeout = 12 * time.Second

// Renderer returns the fully rendered HTML of a page.
type Renderer func(ctx context.Context, url string, timeout time.Duration) (string, error)

// NewBrowserRenderer returns a Renderer backed by headless Chrome. Chrome or
// Chromium must be installed on the host.
func NewBrowserRenderer(logger *zap.Logger) Renderer {
	logger = observability.OrNop(logger)
	return func(ctx context.Context, url string, timeout time.Duration) (string, error) {
		return renderWithBrowser(ctx, logger, url, timeout)
	}
}

func renderWithBrowser(ctx context.Context, logger *zap.Logger, url string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	logger.Debug("starting headless browser", zap.String("url", url))
	start := time.Now()

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Late XHR-driven content on SPA job boards.
		chromedp.Sleep(500*time.Millisecond),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	logger.Debug("rendered page",
		zap.String("url", url),
		zap.Int("bytes", len(html)),
		zap.Int64(observability.FieldDurationMS, time.Since(start).Milliseconds()),
	)
	return html, nil
}
