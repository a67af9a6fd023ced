// Package scrape fetches rendered page text for comparison. The browser is an
// external collaborator behind the Renderer interface; TextExtractor turns
// rendered markup into clean visible text and never fails.
package scrape

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// Renderer fetches the rendered HTML of a URL.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// ChromeRenderer renders pages with a headless Chrome instance. Each Render
// call gets its own browser context, acquired and released on every exit path,
// so concurrent fetches never share page state.
type ChromeRenderer struct {
	allocatorOpts []chromedp.ExecAllocatorOption
}

// ChromeConfig holds browser settings.
type ChromeConfig struct {
	Headless  bool
	UserAgent string
}

// NewChromeRenderer creates a renderer with the given browser settings.
func NewChromeRenderer(cfg ChromeConfig) *ChromeRenderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	return &ChromeRenderer{allocatorOpts: opts}
}

var _ Renderer = (*ChromeRenderer)(nil)

// Render navigates to the URL and returns the document HTML after rendering.
// The deadline on ctx bounds the whole navigation.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocatorOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}
	return html, nil
}
