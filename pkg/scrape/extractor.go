package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// FallbackPrefix marks extractor results produced when the page could not be
// fetched. Downstream stages receive well-formed text either way.
const FallbackPrefix = "[UNREACHABLE]"

// Result is the outcome of a page fetch: cleaned visible text and the moment
// it was captured.
type Result struct {
	Text      string
	FetchedAt time.Time
}

// TextExtractor fetches a page and reduces it to comparable visible text.
// It is stateless and safe to invoke in parallel for client and official URLs.
type TextExtractor struct {
	renderer Renderer
	timeout  time.Duration
	logger   *zap.Logger
}

// NewTextExtractor creates a text extractor. timeout bounds each fetch; a
// timed-out or failed fetch yields the fallback result, never an error.
func NewTextExtractor(renderer Renderer, timeout time.Duration, logger *zap.Logger) *TextExtractor {
	return &TextExtractor{
		renderer: renderer,
		timeout:  timeout,
		logger:   logger.Named("scrape"),
	}
}

// Fetch returns the cleaned visible text of the page at url. It never fails:
// navigation errors and timeouts degrade to a recognizable fallback text so
// the scan can complete with reduced quality.
func (e *TextExtractor) Fetch(ctx context.Context, url string) Result {
	fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	html, err := e.renderer.Render(fetchCtx, url)
	if err != nil {
		e.logger.Warn("page fetch failed, using fallback text",
			zap.String("url", url),
			zap.Error(err))
		return Result{
			Text:      fmt.Sprintf("%s The page at %s could not be fetched: %v", FallbackPrefix, url, err),
			FetchedAt: time.Now(),
		}
	}

	text, err := CleanText(html)
	if err != nil || text == "" {
		e.logger.Warn("page produced no usable text",
			zap.String("url", url),
			zap.Error(err))
		return Result{
			Text:      fmt.Sprintf("%s The page at %s produced no readable text.", FallbackPrefix, url),
			FetchedAt: time.Now(),
		}
	}

	return Result{Text: text, FetchedAt: time.Now()}
}

// CleanText strips non-content markup from HTML and returns the visible text
// with whitespace collapsed to single spaces. A semantic main-content element
// is preferred over the full body when present.
func CleanText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	doc.Find("script, style, noscript, iframe, template").Remove()
	doc.Find("[hidden], [aria-hidden='true']").Remove()
	doc.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		style, _ := sel.Attr("style")
		normalized := strings.ReplaceAll(strings.ToLower(style), " ", "")
		if strings.Contains(normalized, "display:none") || strings.Contains(normalized, "visibility:hidden") {
			sel.Remove()
		}
	})

	content := doc.Find("main").First()
	if content.Length() == 0 {
		content = doc.Find("article").First()
	}
	if content.Length() == 0 {
		content = doc.Find("[role='main']").First()
	}
	if content.Length() == 0 {
		content = doc.Find("body").First()
	}
	if content.Length() == 0 {
		content = doc.Selection
	}

	return strings.Join(strings.Fields(content.Text()), " "), nil
}
