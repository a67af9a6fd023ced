// Package services implements the coherence pipeline: fact extraction and
// caching, comparison with resolution memory, deduplication, the scan
// orchestrator, aggregated read views, and product import.
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/llm"
	"github.com/offerlens/coherence-engine/pkg/logging"
	"github.com/offerlens/coherence-engine/pkg/models"
	"github.com/offerlens/coherence-engine/pkg/repositories"
)

const extractionSystemMessage = "You extract structured facts from official travel and education offering pages. Respond only with JSON."

// FactExtractor turns the raw text of an official source into a canonical
// fact sheet.
type FactExtractor interface {
	// Extract returns a fully-populated sheet. On any model or parse failure
	// it returns the fallback sheet with not-available sentinels, never an
	// error: extraction quality degrades, the scan does not.
	Extract(ctx context.Context, rawText, sourceURL string) *models.FactSheet
}

type factExtractor struct {
	client         llm.Client
	maxPromptChars int
	logger         *zap.Logger
}

// NewFactExtractor creates a fact extractor. maxPromptChars bounds the text
// submitted to the model.
func NewFactExtractor(client llm.Client, maxPromptChars int, logger *zap.Logger) FactExtractor {
	return &factExtractor{
		client:         client,
		maxPromptChars: maxPromptChars,
		logger:         logger.Named("fact-extractor"),
	}
}

var _ FactExtractor = (*factExtractor)(nil)

func (e *factExtractor) Extract(ctx context.Context, rawText, sourceURL string) *models.FactSheet {
	prompt := e.buildPrompt(truncate(rawText, e.maxPromptChars), sourceURL)

	response, err := e.client.Complete(ctx, prompt, extractionSystemMessage, 0.1)
	if err != nil {
		e.logger.Error("fact extraction failed",
			zap.String("url", logging.SanitizeURL(sourceURL)),
			zap.String("error", logging.SanitizeError(err)))
		return models.FallbackFactSheet()
	}

	sheet, err := llm.ParseJSONResponse[models.FactSheet](response)
	if err != nil {
		e.logger.Error("fact extraction returned unparseable response",
			zap.String("url", logging.SanitizeURL(sourceURL)),
			zap.Error(err))
		return models.FallbackFactSheet()
	}

	normalizeSheet(&sheet)
	e.logger.Info("extracted official fact sheet",
		zap.String("url", logging.SanitizeURL(sourceURL)),
		zap.String("model", e.client.Model()))
	return &sheet
}

func (e *factExtractor) buildPrompt(text, url string) string {
	return fmt.Sprintf(`TASK: Extract canonical facts from this OFFICIAL STUDY HOLIDAY/CAMPUS page.
URL: %s
TEXT: %s

EXTRACT THE FOLLOWING IN ITALIAN:
1. Dates (specific departure/arrival dates if present)
2. Duration (e.g., 2 weeks, 15 days)
3. Price (if present)
4. Location (specific centre/college)
5. Key Services (e.g., full board, 15h english)

OUTPUT JSON directly:
{
  "dates": ["date1", "date2"],
  "duration": "...",
  "price": "...",
  "location": "...",
  "services": ["...", "..."],
  "rawSummary": "Brief overview"
}`, url, text)
}

// normalizeSheet fills gaps the model left so display layers never see empty
// scalar fields.
func normalizeSheet(sheet *models.FactSheet) {
	if sheet.Dates == nil {
		sheet.Dates = []string{}
	}
	if sheet.Services == nil {
		sheet.Services = []string{}
	}
	if sheet.Duration == "" {
		sheet.Duration = models.NotAvailable
	}
	if sheet.Price == "" {
		sheet.Price = models.NotAvailable
	}
	if sheet.Location == "" {
		sheet.Location = models.NotAvailable
	}
}

func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit]
}

// FactSheetCache persists fact sheets on the owning centre record. A missing
// or unparseable cache entry is a miss, never ground truth.
type FactSheetCache struct {
	centres repositories.CentreRepository
	logger  *zap.Logger
}

// NewFactSheetCache creates a cache backed by the centre collection.
func NewFactSheetCache(centres repositories.CentreRepository, logger *zap.Logger) *FactSheetCache {
	return &FactSheetCache{
		centres: centres,
		logger:  logger.Named("facts-cache"),
	}
}

// Get returns the cached sheet for a centre, or nil on a miss. Parse failures
// are logged and treated identically to an absent entry.
func (c *FactSheetCache) Get(ctx context.Context, centre *models.Centre) *models.FactSheet {
	if centre.OfficialFactsCache == "" {
		return nil
	}

	sheet, err := models.ParseFactSheet(centre.OfficialFactsCache)
	if err != nil {
		c.logger.Warn("cached fact sheet is corrupt, re-extracting",
			zap.String("centreId", centre.ID),
			zap.Error(err))
		return nil
	}
	return sheet
}

// Put persists the sheet on the centre record, best-effort. A write failure is
// logged and absorbed: the freshly computed sheet still serves the current
// scan.
func (c *FactSheetCache) Put(ctx context.Context, centreID string, sheet *models.FactSheet) {
	serialized, err := sheet.Serialize()
	if err != nil {
		c.logger.Warn("could not serialize fact sheet for caching",
			zap.String("centreId", centreID),
			zap.Error(err))
		return
	}

	if err := c.centres.UpdateFactsCache(ctx, centreID, serialized); err != nil {
		c.logger.Warn("fact sheet cache write failed, continuing with in-memory sheet",
			zap.String("centreId", centreID),
			zap.Error(err))
	}
}
