package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/llm"
	"github.com/offerlens/coherence-engine/pkg/logging"
	"github.com/offerlens/coherence-engine/pkg/repositories"
)

const importSystemMessage = "You extract product and service listings from marketing copy. Respond only with JSON."

// ImportedProduct is one product or service entry extracted from a source
// document.
type ImportedProduct struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// ImportResult reports what an import run extracted and persisted.
type ImportResult struct {
	Imported int               `json:"imported"`
	Products []ImportedProduct `json:"products"`
}

// ProductImportService extracts product entries from a URL or pasted text and
// creates centre records for them.
type ProductImportService interface {
	// Import takes either a source URL (fetched and cleaned) or raw text.
	// Returns the extracted entries and how many were persisted; a failing
	// create skips that entry and continues.
	Import(ctx context.Context, sourceURL, rawText string) (*ImportResult, error)
}

type productImportService struct {
	centres        repositories.CentreRepository
	fetcher        PageFetcher
	client         llm.Client
	maxPromptChars int
	logger         *zap.Logger
}

// NewProductImportService creates the product importer.
func NewProductImportService(
	centres repositories.CentreRepository,
	fetcher PageFetcher,
	client llm.Client,
	maxPromptChars int,
	logger *zap.Logger,
) ProductImportService {
	return &productImportService{
		centres:        centres,
		fetcher:        fetcher,
		client:         client,
		maxPromptChars: maxPromptChars,
		logger:         logger.Named("import"),
	}
}

var _ ProductImportService = (*productImportService)(nil)

func (s *productImportService) Import(ctx context.Context, sourceURL, rawText string) (*ImportResult, error) {
	content := rawText
	if content == "" && sourceURL != "" {
		content = s.fetcher.Fetch(ctx, sourceURL).Text
	}
	if content == "" {
		return nil, fmt.Errorf("import requires a source URL or raw text")
	}

	products, err := s.extract(ctx, content)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Products: products}
	for _, p := range products {
		if p.Name == "" {
			continue
		}
		if _, err := s.centres.Create(ctx, p.Name, sourceURL); err != nil {
			s.logger.Error("could not persist imported product, continuing",
				zap.String("name", p.Name),
				zap.Error(err))
			continue
		}
		result.Imported++
	}

	s.logger.Info("product import finished",
		zap.String("source", logging.SanitizeURL(sourceURL)),
		zap.Int("extracted", len(products)),
		zap.Int("imported", result.Imported))
	return result, nil
}

func (s *productImportService) extract(ctx context.Context, content string) ([]ImportedProduct, error) {
	prompt := fmt.Sprintf(`Extract all product and service names, their descriptions, and their prices from the text below.
This text usually comes from a company website or a marketing brochure.

Text:
%s

Return a VALID JSON array:
[{ "name": "...", "description": "...", "price": "..." }]
If no products are found, return [].`, truncate(content, s.maxPromptChars))

	response, err := s.client.Complete(ctx, prompt, importSystemMessage, 0.1)
	if err != nil {
		return nil, fmt.Errorf("product extraction: %w", err)
	}

	return parseProductResponse(response)
}

// parseProductResponse accepts both a bare array and an object wrapping the
// array under "products", which JSON-mode providers tend to produce.
func parseProductResponse(response string) ([]ImportedProduct, error) {
	jsonStr, err := llm.ExtractJSON(response)
	if err != nil {
		return nil, fmt.Errorf("product extraction returned no JSON: %w", err)
	}

	var direct []ImportedProduct
	if err := json.Unmarshal([]byte(jsonStr), &direct); err == nil {
		return direct, nil
	}

	var wrapped struct {
		Products []ImportedProduct `json:"products"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &wrapped); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}
	return wrapped.Products, nil
}
