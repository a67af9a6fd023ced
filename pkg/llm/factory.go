package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// Provider names accepted by the factory.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// FactoryConfig selects a provider and the two models the engine uses:
// Model for comparison and product import, ExtractionModel for fact-sheet
// extraction. ExtractionModel falls back to Model when empty.
type FactoryConfig struct {
	Provider        string
	Endpoint        string // OpenAI-compatible endpoints only
	Model           string
	ExtractionModel string
	APIKey          string
}

// NewClients builds the comparison and extraction clients for the configured
// provider.
func NewClients(cfg FactoryConfig, logger *zap.Logger) (comparison Client, extraction Client, err error) {
	extractionModel := cfg.ExtractionModel
	if extractionModel == "" {
		extractionModel = cfg.Model
	}

	switch cfg.Provider {
	case ProviderOpenAI, "":
		comparison, err = NewOpenAIClient(OpenAIConfig{
			Endpoint: cfg.Endpoint,
			Model:    cfg.Model,
			APIKey:   cfg.APIKey,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("create comparison client: %w", err)
		}
		extraction, err = NewOpenAIClient(OpenAIConfig{
			Endpoint: cfg.Endpoint,
			Model:    extractionModel,
			APIKey:   cfg.APIKey,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("create extraction client: %w", err)
		}
		return comparison, extraction, nil

	case ProviderAnthropic:
		comparison, err = NewAnthropicClient(AnthropicConfig{
			Model:  cfg.Model,
			APIKey: cfg.APIKey,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("create comparison client: %w", err)
		}
		extraction, err = NewAnthropicClient(AnthropicConfig{
			Model:  extractionModel,
			APIKey: cfg.APIKey,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("create extraction client: %w", err)
		}
		return comparison, extraction, nil

	default:
		return nil, nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
