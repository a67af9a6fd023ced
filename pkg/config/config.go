package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the coherence engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// Linked-record store configuration (Airtable-compatible REST base)
	Store StoreConfig `yaml:"store"`

	// Headless browser configuration for page fetching
	Browser BrowserConfig `yaml:"browser"`

	// Language-model endpoints
	AI AIConfig `yaml:"ai"`

	// Scan pipeline tuning
	Scan ScanConfig `yaml:"scan"`
}

// StoreConfig holds connection settings for the linked-record store.
type StoreConfig struct {
	// BaseURL is the REST endpoint of the record store.
	BaseURL string `yaml:"base_url" env:"STORE_BASE_URL" env-default:"https://api.airtable.com/v0"`

	// BaseID identifies the record base holding the three collections.
	BaseID string `yaml:"base_id" env:"STORE_BASE_ID"`

	// APIKey authenticates against the store. Secret - env only.
	APIKey string `yaml:"-" env:"STORE_API_KEY"`

	// Collection names inside the base.
	PagesTable         string `yaml:"pages_table" env:"STORE_PAGES_TABLE" env-default:"Client Web Pages"`
	CentresTable       string `yaml:"centres_table" env:"STORE_CENTRES_TABLE" env-default:"Centres"`
	DiscrepanciesTable string `yaml:"discrepancies_table" env:"STORE_DISCREPANCIES_TABLE" env-default:"Discrepancy Notes"`
}

// BrowserConfig holds headless browser settings for rendered-page fetching.
type BrowserConfig struct {
	Headless bool `yaml:"headless" env:"BROWSER_HEADLESS" env-default:"true"`

	// NavigationTimeoutSeconds bounds a single page fetch. A timed-out fetch
	// degrades to the fallback text, it never hangs the scan.
	NavigationTimeoutSeconds int `yaml:"navigation_timeout_seconds" env:"BROWSER_NAVIGATION_TIMEOUT_SECONDS" env-default:"25"`

	UserAgent string `yaml:"user_agent" env:"BROWSER_USER_AGENT" env-default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"`
}

// AIConfig holds language-model provider settings.
type AIConfig struct {
	// Provider selects the client implementation: "openai" or "anthropic".
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`

	// Endpoint is the base URL for OpenAI-compatible endpoints.
	Endpoint string `yaml:"endpoint" env:"AI_ENDPOINT" env-default:"https://api.openai.com/v1"`

	// Model is used for comparison and product import.
	Model string `yaml:"model" env:"AI_MODEL" env-default:"gpt-4o-mini"`

	// ExtractionModel is used for official fact-sheet extraction, where a
	// stronger model pays off because results are cached per centre.
	ExtractionModel string `yaml:"extraction_model" env:"AI_EXTRACTION_MODEL" env-default:"gpt-4o"`

	// APIKey authenticates against the provider. Secret - env only.
	APIKey string `yaml:"-" env:"AI_API_KEY"`
}

// ScanConfig holds tuning knobs for the scan pipeline.
type ScanConfig struct {
	// DedupThreshold is the similarity cutoff above which a candidate
	// discrepancy is treated as already known for the same page.
	DedupThreshold float64 `yaml:"dedup_threshold" env:"SCAN_DEDUP_THRESHOLD" env-default:"0.7"`

	// MaxPromptChars bounds how much scraped text is submitted per LLM call.
	MaxPromptChars int `yaml:"max_prompt_chars" env:"SCAN_MAX_PROMPT_CHARS" env-default:"15000"`
}

// NavigationTimeout returns the browser navigation timeout as a duration.
func (b *BrowserConfig) NavigationTimeout() time.Duration {
	return time.Duration(b.NavigationTimeoutSeconds) * time.Second
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
// When config.yaml is absent, configuration comes from environment variables and
// defaults alone.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Auto-derive BaseURL from Port if not explicitly set
	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Scan.DedupThreshold <= 0 || c.Scan.DedupThreshold > 1 {
		return fmt.Errorf("scan.dedup_threshold must be in (0, 1], got %g", c.Scan.DedupThreshold)
	}
	if c.Scan.MaxPromptChars <= 0 {
		return fmt.Errorf("scan.max_prompt_chars must be positive, got %d", c.Scan.MaxPromptChars)
	}
	if c.Browser.NavigationTimeoutSeconds <= 0 {
		return fmt.Errorf("browser.navigation_timeout_seconds must be positive, got %d", c.Browser.NavigationTimeoutSeconds)
	}
	return nil
}
