package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/config"
	"github.com/offerlens/coherence-engine/pkg/handlers"
	"github.com/offerlens/coherence-engine/pkg/llm"
	"github.com/offerlens/coherence-engine/pkg/logging"
	"github.com/offerlens/coherence-engine/pkg/middleware"
	"github.com/offerlens/coherence-engine/pkg/repositories"
	"github.com/offerlens/coherence-engine/pkg/scrape"
	"github.com/offerlens/coherence-engine/pkg/services"
	"github.com/offerlens/coherence-engine/pkg/store"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("store_base", cfg.Store.BaseID),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("ai_model", cfg.AI.Model))

	// Record store and typed repositories
	recordStore, err := store.NewAirtableClient(store.AirtableConfig{
		BaseURL: cfg.Store.BaseURL,
		BaseID:  cfg.Store.BaseID,
		APIKey:  cfg.Store.APIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create store client", zap.Error(err))
	}

	pages := repositories.NewPageRepository(recordStore, cfg.Store.PagesTable)
	centres := repositories.NewCentreRepository(recordStore, cfg.Store.CentresTable)
	discrepancies := repositories.NewDiscrepancyRepository(recordStore, cfg.Store.DiscrepanciesTable)

	// Headless browser and text extraction
	renderer := scrape.NewChromeRenderer(scrape.ChromeConfig{
		Headless:  cfg.Browser.Headless,
		UserAgent: cfg.Browser.UserAgent,
	})
	fetcher := scrape.NewTextExtractor(renderer, cfg.Browser.NavigationTimeout(), logger)

	// Language-model clients, shared circuit breaker
	comparisonClient, extractionClient, err := llm.NewClients(llm.FactoryConfig{
		Provider:        cfg.AI.Provider,
		Endpoint:        cfg.AI.Endpoint,
		Model:           cfg.AI.Model,
		ExtractionModel: cfg.AI.ExtractionModel,
		APIKey:          cfg.AI.APIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM clients", zap.Error(err))
	}
	breaker := llm.NewCircuitBreaker(llm.DefaultCircuitBreakerConfig())
	guardedComparison := llm.NewGuardedClient(comparisonClient, breaker, nil, logger)
	guardedExtraction := llm.NewGuardedClient(extractionClient, breaker, nil, logger)

	// Services
	extractor := services.NewFactExtractor(guardedExtraction, cfg.Scan.MaxPromptChars, logger)
	cache := services.NewFactSheetCache(centres, logger)
	comparator := services.NewComparator(guardedComparison, cfg.Scan.MaxPromptChars, logger)
	dedup := services.NewDeduplicator(discrepancies, cfg.Scan.DedupThreshold, logger)
	scans := services.NewScanService(pages, centres, discrepancies, fetcher, extractor, cache, comparator, dedup, logger)
	views := services.NewViewService(pages, centres, discrepancies, logger)
	importer := services.NewProductImportService(centres, fetcher, guardedComparison, cfg.Scan.MaxPromptChars, logger)

	// HTTP surface
	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewScanHandler(scans, logger).RegisterRoutes(mux)
	handlers.NewDiscrepancyHandler(discrepancies, logger).RegisterRoutes(mux)
	handlers.NewDataHandler(views, logger).RegisterRoutes(mux)
	handlers.NewImportHandler(importer, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting coherence-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
