package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/apperrors"
	"github.com/offerlens/coherence-engine/pkg/models"
	"github.com/offerlens/coherence-engine/pkg/repositories"
	"github.com/offerlens/coherence-engine/pkg/scrape"
)

// ReviewStatusVerified and ReviewStatusPending are the review states written
// back to the page after a scan.
const (
	ReviewStatusVerified = "Verificata"
	ReviewStatusPending  = "Da verificare"
)

// ScanResult is the outcome of one scan operation.
type ScanResult struct {
	Created int    `json:"createdCount"`
	Skipped int    `json:"skippedCount"`
	Summary string `json:"summary"`
}

// PageFetcher is the text-extractor boundary consumed by the orchestrator.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) scrape.Result
}

// ScanService runs the end-to-end scan of one monitored page.
type ScanService interface {
	// Scan fetches the page and its official reference, compares them, and
	// persists the non-duplicate discrepancies. Only missing-page and
	// missing-reference preconditions fail the operation; every downstream
	// failure degrades and the scan completes with counts.
	Scan(ctx context.Context, pageID string) (*ScanResult, error)
}

type scanService struct {
	pages         repositories.PageRepository
	centres       repositories.CentreRepository
	discrepancies repositories.DiscrepancyRepository
	fetcher       PageFetcher
	extractor     FactExtractor
	cache         *FactSheetCache
	comparator    Comparator
	dedup         Deduplicator
	logger        *zap.Logger
	now           func() time.Time
}

// NewScanService wires the scan orchestrator from its collaborators.
func NewScanService(
	pages repositories.PageRepository,
	centres repositories.CentreRepository,
	discrepancies repositories.DiscrepancyRepository,
	fetcher PageFetcher,
	extractor FactExtractor,
	cache *FactSheetCache,
	comparator Comparator,
	dedup Deduplicator,
	logger *zap.Logger,
) ScanService {
	return &scanService{
		pages:         pages,
		centres:       centres,
		discrepancies: discrepancies,
		fetcher:       fetcher,
		extractor:     extractor,
		cache:         cache,
		comparator:    comparator,
		dedup:         dedup,
		logger:        logger.Named("scan"),
		now:           time.Now,
	}
}

var _ ScanService = (*scanService)(nil)

func (s *scanService) Scan(ctx context.Context, pageID string) (*ScanResult, error) {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}

	centreID := page.PrimaryCentreID()
	if centreID == "" {
		return nil, fmt.Errorf("page %s: %w", pageID, apperrors.ErrMissingReference)
	}

	centre, err := s.centres.GetByID(ctx, centreID)
	if err != nil {
		return nil, fmt.Errorf("load centre %s: %w", centreID, err)
	}
	if centre.ReferencePageURL == "" {
		return nil, fmt.Errorf("centre %s: %w", centreID, apperrors.ErrMissingReference)
	}

	s.logger.Info("scan started",
		zap.String("pageId", pageID),
		zap.String("centreId", centreID),
		zap.String("url", page.URL))

	clientText, facts := s.gatherInputs(ctx, page, centre)

	priorResolutions := s.loadPriorResolutions(ctx, pageID)

	comparison := s.comparator.Compare(ctx, page.URL, clientText, centre.ReferencePageURL, facts, priorResolutions)

	created, skipped := s.persistCandidates(ctx, pageID, centreID, comparison.Discrepancies)

	// The last-checked stamp is written even when every stage above degraded
	// to its fallback. Date-only granularity matches the store field.
	status := ReviewStatusVerified
	if comparison.Summary == FailureSummary {
		status = ReviewStatusPending
	}
	checkedDate := s.now().Format("2006-01-02")
	if err := s.pages.UpdateScanResult(ctx, pageID, clientText, checkedDate, status); err != nil {
		s.logger.Error("could not record scan outcome on page",
			zap.String("pageId", pageID),
			zap.Error(err))
	}

	s.logger.Info("scan finished",
		zap.String("pageId", pageID),
		zap.Int("created", created),
		zap.Int("skipped", skipped),
		zap.String("score", comparison.CoherenceScore))

	return &ScanResult{
		Created: created,
		Skipped: skipped,
		Summary: comparison.Summary,
	}, nil
}

// gatherInputs fetches the client text and resolves the official fact sheet.
// On a cache miss the client and official fetches run concurrently: they are
// independent I/O with no data dependency.
func (s *scanService) gatherInputs(ctx context.Context, page *models.Page, centre *models.Centre) (string, *models.FactSheet) {
	cached := s.cache.Get(ctx, centre)
	if cached != nil {
		result := s.fetcher.Fetch(ctx, page.URL)
		return result.Text, cached
	}

	var (
		wg             sync.WaitGroup
		clientResult   scrape.Result
		officialResult scrape.Result
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		clientResult = s.fetcher.Fetch(ctx, page.URL)
	}()
	go func() {
		defer wg.Done()
		officialResult = s.fetcher.Fetch(ctx, centre.ReferencePageURL)
	}()
	wg.Wait()

	sheet := s.extractor.Extract(ctx, officialResult.Text, centre.ReferencePageURL)
	if !sheet.IsFallback() {
		s.cache.Put(ctx, centre.ID, sheet)
	}
	return clientResult.Text, sheet
}

// loadPriorResolutions pulls the page's comparison memory. A store failure
// degrades to an empty memory rather than failing the scan.
func (s *scanService) loadPriorResolutions(ctx context.Context, pageID string) []PriorResolution {
	resolved, err := s.discrepancies.ListResolutionsByPage(ctx, pageID)
	if err != nil {
		s.logger.Warn("could not load prior resolutions, comparing without memory",
			zap.String("pageId", pageID),
			zap.Error(err))
		return nil
	}

	priors := make([]PriorResolution, 0, len(resolved))
	for _, d := range resolved {
		priors = append(priors, PriorResolution{
			Description: d.Description,
			Resolution:  d.ResolutionNotes,
		})
	}
	return priors
}

// persistCandidates runs each candidate through dedup and creates the
// survivors. A failing create is logged and skipped so one bad record never
// aborts the rest of the batch.
func (s *scanService) persistCandidates(ctx context.Context, pageID, centreID string, candidates []CandidateDiscrepancy) (created, skipped int) {
	for _, candidate := range candidates {
		duplicate, err := s.dedup.IsDuplicate(ctx, pageID, candidate.Description)
		if err != nil {
			s.logger.Warn("dedup check failed, treating candidate as new",
				zap.String("pageId", pageID),
				zap.Error(err))
		}
		if duplicate {
			skipped++
			continue
		}

		_, err = s.discrepancies.Create(ctx, &models.Discrepancy{
			Name:        candidate.Name,
			Description: candidate.Description,
			Severity:    candidate.Severity,
			PageID:      pageID,
			CentreID:    centreID,
			CreatedAt:   s.now(),
		})
		if err != nil {
			s.logger.Error("could not persist discrepancy, continuing batch",
				zap.String("pageId", pageID),
				zap.String("name", candidate.Name),
				zap.Error(err))
			continue
		}
		created++
	}
	return created, skipped
}
