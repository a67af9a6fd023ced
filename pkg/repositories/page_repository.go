package repositories

import (
	"context"
	"fmt"

	"github.com/offerlens/coherence-engine/pkg/jsonutil"
	"github.com/offerlens/coherence-engine/pkg/models"
	"github.com/offerlens/coherence-engine/pkg/store"
)

// PageRepository provides access to monitored client pages.
type PageRepository interface {
	// GetByID returns a page, or apperrors.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Page, error)

	// List returns every monitored page.
	List(ctx context.Context) ([]*models.Page, error)

	// UpdateScanResult records the outcome of a scan: the scraped text, the
	// date-only last-checked stamp, and the review status.
	UpdateScanResult(ctx context.Context, id, rawText, lastCheckedDate, status string) error
}

type pageRepository struct {
	store store.RecordStore
	table string
}

// NewPageRepository creates a page repository over the given store.
func NewPageRepository(s store.RecordStore, table string) PageRepository {
	return &pageRepository{store: s, table: table}
}

var _ PageRepository = (*pageRepository)(nil)

func (r *pageRepository) GetByID(ctx context.Context, id string) (*models.Page, error) {
	rec, err := r.store.Find(ctx, r.table, id)
	if err != nil {
		return nil, fmt.Errorf("find page %s: %w", id, err)
	}
	return pageFromRecord(rec), nil
}

func (r *pageRepository) List(ctx context.Context) ([]*models.Page, error) {
	records, err := r.store.List(ctx, r.table, "")
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	pages := make([]*models.Page, 0, len(records))
	for _, rec := range records {
		pages = append(pages, pageFromRecord(rec))
	}
	return pages, nil
}

func (r *pageRepository) UpdateScanResult(ctx context.Context, id, rawText, lastCheckedDate, status string) error {
	fields := map[string]any{
		fieldTranscription:   rawText,
		fieldLastCheckedDate: lastCheckedDate,
		fieldReviewStatus:    status,
	}
	if err := r.store.Update(ctx, r.table, id, fields); err != nil {
		return fmt.Errorf("update page %s: %w", id, err)
	}
	return nil
}

func pageFromRecord(rec *store.Record) *models.Page {
	return &models.Page{
		ID:              rec.ID,
		ClientName:      jsonutil.FlexibleString(rec.Fields[fieldClientName]),
		URL:             jsonutil.FlexibleString(rec.Fields[fieldWebPageURL]),
		CentreIDs:       jsonutil.FlexibleStringSlice(rec.Fields[fieldPageCentres]),
		LastCheckedAt:   jsonutil.FlexibleString(rec.Fields[fieldLastCheckedDate]),
		RawText:         jsonutil.FlexibleString(rec.Fields[fieldTranscription]),
		CoherenceStatus: jsonutil.FlexibleString(rec.Fields[fieldReviewStatus]),
		CreatedAt:       rec.CreatedTime,
	}
}
