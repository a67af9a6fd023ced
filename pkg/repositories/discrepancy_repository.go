package repositories

import (
	"context"
	"fmt"

	"github.com/offerlens/coherence-engine/pkg/jsonutil"
	"github.com/offerlens/coherence-engine/pkg/models"
	"github.com/offerlens/coherence-engine/pkg/store"
)

// DiscrepancyRepository provides access to discrepancy notes.
type DiscrepancyRepository interface {
	// GetByID returns a discrepancy, or apperrors.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Discrepancy, error)

	// List returns every discrepancy.
	List(ctx context.Context) ([]*models.Discrepancy, error)

	// ListByPage returns the discrepancies linked to one page.
	ListByPage(ctx context.Context, pageID string) ([]*models.Discrepancy, error)

	// ListResolutionsByPage returns the discrepancies for a page that carry a
	// non-empty resolution note, i.e. the comparison memory.
	ListResolutionsByPage(ctx context.Context, pageID string) ([]*models.Discrepancy, error)

	// Create inserts a new discrepancy and returns its ID.
	Create(ctx context.Context, d *models.Discrepancy) (string, error)

	// Resolve writes the resolution note and sets the resolved flag.
	Resolve(ctx context.Context, id, notes string) error
}

type discrepancyRepository struct {
	store store.RecordStore
	table string
}

// NewDiscrepancyRepository creates a discrepancy repository over the given store.
func NewDiscrepancyRepository(s store.RecordStore, table string) DiscrepancyRepository {
	return &discrepancyRepository{store: s, table: table}
}

var _ DiscrepancyRepository = (*discrepancyRepository)(nil)

func (r *discrepancyRepository) GetByID(ctx context.Context, id string) (*models.Discrepancy, error) {
	rec, err := r.store.Find(ctx, r.table, id)
	if err != nil {
		return nil, fmt.Errorf("find discrepancy %s: %w", id, err)
	}
	return discrepancyFromRecord(rec), nil
}

func (r *discrepancyRepository) List(ctx context.Context) ([]*models.Discrepancy, error) {
	return r.list(ctx, "")
}

func (r *discrepancyRepository) ListByPage(ctx context.Context, pageID string) ([]*models.Discrepancy, error) {
	return r.list(ctx, store.Eq(fieldPageLink, pageID))
}

func (r *discrepancyRepository) ListResolutionsByPage(ctx context.Context, pageID string) ([]*models.Discrepancy, error) {
	filter := store.And(store.Eq(fieldPageLink, pageID), store.NotEmpty(fieldResolutionNotes))
	return r.list(ctx, filter)
}

func (r *discrepancyRepository) list(ctx context.Context, filter string) ([]*models.Discrepancy, error) {
	records, err := r.store.List(ctx, r.table, filter)
	if err != nil {
		return nil, fmt.Errorf("list discrepancies: %w", err)
	}
	out := make([]*models.Discrepancy, 0, len(records))
	for _, rec := range records {
		out = append(out, discrepancyFromRecord(rec))
	}
	return out, nil
}

func (r *discrepancyRepository) Create(ctx context.Context, d *models.Discrepancy) (string, error) {
	fields := map[string]any{
		fieldDiscrepancyName: d.Name,
		fieldDescription:     d.Description,
		fieldPageLink:        []string{d.PageID},
		fieldResolved:        false,
		fieldDateDetected:    d.CreatedAt.Format("2006-01-02"),
	}
	if d.Severity != "" {
		fields[fieldSeverity] = d.Severity
	}
	if d.CentreID != "" {
		fields[fieldCentreLink] = []string{d.CentreID}
	}

	rec, err := r.store.Create(ctx, r.table, fields)
	if err != nil {
		return "", fmt.Errorf("create discrepancy: %w", err)
	}
	return rec.ID, nil
}

func (r *discrepancyRepository) Resolve(ctx context.Context, id, notes string) error {
	fields := map[string]any{
		fieldResolutionNotes: notes,
		fieldResolved:        true,
	}
	if err := r.store.Update(ctx, r.table, id, fields); err != nil {
		return fmt.Errorf("resolve discrepancy %s: %w", id, err)
	}
	return nil
}

func discrepancyFromRecord(rec *store.Record) *models.Discrepancy {
	pageIDs := jsonutil.FlexibleStringSlice(rec.Fields[fieldPageLink])
	pageID := ""
	if len(pageIDs) > 0 {
		// First linked page is authoritative when several exist.
		pageID = pageIDs[0]
	}
	centreIDs := jsonutil.FlexibleStringSlice(rec.Fields[fieldCentreLink])
	centreID := ""
	if len(centreIDs) > 0 {
		centreID = centreIDs[0]
	}

	return &models.Discrepancy{
		ID:              rec.ID,
		Name:            jsonutil.FlexibleString(rec.Fields[fieldDiscrepancyName]),
		Description:     jsonutil.FlexibleString(rec.Fields[fieldDescription]),
		Severity:        jsonutil.FlexibleString(rec.Fields[fieldSeverity]),
		PageID:          pageID,
		CentreID:        centreID,
		Resolved:        jsonutil.FlexibleBool(rec.Fields[fieldResolved]),
		ResolutionNotes: jsonutil.FlexibleString(rec.Fields[fieldResolutionNotes]),
		CreatedAt:       rec.CreatedTime,
	}
}
