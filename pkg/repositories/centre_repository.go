package repositories

import (
	"context"
	"fmt"

	"github.com/offerlens/coherence-engine/pkg/jsonutil"
	"github.com/offerlens/coherence-engine/pkg/models"
	"github.com/offerlens/coherence-engine/pkg/store"
)

// CentreRepository provides access to official centres (the product catalog).
type CentreRepository interface {
	// GetByID returns a centre, or apperrors.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Centre, error)

	// List returns every centre.
	List(ctx context.Context) ([]*models.Centre, error)

	// UpdateFactsCache writes the serialized fact sheet for a centre.
	UpdateFactsCache(ctx context.Context, id, serialized string) error

	// Create inserts a centre imported from an external product source.
	Create(ctx context.Context, name, referencePageURL string) (string, error)
}

type centreRepository struct {
	store store.RecordStore
	table string
}

// NewCentreRepository creates a centre repository over the given store.
func NewCentreRepository(s store.RecordStore, table string) CentreRepository {
	return &centreRepository{store: s, table: table}
}

var _ CentreRepository = (*centreRepository)(nil)

func (r *centreRepository) GetByID(ctx context.Context, id string) (*models.Centre, error) {
	rec, err := r.store.Find(ctx, r.table, id)
	if err != nil {
		return nil, fmt.Errorf("find centre %s: %w", id, err)
	}
	return centreFromRecord(rec), nil
}

func (r *centreRepository) List(ctx context.Context) ([]*models.Centre, error) {
	records, err := r.store.List(ctx, r.table, "")
	if err != nil {
		return nil, fmt.Errorf("list centres: %w", err)
	}
	centres := make([]*models.Centre, 0, len(records))
	for _, rec := range records {
		centres = append(centres, centreFromRecord(rec))
	}
	return centres, nil
}

func (r *centreRepository) UpdateFactsCache(ctx context.Context, id, serialized string) error {
	if err := r.store.Update(ctx, r.table, id, map[string]any{fieldFactsCache: serialized}); err != nil {
		return fmt.Errorf("update centre %s facts cache: %w", id, err)
	}
	return nil
}

func (r *centreRepository) Create(ctx context.Context, name, referencePageURL string) (string, error) {
	fields := map[string]any{
		fieldCentreName: name,
	}
	if referencePageURL != "" {
		fields[fieldReferencePage] = referencePageURL
	}
	rec, err := r.store.Create(ctx, r.table, fields)
	if err != nil {
		return "", fmt.Errorf("create centre: %w", err)
	}
	return rec.ID, nil
}

func centreFromRecord(rec *store.Record) *models.Centre {
	return &models.Centre{
		ID:                 rec.ID,
		Name:               jsonutil.FlexibleString(rec.Fields[fieldCentreName]),
		ReferencePageURL:   jsonutil.FlexibleString(rec.Fields[fieldReferencePage]),
		OfficialFactsCache: jsonutil.FlexibleString(rec.Fields[fieldFactsCache]),
		Price:              jsonutil.FlexibleString(rec.Fields[fieldPrice]),
		Active:             jsonutil.FlexibleBool(rec.Fields[fieldActive]),
	}
}
