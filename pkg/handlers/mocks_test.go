package handlers

import (
	"context"

	"github.com/offerlens/coherence-engine/pkg/models"
	"github.com/offerlens/coherence-engine/pkg/services"
)

// mockScanService is a configurable ScanService stub.
type mockScanService struct {
	scanFunc   func(ctx context.Context, pageID string) (*services.ScanResult, error)
	lastPageID string
}

func (m *mockScanService) Scan(ctx context.Context, pageID string) (*services.ScanResult, error) {
	m.lastPageID = pageID
	return m.scanFunc(ctx, pageID)
}

// mockViewService is a configurable ViewService stub.
type mockViewService struct {
	viewFunc func(ctx context.Context) (*services.DataView, error)
}

func (m *mockViewService) BuildView(ctx context.Context) (*services.DataView, error) {
	return m.viewFunc(ctx)
}

// mockImportService is a configurable ProductImportService stub.
type mockImportService struct {
	importFunc func(ctx context.Context, sourceURL, rawText string) (*services.ImportResult, error)
	lastURL    string
	lastText   string
}

func (m *mockImportService) Import(ctx context.Context, sourceURL, rawText string) (*services.ImportResult, error) {
	m.lastURL = sourceURL
	m.lastText = rawText
	return m.importFunc(ctx, sourceURL, rawText)
}

// mockDiscrepancyRepo implements repositories.DiscrepancyRepository for
// resolve-handler tests; only Resolve is exercised.
type mockDiscrepancyRepo struct {
	resolveErr error
	lastID     string
	lastNotes  string
}

func (m *mockDiscrepancyRepo) GetByID(ctx context.Context, id string) (*models.Discrepancy, error) {
	return nil, nil
}

func (m *mockDiscrepancyRepo) List(ctx context.Context) ([]*models.Discrepancy, error) {
	return nil, nil
}

func (m *mockDiscrepancyRepo) ListByPage(ctx context.Context, pageID string) ([]*models.Discrepancy, error) {
	return nil, nil
}

func (m *mockDiscrepancyRepo) ListResolutionsByPage(ctx context.Context, pageID string) ([]*models.Discrepancy, error) {
	return nil, nil
}

func (m *mockDiscrepancyRepo) Create(ctx context.Context, d *models.Discrepancy) (string, error) {
	return "", nil
}

func (m *mockDiscrepancyRepo) Resolve(ctx context.Context, id, notes string) error {
	m.lastID = id
	m.lastNotes = notes
	return m.resolveErr
}
