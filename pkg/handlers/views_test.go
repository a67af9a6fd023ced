package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/services"
)

func TestDataHandler_Success(t *testing.T) {
	svc := &mockViewService{
		viewFunc: func(ctx context.Context) (*services.DataView, error) {
			return &services.DataView{
				Pages:         []services.PageView{{ID: "recPage1", Client: "ACME", Discrepancies: 2}},
				Products:      []services.ProductView{{ID: "recCentre1", Name: "Dublino Campus"}},
				Discrepancies: []services.DiscrepancyView{{ID: "recD1", Name: "Price mismatch"}},
			}, nil
		},
	}

	mux := http.NewServeMux()
	NewDataHandler(svc, zap.NewNop()).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var view services.DataView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(view.Pages) != 1 || view.Pages[0].Discrepancies != 2 {
		t.Errorf("unexpected pages projection: %+v", view.Pages)
	}
	if len(view.Products) != 1 || view.Products[0].Name != "Dublino Campus" {
		t.Errorf("unexpected products projection: %+v", view.Products)
	}
	if len(view.Discrepancies) != 1 {
		t.Errorf("unexpected discrepancies projection: %+v", view.Discrepancies)
	}
}

func TestDataHandler_Failure(t *testing.T) {
	svc := &mockViewService{
		viewFunc: func(ctx context.Context) (*services.DataView, error) {
			return nil, errors.New("store unavailable")
		},
	}

	mux := http.NewServeMux()
	NewDataHandler(svc, zap.NewNop()).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
}
