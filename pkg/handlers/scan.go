package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/apperrors"
	"github.com/offerlens/coherence-engine/pkg/services"
)

// ScanRequest is the body of a scan trigger.
type ScanRequest struct {
	PageID string `json:"pageId"`
}

// ScanHandler exposes the scan operation.
type ScanHandler struct {
	scans  services.ScanService
	logger *zap.Logger
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(scans services.ScanService, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{scans: scans, logger: logger}
}

// RegisterRoutes registers the scan handler's routes on the given mux.
func (h *ScanHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/scan", h.Scan)
}

// Scan handles POST /api/scan.
// Runs the full coherence scan for one page and returns the created/skipped
// counts with the analysis summary.
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Request body must be JSON with a pageId field"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.PageID == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "missing_page_id", "pageId is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.scans.Scan(r.Context(), req.PageID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			if err := ErrorResponse(w, http.StatusNotFound, "not_found", "Page not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrMissingReference):
			if err := ErrorResponse(w, http.StatusBadRequest, "missing_reference", "Page has no official reference URL to compare against"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Scan failed",
				zap.String("page_id", req.PageID),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Scan failed"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
