package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/services"
)

// ImportRequest is the body of a product import. One of SourceURL or RawText
// must be set.
type ImportRequest struct {
	SourceURL string `json:"sourceUrl"`
	RawText   string `json:"rawText"`
}

// ImportHandler exposes the product import operation.
type ImportHandler struct {
	importer services.ProductImportService
	logger   *zap.Logger
}

// NewImportHandler creates a new import handler.
func NewImportHandler(importer services.ProductImportService, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{importer: importer, logger: logger}
}

// RegisterRoutes registers the import handler's routes on the given mux.
func (h *ImportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/import-products", h.Import)
}

// Import handles POST /api/import-products.
// Extracts product entries from a URL or pasted text and creates centre
// records for them.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Request body must be JSON"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.SourceURL == "" && req.RawText == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "missing_source", "Either sourceUrl or rawText is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.importer.Import(r.Context(), req.SourceURL, req.RawText)
	if err != nil {
		h.logger.Error("Product import failed", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Product import failed"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
