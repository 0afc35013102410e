package handlers

import (
	"encoding/json"
	"net/http"

	"parapheur/internal/geometry"
	"parapheur/internal/httpx"
	"parapheur/internal/services"
)

// CalibrateHandler exposes the test-stamp endpoint used to verify coordinate
// mapping during development. Not registered in production.
type CalibrateHandler struct {
	Svc *services.SigningService
}

func NewCalibrateHandler(svc *services.SigningService) *CalibrateHandler {
	return &CalibrateHandler{Svc: svc}
}

// TestStamp: POST /calibrate/test-stamp - returns the document with a
// rectangle outline stamped at the given placement.
func (h *CalibrateHandler) TestStamp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocumentID string        `json:"documentId"`
		Page       int           `json:"page"`
		Rect       geometry.Rect `json:"rect"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	out, err := h.Svc.TestStamp(r.Context(), req.DocumentID, req.Page, req.Rect)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="calibration.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
