package handlers

import (
	"encoding/json"
	"net/http"

	"parapheur/internal/httpx"
	"parapheur/internal/models"
	"parapheur/internal/services"
)

// GuestHandler covers the token-scoped routes guests reach through their
// signing link. It never exposes storage paths or other internal state, and
// every lookup failure collapses into one generic message.
type GuestHandler struct {
	Svc *services.SigningService
}

func NewGuestHandler(svc *services.SigningService) *GuestHandler {
	return &GuestHandler{Svc: svc}
}

type guestSessionResponse struct {
	ID              string               `json:"id"`
	Token           string               `json:"token"`
	GuestName       string               `json:"guestName"`
	GuestEmail      string               `json:"guestEmail"`
	Status          models.SessionStatus `json:"status"`
	DocumentViewURL string               `json:"documentViewUrl"`
	Page            int                  `json:"page"`
}

func guestProjection(sess *models.SigningSession) guestSessionResponse {
	return guestSessionResponse{
		ID:              sess.ID,
		Token:           sess.Token,
		GuestName:       sess.GuestName,
		GuestEmail:      sess.GuestEmail,
		Status:          sess.Status,
		DocumentViewURL: "/documents/" + sess.DocumentID,
		Page:            sess.Page,
	}
}

// Get: GET /sessions/by-token/{token}
func (h *GuestHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Svc.SessionByToken(r.Context(), r.PathValue("token"))
	if err != nil {
		writeGuestError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, guestProjection(sess))
}

// Sign: POST /sessions/by-token/{token}/sign
func (h *GuestHandler) Sign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageBase64 string `json:"imageBase64"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	sess, err := h.Svc.Sign(r.Context(), r.PathValue("token"), req.ImageBase64)
	if err != nil {
		writeGuestError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{
		"sessionId":         sess.ID,
		"signedDocumentUrl": "/sessions/by-token/" + sess.Token + "/signed",
	})
}

// Confirm: POST /sessions/by-token/{token}/confirm
func (h *GuestHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Svc.Confirm(r.Context(), r.PathValue("token"))
	if err != nil {
		writeGuestError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, guestProjection(sess))
}

// Signed: GET /sessions/by-token/{token}/signed - lets the guest review the
// stamped document before confirming.
func (h *GuestHandler) Signed(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Svc.SessionByToken(r.Context(), r.PathValue("token"))
	if err != nil {
		writeGuestError(w, err)
		return
	}
	data, err := h.Svc.SignedContent(r.Context(), sess)
	if err != nil {
		writeGuestError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="signed.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
