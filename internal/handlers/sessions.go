package handlers

import (
	"encoding/json"
	"net/http"

	"parapheur/internal/geometry"
	"parapheur/internal/httpx"
	"parapheur/internal/services"
)

// SessionHandler covers the administrator-facing session routes.
type SessionHandler struct {
	Svc *services.SigningService
}

func NewSessionHandler(svc *services.SigningService) *SessionHandler {
	return &SessionHandler{Svc: svc}
}

type createSessionRequest struct {
	DocumentID string        `json:"documentId"`
	Page       int           `json:"page"`
	Rect       geometry.Rect `json:"rect"`
	GuestName  string        `json:"guestName"`
	GuestEmail string        `json:"guestEmail"`
}

// Create: POST /sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	sess, err := h.Svc.CreateSession(r.Context(), services.CreateSessionInput{
		DocumentID: req.DocumentID,
		Page:       req.Page,
		Rect:       req.Rect,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{
		"sessionId": sess.ID,
		"token":     sess.Token,
		"publicUrl": h.Svc.PublicURL(sess),
	})
}

// List: GET /admin/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.Svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items": sessions,
		"total": len(sessions),
	})
}

// Delete: DELETE /admin/sessions/{id} - also removes the signed artifact.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SignedPreview: GET /admin/sessions/{id}/signed-preview
func (h *SessionHandler) SignedPreview(w http.ResponseWriter, r *http.Request) {
	h.serveSigned(w, r, "inline")
}

// SignedDownload: GET /admin/sessions/{id}/signed-download
func (h *SessionHandler) SignedDownload(w http.ResponseWriter, r *http.Request) {
	h.serveSigned(w, r, "attachment")
}

func (h *SessionHandler) serveSigned(w http.ResponseWriter, r *http.Request, disposition string) {
	sess, err := h.Svc.Session(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := h.Svc.SignedContent(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", disposition+`; filename="signed-`+sess.ID+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
