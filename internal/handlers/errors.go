package handlers

import (
	"errors"
	"net/http"

	"parapheur/internal/geometry"
	"parapheur/internal/httpx"
	"parapheur/internal/models"
	"parapheur/internal/stamp"
)

// writeError maps domain errors to HTTP statuses for admin-facing routes.
func writeError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	var pnf *stamp.PageNotFoundError
	var pe *models.PersistenceError

	switch {
	case errors.As(err, &ve):
		httpx.JSONError(w, http.StatusBadRequest, "validation_error", ve.Error())
	case errors.As(err, &pnf):
		httpx.JSONError(w, http.StatusNotFound, "page_not_found", map[string]int{
			"page":      pnf.Page,
			"pageCount": pnf.PageCount,
		})
	case errors.Is(err, models.ErrInvalidTransition):
		httpx.JSONError(w, http.StatusConflict, "invalid_transition", nil)
	case errors.Is(err, stamp.ErrInvalidImage):
		httpx.JSONError(w, http.StatusUnprocessableEntity, "invalid_image", err.Error())
	case errors.Is(err, stamp.ErrInvalidDocument):
		httpx.JSONError(w, http.StatusUnprocessableEntity, "invalid_document", nil)
	case errors.Is(err, geometry.ErrInvalidViewport):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_viewport", nil)
	case errors.Is(err, models.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.As(err, &pe):
		httpx.JSONError(w, http.StatusInternalServerError, "persistence_error", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// guestLinkMessage is returned for every guest lookup failure so callers
// cannot tell an unknown token from a malformed one.
const guestLinkMessage = "link invalid or expired"

// writeGuestError hides not-found details behind a generic message; other
// failures map as usual.
func writeGuestError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, guestLinkMessage, nil)
		return
	}
	writeError(w, err)
}
