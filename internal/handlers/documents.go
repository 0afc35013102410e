package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"parapheur/internal/httpx"
	"parapheur/internal/services"
)

// DocumentHandler serves uploads and raw source PDFs.
type DocumentHandler struct {
	Svc       *services.SigningService
	MaxUpload int64
}

func NewDocumentHandler(svc *services.SigningService, maxUpload int64) *DocumentHandler {
	return &DocumentHandler{Svc: svc, MaxUpload: maxUpload}
}

// Upload: POST /upload - multipart form, field "file", PDF only.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)
	if err := r.ParseMultipartForm(h.MaxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "file_too_large", nil)
			return
		}
		httpx.JSONError(w, http.StatusBadRequest, "invalid_multipart", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "missing_file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "unreadable_file", nil)
		return
	}
	doc, err := h.Svc.UploadDocument(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"documentId": doc.ID,
		"pageCount":  doc.PageCount,
	})
}

// Get: GET /documents/{id} - streams the original PDF.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, data, err := h.Svc.DocumentContent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+safeFilename(doc.Name)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// safeFilename reduces an uploaded filename to something that can sit inside
// a quoted Content-Disposition value: path prefixes, quotes and control
// characters go, and an empty result falls back to a fixed name.
func safeFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	var b strings.Builder
	for _, r := range name {
		if r < 0x20 || r == 0x7f || r == '"' || r == '\\' {
			continue
		}
		b.WriteRune(r)
	}
	name = strings.TrimSpace(b.String())
	if name == "" || name == "." || name == ".." {
		return "document.pdf"
	}
	return name
}
