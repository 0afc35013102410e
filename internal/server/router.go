// Package server wires the HTTP routes and shared middleware.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"gorm.io/gorm"

	"parapheur/internal/config"
	"parapheur/internal/handlers"
	"parapheur/internal/httpx"
	"parapheur/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(cfg config.Config, db *gorm.DB, svc *services.SigningService) http.Handler {
	mux := http.NewServeMux()

	dh := handlers.NewDocumentHandler(svc, cfg.MaxUploadBytes)
	sh := handlers.NewSessionHandler(svc)
	gh := handlers.NewGuestHandler(svc)

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Documents
	mux.HandleFunc("POST /upload", dh.Upload)
	mux.HandleFunc("GET /documents/{id}", dh.Get)

	// Sessions (admin side)
	mux.HandleFunc("POST /sessions", sh.Create)
	mux.HandleFunc("GET /admin/sessions", sh.List)
	mux.HandleFunc("DELETE /admin/sessions/{id}", sh.Delete)
	mux.HandleFunc("GET /admin/sessions/{id}/signed-preview", sh.SignedPreview)
	mux.HandleFunc("GET /admin/sessions/{id}/signed-download", sh.SignedDownload)

	// Guest routes, reached through the token in the signing link
	mux.HandleFunc("GET /sessions/by-token/{token}", gh.Get)
	mux.HandleFunc("POST /sessions/by-token/{token}/sign", gh.Sign)
	mux.HandleFunc("POST /sessions/by-token/{token}/confirm", gh.Confirm)
	mux.HandleFunc("GET /sessions/by-token/{token}/signed", gh.Signed)

	// Calibration is a debug tool and stays off in production.
	if !cfg.Production() {
		ch := handlers.NewCalibrateHandler(svc)
		mux.HandleFunc("POST /calibrate/test-stamp", ch.TestStamp)
	}

	return withRecover(withLogging(mux))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", "path", r.URL.Path, "panic", rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
