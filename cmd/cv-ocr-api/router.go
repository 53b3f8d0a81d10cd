// Package main provides the API router setup.
package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/applyflow/cv-ocr/cmd/cv-ocr-api/handlers"
	"github.com/applyflow/cv-ocr/cmd/cv-ocr-api/middleware"
)

// NewRouter creates the API router with all routes configured.
func NewRouter(pipeline handlers.Pipeline, maxUploadBytes int64, requestTimeout time.Duration, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(requestTimeout))

	// Health/status (the submission UI probes this)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"OCR API is running."}`))
	})

	extractHandler := handlers.NewExtractHandler(pipeline, maxUploadBytes, logger)
	r.Post("/extract-text/", extractHandler.Extract)

	return r
}
