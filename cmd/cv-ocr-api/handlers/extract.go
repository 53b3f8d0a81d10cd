// Package handlers provides HTTP handlers for the CV OCR API.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/applyflow/cv-ocr/internal/domain"
)

// Pipeline is the extraction workflow the handler invokes.
type Pipeline interface {
	Process(ctx context.Context, doc domain.SubmittedDocument, sub domain.Submission) (*domain.ExtractionResult, error)
}

// ExtractHandler handles document submissions.
type ExtractHandler struct {
	pipeline       Pipeline
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewExtractHandler creates an extraction handler.
func NewExtractHandler(pipeline Pipeline, maxUploadBytes int64, logger zerolog.Logger) *ExtractHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 32 << 20
	}
	return &ExtractHandler{
		pipeline:       pipeline,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Extract handles POST /extract-text/. It accepts a multipart form with the
// fields role, email, user_message, and file, and responds with the combined
// extracted text as text/plain.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	sub := domain.Submission{
		Role:    r.FormValue("role"),
		Email:   r.FormValue("email"),
		Message: r.FormValue("user_message"),
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		h.writeError(w, http.StatusBadRequest, "No filename provided")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}

	doc := domain.SubmittedDocument{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	result, err := h.pipeline.Process(r.Context(), doc, sub)
	if err != nil {
		h.logger.Error().Err(err).Str("filename", doc.Filename).Msg("Extraction failed")
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(result.CombinedText))
}

// statusFor maps domain errors to HTTP statuses: client-attributable errors
// become 400, everything else 500.
func statusFor(err error) int {
	var derr *domain.DomainError
	if errors.As(err, &derr) && derr.ClientAttributable() {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *ExtractHandler) writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(detail))
}
