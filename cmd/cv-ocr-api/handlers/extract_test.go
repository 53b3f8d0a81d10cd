package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applyflow/cv-ocr/internal/domain"
)

type stubPipeline struct {
	result  *domain.ExtractionResult
	err     error
	gotDoc  domain.SubmittedDocument
	gotSub  domain.Submission
	invoked bool
}

func (s *stubPipeline) Process(ctx context.Context, doc domain.SubmittedDocument, sub domain.Submission) (*domain.ExtractionResult, error) {
	s.invoked = true
	s.gotDoc = doc
	s.gotSub = sub
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func multipartUpload(t *testing.T, filename string, fileData []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestExtract_Success(t *testing.T) {
	pipeline := &stubPipeline{
		result: &domain.ExtractionResult{CombinedText: "Role: Engineer\n\nExtracted CV text:\n"},
	}
	handler := NewExtractHandler(pipeline, 0, zerolog.Nop())

	body, contentType := multipartUpload(t, "cv.pdf", []byte("%PDF-1.4"), map[string]string{
		"role":         "Engineer",
		"email":        "jane@example.com",
		"user_message": "Please review.",
	})
	req := httptest.NewRequest(http.MethodPost, "/extract-text/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Extract(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	respBody, _ := io.ReadAll(rec.Body)
	assert.Equal(t, pipeline.result.CombinedText, string(respBody))

	assert.Equal(t, "cv.pdf", pipeline.gotDoc.Filename)
	assert.Equal(t, []byte("%PDF-1.4"), pipeline.gotDoc.Data)
	assert.Equal(t, domain.Submission{
		Role:    "Engineer",
		Email:   "jane@example.com",
		Message: "Please review.",
	}, pipeline.gotSub)
}

func TestExtract_MissingFile(t *testing.T) {
	pipeline := &stubPipeline{}
	handler := NewExtractHandler(pipeline, 0, zerolog.Nop())

	body, contentType := multipartUpload(t, "", nil, map[string]string{"role": "Engineer"})
	req := httptest.NewRequest(http.MethodPost, "/extract-text/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Extract(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file provided", rec.Body.String())
	assert.False(t, pipeline.invoked)
}

func TestExtract_InvalidMultipart(t *testing.T) {
	pipeline := &stubPipeline{}
	handler := NewExtractHandler(pipeline, 0, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/extract-text/", bytes.NewBufferString("not a form"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()

	handler.Extract(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, pipeline.invoked)
}

func TestExtract_ClientAttributableError(t *testing.T) {
	pipeline := &stubPipeline{err: domain.UnsupportedFormatError("Unsupported file type", nil)}
	handler := NewExtractHandler(pipeline, 0, zerolog.Nop())

	body, contentType := multipartUpload(t, "cv.odt", []byte("data"), nil)
	req := httptest.NewRequest(http.MethodPost, "/extract-text/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Extract(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unsupported file type")
}

func TestExtract_InternalError(t *testing.T) {
	pipeline := &stubPipeline{err: domain.ConversionError("Word document conversion failed", errors.New("soffice exit 1"))}
	handler := NewExtractHandler(pipeline, 0, zerolog.Nop())

	body, contentType := multipartUpload(t, "cv.docx", []byte("data"), nil)
	req := httptest.NewRequest(http.MethodPost, "/extract-text/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Extract(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Word document conversion failed")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unsupported format", domain.UnsupportedFormatError("bad type", nil), http.StatusBadRequest},
		{"validation", domain.ValidationError("No filename provided", nil), http.StatusBadRequest},
		{"conversion", domain.ConversionError("failed", nil), http.StatusInternalServerError},
		{"corrupt document", domain.CorruptDocumentError("failed", nil), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
