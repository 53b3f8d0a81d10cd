package normalize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applyflow/cv-ocr/internal/domain"
)

type stubConverter struct {
	err  error
	dst  string
	data []byte
}

func (s *stubConverter) ConvertToPDF(ctx context.Context, src, outDir string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	dst := filepath.Join(outDir, s.dst)
	if err := os.WriteFile(dst, s.data, 0o644); err != nil {
		return "", err
	}
	return dst, nil
}

func newService(conv WordConverter) *Service {
	return NewService(conv, zerolog.Nop())
}

// pngBytes renders a small white image with a black stripe as PNG.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 60, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 60; x++ {
			if y > 15 && y < 25 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalize_UnsupportedExtension(t *testing.T) {
	svc := newService(&stubConverter{})

	_, err := svc.Normalize(context.Background(), domain.SubmittedDocument{
		Filename: "resume.txt",
		Data:     []byte("plain text"),
	}, t.TempDir())

	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrorTypeUnsupportedFormat, derr.Type)
}

func TestNormalize_MissingFilename(t *testing.T) {
	svc := newService(&stubConverter{})

	_, err := svc.Normalize(context.Background(), domain.SubmittedDocument{
		Filename: "   ",
		Data:     []byte("x"),
	}, t.TempDir())

	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrorTypeValidation, derr.Type)
}

func TestNormalize_ImageWrappedAsSinglePage(t *testing.T) {
	svc := newService(&stubConverter{})

	doc, err := svc.Normalize(context.Background(), domain.SubmittedDocument{
		Filename: "photo.PNG", // extension matching is case-insensitive
		Data:     pngBytes(t),
	}, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, domain.FormatImage, doc.Source)
	assert.Equal(t, 1, doc.PageCount)
	assert.FileExists(t, doc.Path)
}

func TestNormalize_PDFPassthrough(t *testing.T) {
	svc := newService(&stubConverter{})

	// Produce a known-valid PDF by wrapping an image first.
	wrapped, err := svc.Normalize(context.Background(), domain.SubmittedDocument{
		Filename: "photo.png",
		Data:     pngBytes(t),
	}, t.TempDir())
	require.NoError(t, err)

	pdfData, err := os.ReadFile(wrapped.Path)
	require.NoError(t, err)

	doc, err := svc.Normalize(context.Background(), domain.SubmittedDocument{
		Filename: "resume.pdf",
		Data:     pdfData,
	}, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, domain.FormatPDF, doc.Source)
	assert.Equal(t, 1, doc.PageCount)
}

func TestNormalize_CorruptPDF(t *testing.T) {
	svc := newService(&stubConverter{})

	_, err := svc.Normalize(context.Background(), domain.SubmittedDocument{
		Filename: "resume.pdf",
		Data:     []byte("definitely not a pdf"),
	}, t.TempDir())

	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrorTypeCorruptDocument, derr.Type)
}

func TestNormalize_WordConversionFailure(t *testing.T) {
	svc := newService(&stubConverter{err: errors.New("soffice exited 1")})

	_, err := svc.Normalize(context.Background(), domain.SubmittedDocument{
		Filename: "resume.docx",
		Data:     []byte("PK..."),
	}, t.TempDir())

	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrorTypeConversion, derr.Type)
	assert.Contains(t, err.Error(), "soffice exited 1")
}

func TestNormalize_WordConversionOutputUnreadable(t *testing.T) {
	svc := newService(&stubConverter{dst: "upload.pdf", data: []byte("broken output")})

	_, err := svc.Normalize(context.Background(), domain.SubmittedDocument{
		Filename: "resume.docx",
		Data:     []byte("PK..."),
	}, t.TempDir())

	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrorTypeCorruptDocument, derr.Type)
}

func TestNormalize_PersistsUploadInRawArea(t *testing.T) {
	svc := newService(&stubConverter{})
	rawDir := t.TempDir()

	_, err := svc.Normalize(context.Background(), domain.SubmittedDocument{
		Filename: "photo.png",
		Data:     pngBytes(t),
	}, rawDir)
	require.NoError(t, err)

	for _, name := range []string{"upload.png", "converted.pdf"} {
		assert.FileExists(t, filepath.Join(rawDir, name), fmt.Sprintf("%s should be staged in the raw area", name))
	}
}
