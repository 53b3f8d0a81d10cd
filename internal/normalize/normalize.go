// Package normalize converts supported uploads into the canonical paged
// document form the rest of the pipeline renders from.
package normalize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog"

	"github.com/applyflow/cv-ocr/internal/domain"
)

// WordConverter turns a word-processor document into a PDF. The conversion
// mechanism is platform-dependent, so it stays behind this capability
// interface; see SofficeConverter for the default backend.
type WordConverter interface {
	ConvertToPDF(ctx context.Context, src, outDir string) (string, error)
}

// Service implements domain.Normalizer.
type Service struct {
	converter WordConverter
	logger    zerolog.Logger
}

// NewService creates a normalizer using the given word-processor converter.
func NewService(converter WordConverter, logger zerolog.Logger) *Service {
	return &Service{converter: converter, logger: logger}
}

// Normalize writes the upload into rawDir and produces the canonical PDF:
// PDFs pass through, images are wrapped into a single-page PDF, and
// word-processor documents go through the external converter.
func (s *Service) Normalize(ctx context.Context, doc domain.SubmittedDocument, rawDir string) (domain.CanonicalDocument, error) {
	if strings.TrimSpace(doc.Filename) == "" {
		return domain.CanonicalDocument{}, domain.ValidationError("No filename provided", nil)
	}

	ext := strings.ToLower(filepath.Ext(doc.Filename))
	inputPath := filepath.Join(rawDir, "upload"+ext)
	if err := os.WriteFile(inputPath, doc.Data, 0o644); err != nil {
		return domain.CanonicalDocument{}, domain.IOError("persist upload", err)
	}

	var (
		canonicalPath string
		source        domain.SourceFormat
	)

	switch ext {
	case ".pdf":
		canonicalPath = inputPath
		source = domain.FormatPDF

	case ".docx":
		s.logger.Debug().Str("input", inputPath).Msg("Converting word-processor document")
		out, err := s.converter.ConvertToPDF(ctx, inputPath, rawDir)
		if err != nil {
			return domain.CanonicalDocument{}, domain.ConversionError("Word document conversion failed", err)
		}
		canonicalPath = out
		source = domain.FormatWord

	case ".png", ".jpg", ".jpeg":
		out := filepath.Join(rawDir, "converted.pdf")
		if err := api.ImportImagesFile([]string{inputPath}, out, nil, nil); err != nil {
			return domain.CanonicalDocument{}, domain.ConversionError("Image wrap failed", err)
		}
		canonicalPath = out
		source = domain.FormatImage

	default:
		return domain.CanonicalDocument{}, domain.UnsupportedFormatError("Unsupported file type", nil)
	}

	pageCount, err := api.PageCountFile(canonicalPath)
	if err != nil {
		return domain.CanonicalDocument{}, domain.CorruptDocumentError(fmt.Sprintf("Cannot read canonical document %s", filepath.Base(canonicalPath)), err)
	}
	if pageCount == 0 {
		return domain.CanonicalDocument{}, domain.CorruptDocumentError("Canonical document has no pages", nil)
	}

	s.logger.Debug().
		Str("source", string(source)).
		Int("page_count", pageCount).
		Msg("Document normalized")

	return domain.CanonicalDocument{
		Path:      canonicalPath,
		PageCount: pageCount,
		Source:    source,
	}, nil
}
