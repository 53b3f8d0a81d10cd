// Package raster renders canonical document pages into page images using
// go-fitz (MuPDF).
package raster

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog"

	"github.com/applyflow/cv-ocr/internal/domain"
)

// PDF user space is 72 DPI; rendering scale is applied on top of that.
const baseDPI = 72.0

// Renderer implements domain.Rasterizer.
type Renderer struct {
	scale  float64
	logger zerolog.Logger
}

// NewRenderer creates a renderer with the given upscale factor.
func NewRenderer(scale float64, logger zerolog.Logger) *Renderer {
	if scale <= 0 {
		scale = 2.0
	}
	return &Renderer{scale: scale, logger: logger}
}

// Render rasterizes every page of doc into a PNG under outDir, in page order.
// Page numbers are 1-based and gap-free.
func (r *Renderer) Render(ctx context.Context, doc domain.CanonicalDocument, outDir string) ([]domain.PageImage, error) {
	fdoc, err := fitz.New(doc.Path)
	if err != nil {
		return nil, domain.CorruptDocumentError("Failed to open canonical document", err)
	}
	defer fdoc.Close()

	pageCount := fdoc.NumPage()
	if pageCount == 0 {
		return nil, domain.CorruptDocumentError("Canonical document has no pages", nil)
	}

	dpi := baseDPI * r.scale
	pages := make([]domain.PageImage, 0, pageCount)

	for i := 0; i < pageCount; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := fdoc.ImageDPI(i, dpi)
		if err != nil {
			return nil, domain.CorruptDocumentError(fmt.Sprintf("Failed to render page %d", i+1), err)
		}

		outPath := filepath.Join(outDir, fmt.Sprintf("page_%04d.png", i+1))
		f, err := os.Create(outPath)
		if err != nil {
			return nil, domain.IOError(fmt.Sprintf("Failed to create output file for page %d", i+1), err)
		}
		err = png.Encode(f, img)
		f.Close()
		if err != nil {
			return nil, domain.IOError(fmt.Sprintf("Failed to encode page %d as PNG", i+1), err)
		}

		bounds := img.Bounds()
		pages = append(pages, domain.PageImage{
			PageNumber: i + 1,
			Path:       outPath,
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
		})
	}

	r.logger.Debug().Int("pages", len(pages)).Float64("dpi", dpi).Msg("Rendered canonical document")
	return pages, nil
}
