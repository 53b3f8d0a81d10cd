// Package preprocess normalizes rendered page images for recognition.
package preprocess

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/applyflow/cv-ocr/internal/domain"
)

// Grayscaler implements domain.Preprocessor by reducing each page image to
// 8-bit single-channel grayscale.
type Grayscaler struct {
	logger zerolog.Logger
}

// NewGrayscaler creates a grayscale preprocessor.
func NewGrayscaler(logger zerolog.Logger) *Grayscaler {
	return &Grayscaler{logger: logger}
}

// Prepare converts every readable page image and writes the result under
// outDir. Pages that cannot be read or decoded are skipped rather than
// aborting the batch; survivors keep their original page numbers.
func (g *Grayscaler) Prepare(ctx context.Context, pages []domain.PageImage, outDir string) ([]domain.PreparedPage, error) {
	prepared := make([]domain.PreparedPage, 0, len(pages))

	for _, page := range pages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		outPath := filepath.Join(outDir, fmt.Sprintf("page_%04d_gray.png", page.PageNumber))
		if err := g.grayscaleFile(page.Path, outPath); err != nil {
			g.logger.Warn().
				Err(err).
				Int("page", page.PageNumber).
				Msg("Skipping unreadable page image")
			continue
		}

		prepared = append(prepared, domain.PreparedPage{
			PageNumber: page.PageNumber,
			Path:       outPath,
		})
	}

	g.logger.Debug().
		Int("in", len(pages)).
		Int("out", len(prepared)).
		Msg("Preprocessed page images")

	return prepared, nil
}

func (g *Grayscaler) grayscaleFile(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open page image: %w", err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode page image: %w", err)
	}

	gray := image.NewGray(img.Bounds())
	draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create grayscale image: %w", err)
	}
	err = png.Encode(out, gray)
	out.Close()
	if err != nil {
		return fmt.Errorf("encode grayscale image: %w", err)
	}
	return nil
}
