package domain

import "context"

// Normalizer converts a submitted document into the canonical paged form.
type Normalizer interface {
	// Normalize writes the canonical document into rawDir and returns it.
	Normalize(ctx context.Context, doc SubmittedDocument, rawDir string) (CanonicalDocument, error)
}

// Rasterizer renders each page of a canonical document into a raster image.
type Rasterizer interface {
	// Render produces one PageImage per page, in page order, under outDir.
	Render(ctx context.Context, doc CanonicalDocument, outDir string) ([]PageImage, error)
}

// Preprocessor reduces page images to a form that stabilizes recognition.
type Preprocessor interface {
	// Prepare may return fewer pages than it was given; pages that cannot be
	// read are skipped and surviving pages keep their original page numbers.
	Prepare(ctx context.Context, pages []PageImage, outDir string) ([]PreparedPage, error)
}
