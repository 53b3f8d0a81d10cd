// Package ocr defines the recognition engine contract used by the pipeline.
package ocr

import (
	"context"
	"strings"
)

// Input encapsulates a single page image submitted for recognition.
type Input struct {
	// ID is an optional caller-provided identifier echoed back in the Result.
	ID string
	// Image is the encoded image payload.
	Image []byte
	// PageNumber links the input back to the 1-based page it originated from.
	PageNumber int
	// DPI carries the effective dots-per-inch of the image; zero means unknown.
	DPI int
	// Languages is a list of language hints (e.g. "eng", "deu") that engines
	// can use to select trained data.
	Languages []string
}

// Result captures recognition output for a single input image. No recognized
// text is a valid result, not a failure.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// Lines contains the recognized text lines in reading order.
	Lines []string
}

// PlainText joins the recognized lines with newline separators.
func (r Result) PlainText() string {
	return strings.Join(r.Lines, "\n")
}

// Engine is the recognition provider contract: one image in, one result out.
// Engines are expensive to initialize, constructed once per process, and must
// be safe for concurrent Recognize calls.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}
