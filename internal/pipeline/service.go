// Package pipeline orchestrates the document extraction workflow: normalize,
// rasterize, preprocess, recognize, aggregate, deliver.
package pipeline

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/applyflow/cv-ocr/internal/delivery"
	"github.com/applyflow/cv-ocr/internal/domain"
	"github.com/applyflow/cv-ocr/internal/ocr"
	"github.com/applyflow/cv-ocr/internal/workspace"
)

// Config holds pipeline tuning knobs.
type Config struct {
	// OCRConcurrency bounds parallel per-page recognition. Page order in the
	// result is by page index regardless of completion order.
	OCRConcurrency int
	// OCRLanguages is passed to the engine as language hints.
	OCRLanguages []string
	// RasterDPI is forwarded to the engine so it can scale its heuristics.
	RasterDPI int
	// DeliveryTimeout bounds the asynchronous webhook dispatch.
	DeliveryTimeout time.Duration
}

// Service runs the extraction pipeline. The recognition engine is a shared,
// process-wide handle injected at construction; everything else is scoped to
// one invocation.
type Service struct {
	workspaces   *workspace.Manager
	normalizer   domain.Normalizer
	rasterizer   domain.Rasterizer
	preprocessor domain.Preprocessor
	engine       ocr.Engine
	sink         delivery.Sink
	config       Config
	logger       zerolog.Logger
}

// NewService wires the pipeline stages together.
func NewService(
	workspaces *workspace.Manager,
	normalizer domain.Normalizer,
	rasterizer domain.Rasterizer,
	preprocessor domain.Preprocessor,
	engine ocr.Engine,
	sink delivery.Sink,
	cfg Config,
	logger zerolog.Logger,
) *Service {
	if cfg.OCRConcurrency < 1 {
		cfg.OCRConcurrency = 1
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 10 * time.Second
	}
	return &Service{
		workspaces:   workspaces,
		normalizer:   normalizer,
		rasterizer:   rasterizer,
		preprocessor: preprocessor,
		engine:       engine,
		sink:         sink,
		config:       cfg,
		logger:       logger,
	}
}

// Process runs the full workflow for one submitted document. Fatal errors
// (unsupported format, conversion failure, corrupt document) abort the
// pipeline; per-page decode or recognition failures degrade to empty text for
// the affected page only.
func (s *Service) Process(ctx context.Context, doc domain.SubmittedDocument, sub domain.Submission) (*domain.ExtractionResult, error) {
	ws, err := s.workspaces.Acquire()
	if err != nil {
		return nil, err
	}
	defer ws.Release()

	logger := s.logger.With().Str("invocation_id", ws.ID).Logger()
	logger.Info().Str("filename", doc.Filename).Int("bytes", len(doc.Data)).Msg("Starting extraction")

	canonical, err := s.normalizer.Normalize(ctx, doc, ws.RawDir)
	if err != nil {
		return nil, err
	}

	rendered, err := s.rasterizer.Render(ctx, canonical, ws.RenderedDir)
	if err != nil {
		return nil, err
	}

	prepared, err := s.preprocessor.Prepare(ctx, rendered, ws.PreparedDir)
	if err != nil {
		return nil, err
	}

	recognized, err := s.recognize(ctx, logger, prepared)
	if err != nil {
		return nil, err
	}

	pages := FillPageSlots(canonical.PageCount, recognized)
	combined := CombineText(sub, pages)

	result := &domain.ExtractionResult{
		Submission:   sub,
		Pages:        pages,
		CombinedText: combined,
	}

	s.dispatchDelivery(logger, combined)

	logger.Info().
		Int("pages", canonical.PageCount).
		Int("recognized", len(recognized)).
		Msg("Extraction complete")

	return result, nil
}

// recognize runs the engine over every prepared page with bounded
// parallelism. An engine failure on a page yields empty text for that page;
// only context cancellation aborts the batch.
func (s *Service) recognize(ctx context.Context, logger zerolog.Logger, pages []domain.PreparedPage) ([]domain.PageText, error) {
	results := make([]domain.PageText, len(pages))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.config.OCRConcurrency)

	for i, page := range pages {
		eg.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			text, err := s.recognizePage(gctx, page)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn().Err(err).Int("page", page.PageNumber).Msg("Recognition failed, page degraded to empty text")
				text = ""
			}
			results[i] = domain.PageText{PageNumber: page.PageNumber, Text: text}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(a, b int) bool { return results[a].PageNumber < results[b].PageNumber })
	return results, nil
}

func (s *Service) recognizePage(ctx context.Context, page domain.PreparedPage) (string, error) {
	data, err := os.ReadFile(page.Path)
	if err != nil {
		return "", err
	}

	res, err := s.engine.Recognize(ctx, ocr.Input{
		ID:         page.Path,
		Image:      data,
		PageNumber: page.PageNumber,
		DPI:        s.config.RasterDPI,
		Languages:  s.config.OCRLanguages,
	})
	if err != nil {
		return "", err
	}

	return res.PlainText(), nil
}

// dispatchDelivery hands the combined payload to the sink without blocking
// the caller. It runs on a background context so a caller disconnect does not
// cancel it; failures are logged and suppressed.
func (s *Service) dispatchDelivery(logger zerolog.Logger, combined string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.DeliveryTimeout)
		defer cancel()

		if err := s.sink.Deliver(ctx, delivery.Payload{ExtractedText: combined}); err != nil {
			logger.Warn().Err(err).Msg("Delivery to consumer failed, suppressed")
			return
		}
		logger.Debug().Msg("Delivered payload to consumer")
	}()
}
