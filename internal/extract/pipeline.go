package extract

import (
	"context"
	"log/slog"
)

// Pipeline coordinates the two extraction tiers: the hosted vision model
// first, the local OCR fallback on any primary failure. One attempt each, no
// retries, no speculative parallel execution. The pipeline holds no state
// across calls, so requests may run concurrently without coordination.
type Pipeline struct {
	vision   VisionExtractor
	fallback *FallbackPipeline
	logger   *slog.Logger
}

func NewPipeline(vision VisionExtractor, fallback *FallbackPipeline, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{vision: vision, fallback: fallback, logger: logger}
}

// Extract runs one extraction request over the raw image buffer. The buffer
// is never mutated or retained. A vision failure is recovered by the
// fallback; a fallback failure is terminal and the caller should treat it as
// "could not process receipt".
func (p *Pipeline) Extract(ctx context.Context, image []byte) (*ExtractionResult, error) {
	res, err := p.vision.Extract(ctx, image)
	if err == nil {
		p.logger.Info("pipeline.vision.ok", "merchant", res.Merchant, "amount", res.Amount)
		return res, nil
	}
	p.logger.Warn("pipeline.vision.failed", "error", err, "image_bytes", len(image))

	res, err = p.fallback.Run(ctx, image)
	if err != nil {
		p.logger.Error("pipeline.fallback.failed", "error", err)
		return nil, err
	}
	return res, nil
}
