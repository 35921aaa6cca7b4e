package extract

import (
	"context"

	"github.com/expenseledger/receipt-extract/internal/ocr"
)

// VisionExtractor is the primary tier: one attempt against a hosted
// vision-language model. Implementations fail with *vision.UpstreamError.
type VisionExtractor interface {
	Extract(ctx context.Context, image []byte) (*ExtractionResult, error)
}

// TextRecognizer is the local OCR boundary used by the fallback tier.
// Implementations fail with *ocr.EngineError.
type TextRecognizer interface {
	Recognize(ctx context.Context, image []byte) (ocr.RecognizedText, error)
}
