package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/expenseledger/receipt-extract/internal/parse"
)

// Fallback defaults, substituted when an extractor finds nothing. The result
// still succeeds; callers flag default-filled fields as low confidence.
const unknownMerchant = "Unknown"

// FallbackPipeline runs the local OCR engine and the heuristic field
// extractors. Unlike the vision tier it degrades gracefully: missing fields
// get explicit defaults instead of failing the request. An engine failure is
// terminal.
type FallbackPipeline struct {
	recognizer TextRecognizer
	logger     *slog.Logger
	now        func() time.Time
}

func NewFallbackPipeline(recognizer TextRecognizer, logger *slog.Logger) *FallbackPipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackPipeline{recognizer: recognizer, logger: logger, now: time.Now}
}

// Run recognizes text from the image and assembles a LOCAL_OCR result.
func (f *FallbackPipeline) Run(ctx context.Context, image []byte) (*ExtractionResult, error) {
	rec, err := f.recognizer.Recognize(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("local ocr: %w", err)
	}

	amount, amountOK := parse.ExtractAmount(parse.Normalize(rec.Text))
	date, dateOK := parse.ExtractDate(rec.Text)
	category := parse.ExtractCategory(rec.Text)
	merchant, merchantOK := parse.ExtractMerchant(rec.Text)

	if !amountOK {
		amount = decimal.Zero
	}
	if !dateOK {
		date = f.now().Format("2006-01-02")
	}
	if !merchantOK {
		merchant = unknownMerchant
	}

	confidence := rec.Confidence
	res := &ExtractionResult{
		Amount:        amount,
		Date:          date,
		Category:      category,
		Merchant:      merchant,
		ExtractedText: rec.Text,
		Confidence:    &confidence,
		Source:        SourceLocalOCR,
	}

	f.logger.Info("fallback.extract.ok",
		"amount", res.Amount,
		"date", res.Date,
		"category", res.Category,
		"merchant", res.Merchant,
		"confidence", confidence,
		"amount_defaulted", !amountOK,
		"date_defaulted", !dateOK,
		"merchant_defaulted", !merchantOK,
	)
	return res, nil
}
