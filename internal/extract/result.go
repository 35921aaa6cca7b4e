package extract

import (
	"github.com/shopspring/decimal"

	"github.com/expenseledger/receipt-extract/constants"
)

// Source identifies which tier produced a result.
type Source string

const (
	SourceVisionModel Source = "VISION_MODEL"
	SourceLocalOCR    Source = "LOCAL_OCR"
)

// ExtractionResult is the sole output of the pipeline. The caller owns
// persistence and merges it into its own expense schema.
//
// Amount, when set, lies in [1, 1000000]; the fallback tier substitutes 0 when
// nothing plausible was found. Date is YYYY-MM-DD or empty. Confidence is the
// OCR engine's percentage and is nil on the vision path.
type ExtractionResult struct {
	Amount        decimal.Decimal    `json:"amount"`
	Date          string             `json:"date,omitempty"`
	Category      constants.Category `json:"category"`
	Merchant      string             `json:"merchant"`
	ExtractedText string             `json:"extracted_text"`
	Confidence    *float32           `json:"confidence_score,omitempty"`
	Source        Source             `json:"source"`
}
