package vision

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// receiptFields is the JSON shape the model is instructed to return.
type receiptFields struct {
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Merchant string          `json:"merchant"`
}

// parseReply strips a possible markdown code fence from the model reply,
// validates the JSON against the reply schema and decodes it.
func parseReply(text string) (receiptFields, error) {
	doc := []byte(stripCodeFence(text))

	if err := validateAgainstSchema(buildReplySchema(), doc); err != nil {
		return receiptFields{}, err
	}

	var fields receiptFields
	if err := json.Unmarshal(doc, &fields); err != nil {
		return receiptFields{}, fmt.Errorf("unmarshal fields: %w", err)
	}
	fields.Merchant = strings.TrimSpace(fields.Merchant)
	return fields, nil
}

// stripCodeFence removes a ```json ... ``` wrapper if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// validISODate accepts only YYYY-MM-DD calendar dates with year > 2000.
func validISODate(s string) bool {
	t, err := time.Parse("2006-01-02", s)
	return err == nil && t.Year() > 2000
}
