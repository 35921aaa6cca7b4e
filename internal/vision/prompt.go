package vision

import (
	"strings"

	"github.com/expenseledger/receipt-extract/constants"
)

// buildInstruction composes the fixed extraction instruction: the exact JSON
// shape to return, with the category enum inlined.
func buildInstruction() string {
	cats := strings.Join(constants.AsStringSlice(), "/")
	return `You are an expert at reading receipts. Analyze this receipt image carefully and extract the following information in JSON format:

{
    "amount": <total bill amount as number (not individual items)>,
    "date": "<date in YYYY-MM-DD format>",
    "category": "<` + cats + `>",
    "merchant": "<store/company name>"
}

IMPORTANT RULES:
- Look for TOTAL, GRAND TOTAL, NET AMOUNT, or similar final amount
- Convert any date to YYYY-MM-DD format
- Choose the most appropriate category based on the merchant type
- Return ONLY valid JSON, no extra text`
}
