package parse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountCandidate is a numeric token found by one of the pattern families,
// kept with its matched span so the tie-break can inspect surrounding words.
type amountCandidate struct {
	value decimal.Decimal
	span  string
}

// amountPattern pairs a pattern with a short name so the ladder reads as data.
type amountPattern struct {
	name string
	re   *regexp.Regexp
}

const totalKeywords = `total|grand\s*total|net\s*amount|amount\s*due|bill\s*amount|final\s*amount|payable`

// Ordered pattern families. Every family yields zero or more candidates; the
// selection policy below decides among them.
var amountPatterns = []amountPattern{
	{"keyword-rupee", regexp.MustCompile(`(?i)(?:` + totalKeywords + `)[\s:]*₹?\s*([\d,]+\.?\d*)`)},
	{"keyword-rs", regexp.MustCompile(`(?i)(?:` + totalKeywords + `)[\s:]*rs\.?\s*([\d,]+\.?\d*)`)},
	{"rupee-symbol", regexp.MustCompile(`₹\s*([\d,]+\.?\d*)`)},
	{"rs-prefix", regexp.MustCompile(`(?i)\brs\.?\s*([\d,]+\.?\d*)`)},
	{"inr-prefix", regexp.MustCompile(`(?i)\binr\s*([\d,]+\.?\d*)`)},
	{"two-decimals", regexp.MustCompile(`\b(\d{2,6}\.\d{2})\b`)},
	{"bare-digits", regexp.MustCompile(`\b(\d{3,6})\b`)},
	{"amount-words", regexp.MustCompile(`(?i)([\d,]+\.?\d*)\s*(?:only|rupees|/-)`)},
	{"line-end", regexp.MustCompile(`(?m)([\d,]+\.?\d*)\s*$`)},
}

// reTotalTag tags candidates whose span carries a total-like keyword.
var reTotalTag = regexp.MustCompile(`(?i)total|grand|final|payable`)

var (
	minAmount = decimal.NewFromInt(1)
	maxAmount = decimal.NewFromInt(1_000_000)
)

// ExtractAmount scans normalized receipt text for the bill total.
// Receipts list many numbers (line items, tax lines, totals); candidates with
// a total-like keyword in their span are the strongest signal, and among them
// the maximum value is preferred over a subtotal or line item. Without any
// tagged candidate the maximum surviving value wins. The [1, 1000000] window
// guards against phone numbers, tax ids and dates-as-numbers.
func ExtractAmount(text string) (decimal.Decimal, bool) {
	var candidates []amountCandidate
	for _, p := range amountPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			v, ok := parseAmountToken(m[1])
			if !ok {
				continue
			}
			candidates = append(candidates, amountCandidate{value: v, span: m[0]})
		}
	}
	if len(candidates) == 0 {
		return decimal.Zero, false
	}

	var tagged []amountCandidate
	for _, c := range candidates {
		if reTotalTag.MatchString(c.span) {
			tagged = append(tagged, c)
		}
	}
	pool := candidates
	if len(tagged) > 0 {
		pool = tagged
	}

	best := pool[0].value
	for _, c := range pool[1:] {
		if c.value.GreaterThan(best) {
			best = c.value
		}
	}
	return best, true
}

// parseAmountToken strips thousands separators and applies the value window.
func parseAmountToken(token string) (decimal.Decimal, bool) {
	clean := strings.ReplaceAll(token, ",", "")
	clean = strings.TrimSuffix(strings.TrimSpace(clean), ".")
	if clean == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}
	if v.LessThan(minAmount) || v.GreaterThan(maxAmount) {
		return decimal.Zero, false
	}
	return v, true
}
