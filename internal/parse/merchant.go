package parse

import (
	"regexp"
	"strings"
)

var (
	reSymbolicLine = regexp.MustCompile(`^[\d\s\-_=.,:;]+$`)
	// matches lines made up entirely of header words, e.g. "TAX INVOICE"
	reHeaderWord = regexp.MustCompile(`(?i)^(?:(?:receipt|bill|invoice|tax|gst|cgst|sgst|igst)\s*)+$`)
	reAllCapsName  = regexp.MustCompile(`^[A-Z\s&]+$`)
	reTitlePair    = regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z][a-z]+`)
	reMerchantJunk = regexp.MustCompile(`[^a-zA-Z0-9\s&]`)
)

// merchantHints mark a line as a company or venue name regardless of shape.
var merchantHints = []string{
	"company", "ltd", "pvt", "inc", "corp",
	"restaurant", "cafe", "hotel", "store",
}

// ExtractMerchant picks the merchant name from the top of the receipt.
// It examines at most the first 8 non-empty lines, skipping purely symbolic
// lines and known header words, and selects the first line that carries a
// company/venue keyword or a name-like shape (all caps, or two capitalized
// words). When no shape matches, the first plausible line among the top 3 is
// used; that fallback can pick an address line, which is a known precision
// limit of this heuristic.
func ExtractMerchant(text string) (string, bool) {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}

	limit := len(lines)
	if limit > 8 {
		limit = 8
	}
	for i := 0; i < limit; i++ {
		line := lines[i]
		if reSymbolicLine.MatchString(line) || len(line) < 3 {
			continue
		}
		if reHeaderWord.MatchString(line) {
			continue
		}
		if len(line) > 50 {
			continue
		}
		if hasMerchantHint(line) || reAllCapsName.MatchString(line) || reTitlePair.MatchString(line) {
			return cleanMerchant(line), true
		}
	}

	top := len(lines)
	if top > 3 {
		top = 3
	}
	for _, line := range lines[:top] {
		if len(line) >= 4 && len(line) <= 40 &&
			!reSymbolicLine.MatchString(line) &&
			!reHeaderWord.MatchString(line) {
			return cleanMerchant(line), true
		}
	}
	return "", false
}

func hasMerchantHint(line string) bool {
	lower := strings.ToLower(line)
	for _, h := range merchantHints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}

func cleanMerchant(line string) string {
	return strings.TrimSpace(reMerchantJunk.ReplaceAllString(line, ""))
}
