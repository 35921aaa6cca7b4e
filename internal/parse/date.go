package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date tokens come in day-first numeric, alphabetic-month, ISO-ordered and
// dot-separated shapes; a label or trailing clock time strengthens the match
// but every family normalizes the same way.
type dateLayout int

const (
	layoutDMY dateLayout = iota // day, month, year captures
	layoutDMonY                 // day, 3-letter month, year
	layoutYMD                   // year, month, day
)

type datePattern struct {
	re     *regexp.Regexp
	layout dateLayout
}

const dateLabels = `(?:date|invoice\s*date|bill\s*date|transaction\s*date)`

// Scan order matters: earlier families win, and within a family earlier text
// positions win.
var datePatterns = []datePattern{
	{regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\b`), layoutDMY},
	{regexp.MustCompile(`(?i)\b(\d{1,2})[-/]([a-z]{3})[-/](\d{2,4})\b`), layoutDMonY},
	{regexp.MustCompile(`(?i)\b(\d{1,2})\s+([a-z]{3})\s+(\d{2,4})\b`), layoutDMonY},
	{regexp.MustCompile(`\b(\d{4})[-/](\d{1,2})[-/](\d{1,2})\b`), layoutYMD},
	{regexp.MustCompile(`(?i)` + dateLabels + `[\s:]*(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`), layoutDMY},
	{regexp.MustCompile(`(?i)` + dateLabels + `[\s:]*(\d{1,2})[-/]([a-z]{3})[-/](\d{2,4})`), layoutDMonY},
	{regexp.MustCompile(`(?i)` + dateLabels + `[\s:]*(\d{4})[-/](\d{1,2})[-/](\d{1,2})`), layoutYMD},
	{regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\s+\d{1,2}:\d{2}`), layoutDMY},
	// dot-separated form is parsed positionally (day.month.year); general date
	// parsing treats it ambiguously
	{regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{2,4})\b`), layoutDMY},
}

var monthAbbrevs = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// ExtractDate scans line-preserving receipt text for a transaction date and
// returns it as YYYY-MM-DD. The first candidate in scan order that parses to
// a real calendar date with year > 2000 wins.
func ExtractDate(text string) (string, bool) {
	for _, p := range datePatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			if iso, ok := normalizeDate(m[1], m[2], m[3], p.layout); ok {
				return iso, true
			}
		}
	}
	return "", false
}

func normalizeDate(a, b, c string, layout dateLayout) (string, bool) {
	var day, month, year int
	switch layout {
	case layoutDMY:
		day, _ = strconv.Atoi(a)
		month, _ = strconv.Atoi(b)
		year = expandYear(c)
	case layoutDMonY:
		day, _ = strconv.Atoi(a)
		month = monthAbbrevs[strings.ToLower(b)]
		if month == 0 {
			return "", false
		}
		year = expandYear(c)
	case layoutYMD:
		year, _ = strconv.Atoi(a)
		month, _ = strconv.Atoi(b)
		day, _ = strconv.Atoi(c)
	}
	if !validCalendarDate(year, month, day) {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

// expandYear assumes two-digit years are 2000+.
func expandYear(s string) int {
	y, _ := strconv.Atoi(s)
	if len(s) == 2 {
		y += 2000
	}
	return y
}

// validCalendarDate accepts only real calendar dates with year > 2000.
func validCalendarDate(year, month, day int) bool {
	if year <= 2000 || month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && t.Month() == time.Month(month) && t.Day() == day
}
