package ocr

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// tsvConfidence runs tesseract in TSV mode and returns the mean word
// confidence as a percentage.
func (e *Engine) tsvConfidence(ctx context.Context, path string) (float32, error) {
	args := append(e.baseArgs(path), "tsv")
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract tsv: %w: %s", err, truncate(string(errb), 512))
	}

	lines := strings.Split(string(out), "\n")
	// columns: level..height, conf, text; first line is the header
	var sum, n float64
	for i, ln := range lines {
		if i == 0 || len(ln) == 0 {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[10]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("no scored words in tsv output")
	}
	return float32(sum / n), nil
}

var (
	reDateShape   = regexp.MustCompile(`\b\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}\b`)
	reCurrShape   = regexp.MustCompile(`\b(rs|inr)\b|₹`)
	reAmountShape = regexp.MustCompile(`\b\d{1,3}(,\d{3})*(\.\d{2})\b|\b\d+\.\d{2}\b`)
)

// heuristicConfidence scores decoded text by how receipt-shaped it looks.
// Used only when the TSV pass yields nothing.
func heuristicConfidence(txt string) float32 {
	lower := strings.ToLower(txt)
	score := float32(20)
	if reDateShape.MatchString(lower) {
		score += 20
	}
	if reCurrShape.MatchString(lower) {
		score += 15
	}
	if reAmountShape.MatchString(lower) {
		score += 15
	}
	if len(txt) > 120 {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}
