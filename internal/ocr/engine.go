package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"
)

// CharWhitelist restricts recognition to digits, Latin letters, receipt
// punctuation and the rupee glyph. Cuts down on line-noise misreads.
const CharWhitelist = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz .,/-:₹"

// PSM 6 is tesseract's "single uniform block of text" segmentation, which
// suits receipt layouts better than full-page analysis.
const defaultPSM = 6

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Language  string // default "eng"
	PSM       int    // default 6
	Whitelist string // default CharWhitelist

	TessdataDir string
}

// RecognizedText is the engine output: concatenated recognized text plus an
// overall confidence percentage in [0, 100].
type RecognizedText struct {
	Text       string
	Confidence float32
}

type Engine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.PSM <= 0 {
		cfg.PSM = defaultPSM
	}
	if cfg.Whitelist == "" {
		cfg.Whitelist = CharWhitelist
	}
	return &Engine{cfg: cfg, runner: execRunner{}, logger: logger}
}

var reBoxNoise = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)

// Recognize turns a JPEG/PNG buffer into recognized text and a confidence
// percentage. The buffer is written to a private temp file per request; no
// state survives the call.
func (e *Engine) Recognize(ctx context.Context, image []byte) (RecognizedText, error) {
	start := time.Now()

	path, cleanup, err := prepareImage(image)
	if err != nil {
		return RecognizedText{}, engineErr("decode image", err)
	}
	defer cleanup()

	args := e.baseArgs(path)
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return RecognizedText{}, engineErr("recognize", fmt.Errorf("%w: %s", err, truncate(string(errb), 512)))
	}
	text := reBoxNoise.ReplaceAllString(string(out), "")

	conf, err := e.tsvConfidence(ctx, path)
	if err != nil {
		// the text run succeeded; fall back to a coarse shape-based score
		e.logger.Warn("ocr.confidence.tsv_failed", "error", err)
		conf = heuristicConfidence(text)
	}

	e.logger.Info("ocr.recognize.ok",
		"text_bytes", len(text),
		"confidence", conf,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return RecognizedText{Text: text, Confidence: conf}, nil
}

func (e *Engine) baseArgs(path string) []string {
	args := []string{
		path, "stdout",
		"-l", e.cfg.Language,
		"--psm", fmt.Sprintf("%d", e.cfg.PSM),
		"-c", "tessedit_char_whitelist=" + e.cfg.Whitelist,
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	return args
}
