package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/expenseledger/receipt-extract/internal/common"
	"github.com/expenseledger/receipt-extract/internal/export"
	"github.com/expenseledger/receipt-extract/internal/extract"
	"github.com/expenseledger/receipt-extract/internal/ingest"
	"github.com/expenseledger/receipt-extract/internal/ocr"
	"github.com/expenseledger/receipt-extract/internal/vision"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory to process receipts from (required)")
		out     = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		timeout = flag.Duration("timeout", 60*time.Second, "per-file timeout")
		watch   = flag.Bool("watch", false, "keep running and process receipts as they appear under --dir")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "receipts.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: invalid configuration: %v\n", err)
		os.Exit(2)
	}
	if cfg.Vision.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set; vision tier will fail and local OCR will be used")
	}

	pipe := buildPipeline(cfg, logger)

	if *watch {
		runWatch(pipe, *dir, *out, *timeout, logger)
		return
	}

	files, _, err := ingest.Scan(*dir, logger)
	if err != nil {
		printError("Error: scan %s: %v\n", *dir, err)
		os.Exit(1)
	}
	if len(files) == 0 {
		printError("Error: no receipt images found under %s\n", *dir)
		os.Exit(1)
	}

	rows := make([]export.Row, 0, len(files))
	for _, path := range files {
		rows = append(rows, processFile(pipe, path, *timeout, logger))
	}

	if err := writeWorkbook(rows, *out, logger); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("batch.done", "files", len(files), "out", *out)
}

// runWatch processes receipts as they land in the directory, rewriting the
// workbook after each one so the export stays current between events.
func runWatch(pipe *extract.Pipeline, dir, out string, timeout time.Duration, logger *slog.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, errs, err := ingest.Watch(ctx, ingest.WatchConfig{
		Root:        dir,
		InitialScan: true,
		Debounce:    500 * time.Millisecond,
	}, logger)
	if err != nil {
		printError("Error: watch %s: %v\n", dir, err)
		os.Exit(1)
	}
	logger.Info("batch.watch.started", "dir", dir, "out", out)

	var rows []export.Row
	seen := map[string]int{}
	for {
		select {
		case <-ctx.Done():
			logger.Info("batch.watch.stopped", "files", len(rows))
			return
		case werr, ok := <-errs:
			if ok {
				logger.Error("batch.watch.error", "error", werr)
			}
		case path, ok := <-events:
			if !ok {
				return
			}
			row := processFile(pipe, path, timeout, logger)
			if i, dup := seen[path]; dup {
				rows[i] = row
			} else {
				seen[path] = len(rows)
				rows = append(rows, row)
			}
			if werr := writeWorkbook(rows, out, logger); werr != nil {
				logger.Error("batch.watch.export_failed", "error", werr)
			}
		}
	}
}

func writeWorkbook(rows []export.Row, out string, logger *slog.Logger) error {
	book, err := export.WriteResultsXLSX(rows, logger)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	if err := os.WriteFile(out, book, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}

func processFile(pipe *extract.Pipeline, path string, timeout time.Duration, logger *slog.Logger) export.Row {
	image, err := os.ReadFile(path)
	if err != nil {
		logger.Error("batch.read_failed", "file", path, "error", err)
		return export.Row{File: path, Err: err}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ctx = common.WithRequestID(ctx, uuid.New().String())

	res, err := pipe.Extract(ctx, image)
	if err != nil {
		logger.Error("batch.extract_failed", "file", path, "error", err)
		return export.Row{File: path, Err: err}
	}
	return export.Row{File: path, Result: res}
}

func buildPipeline(cfg *common.Config, logger *slog.Logger) *extract.Pipeline {
	visionClient := vision.NewClient(vision.Config{
		APIKey:          cfg.Vision.APIKey,
		BaseURL:         cfg.Vision.BaseURL,
		Model:           cfg.Vision.Model,
		Temperature:     cfg.Vision.Temperature,
		TopK:            cfg.Vision.TopK,
		TopP:            cfg.Vision.TopP,
		MaxOutputTokens: cfg.Vision.MaxOutputTokens,
		Timeout:         cfg.Vision.Timeout,
	}, logger)

	engine := ocr.NewEngine(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Language:    cfg.OCR.Language,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)

	fallback := extract.NewFallbackPipeline(engine, logger)
	return extract.NewPipeline(visionClient, fallback, logger)
}
