package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/expenseledger/receipt-extract/constants"
	"github.com/expenseledger/receipt-extract/internal/common"
	"github.com/expenseledger/receipt-extract/internal/extract"
	"github.com/expenseledger/receipt-extract/internal/ocr"
	"github.com/expenseledger/receipt-extract/internal/vision"
)

func main() {
	var (
		file    = flag.String("file", "", "receipt image to process (required, jpg/jpeg/png)")
		timeout = flag.Duration("timeout", 60*time.Second, "per-request timeout")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *file == "" {
		logger.Error("usage", "cmd", "extract -file <receipt.jpg>")
		os.Exit(2)
	}
	if !constants.IsAllowedExt(filepath.Ext(*file)) {
		logger.Error("unsupported file extension", "file", *file)
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if cfg.Vision.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set; vision tier will fail and local OCR will be used")
	}

	image, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("read image", "file", *file, "error", err)
		os.Exit(1)
	}

	pipe := buildPipeline(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = common.WithRequestID(ctx, uuid.New().String())

	res, err := pipe.Extract(ctx, image)
	if err != nil {
		logger.Error("could not process receipt", "file", *file, "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
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
