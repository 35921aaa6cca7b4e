package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expenseledger/receipt-extract/constants"
	"github.com/expenseledger/receipt-extract/internal/common"
	"github.com/expenseledger/receipt-extract/internal/extract"
)

// Config for the vision-model client. All knobs are explicit so multiple
// clients (e.g. per-tenant API keys) can coexist in one process.
type Config struct {
	APIKey          string
	BaseURL         string // default https://generativelanguage.googleapis.com/v1beta
	Model           string // default gemini-1.5-flash
	Temperature     float32
	TopK            int
	TopP            float32
	MaxOutputTokens int
	Timeout         time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 32
	}
	if cfg.TopP <= 0 {
		cfg.TopP = 1
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 200
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Wire types for the generateContent endpoint.
type generateRequest struct {
	Contents         []requestContent `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature     float32 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float32 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Extract sends the image plus the extraction instruction to the hosted
// vision model and parses its JSON reply. One attempt; every failure returns
// *UpstreamError so the orchestrator can fall back. The image buffer is only
// read, never retained.
func (c *Client) Extract(ctx context.Context, image []byte) (*extract.ExtractionResult, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()

	c.logger.Info("vision.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"image_bytes", len(image),
	)

	body := generateRequest{
		Contents: []requestContent{{
			Parts: []requestPart{
				{Text: buildInstruction()},
				{InlineData: &inlineData{
					MimeType: constants.DetectImageMIME(image),
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
		GenerationConfig: generationConfig{
			Temperature:     c.cfg.Temperature,
			TopK:            c.cfg.TopK,
			TopP:            c.cfg.TopP,
			MaxOutputTokens: c.cfg.MaxOutputTokens,
		},
	}

	raw, err := c.post(ctx, c.endpoint(), body)
	if err != nil {
		c.logger.Error("vision.extract.http_error",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, upstreamErr("request", err)
	}

	var resp generateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, upstreamErr("decode response", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, upstreamErr("decode response", fmt.Errorf("no candidates in reply"))
	}

	var replyText strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		replyText.WriteString(p.Text)
	}
	reply := replyText.String()

	fields, err := parseReply(reply)
	if err != nil {
		c.logger.Error("vision.extract.reply_invalid",
			"req_id", rid, "error", err, "reply_bytes", len(reply))
		return nil, upstreamErr("parse reply", err)
	}

	res, err := c.toResult(fields, reply)
	if err != nil {
		return nil, err
	}

	c.logger.Info("vision.extract.ok",
		"req_id", rid,
		"merchant", res.Merchant,
		"amount", res.Amount,
		"date", res.Date,
		"category", res.Category,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model, url.QueryEscape(c.cfg.APIKey))
}

// toResult applies the strict validation the primary tier demands: the amount
// must sit in the plausible-total window and the category must canonicalize.
// A bad date is dropped rather than failing the tier.
func (c *Client) toResult(fields receiptFields, reply string) (*extract.ExtractionResult, error) {
	if fields.Amount.LessThan(decimal.NewFromInt(1)) || fields.Amount.GreaterThan(decimal.NewFromInt(1_000_000)) {
		return nil, upstreamErr("validate reply", fmt.Errorf("amount %s outside plausible range", fields.Amount))
	}

	category, recognized := constants.Canonicalize(fields.Category)
	if !recognized {
		c.logger.Warn("vision.extract.unknown_category", "label", fields.Category)
	}

	date := strings.TrimSpace(fields.Date)
	if date != "" && !validISODate(date) {
		c.logger.Warn("vision.extract.invalid_date", "date", date)
		date = ""
	}

	return &extract.ExtractionResult{
		Amount:        fields.Amount,
		Date:          date,
		Category:      category,
		Merchant:      fields.Merchant,
		ExtractedText: reply,
		Confidence:    nil,
		Source:        extract.SourceVisionModel,
	}, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.logger.Warn("vision response body close error", "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vision status %d: %s", resp.StatusCode, truncateBody(raw, 512))
	}
	return raw, nil
}

func truncateBody(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "...(truncated)"
}
