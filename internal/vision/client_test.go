package vision

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/expenseledger/receipt-extract/internal/extract"
)

var _ = Describe("Client.Extract", func() {
	var (
		server   *httptest.Server
		handler  http.HandlerFunc
		client   *Client
		image    []byte
		result   *extract.ExtractionResult
		err      error
		lastBody generateRequest
	)

	BeforeEach(func() {
		image = []byte("not-a-real-jpeg")
	})

	JustBeforeEach(func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastBody = generateRequest{}
			Expect(json.NewDecoder(r.Body).Decode(&lastBody)).To(Succeed())
			handler(w, r)
		}))
		DeferCleanup(server.Close)

		client = NewClient(Config{
			APIKey:  "test-key",
			BaseURL: server.URL,
		}, slog.New(slog.NewTextHandler(io.Discard, nil)))

		result, err = client.Extract(context.Background(), image)
	})

	replyWith := func(text string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			resp := map[string]any{
				"candidates": []map[string]any{{
					"content": map[string]any{
						"parts": []map[string]any{{"text": text}},
					},
				}},
			}
			Expect(json.NewEncoder(w).Encode(resp)).To(Succeed())
		}
	}

	When("the model returns a fenced, complete reply", func() {
		BeforeEach(func() {
			handler = replyWith("```json\n{\"amount\": 245.50, \"date\": \"2024-03-10\", \"category\": \"Food\", \"merchant\": \"Cafe Brew\"}\n```")
		})

		It("succeeds", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns the parsed fields attributed to the vision tier", func() {
			Expect(result.Amount.StringFixed(2)).To(Equal("245.50"))
			Expect(result.Date).To(Equal("2024-03-10"))
			Expect(string(result.Category)).To(Equal("Food"))
			Expect(result.Merchant).To(Equal("Cafe Brew"))
			Expect(result.Source).To(Equal(extract.SourceVisionModel))
			Expect(result.Confidence).To(BeNil())
		})

		It("sends the instruction and the inline image", func() {
			Expect(lastBody.Contents).To(HaveLen(1))
			parts := lastBody.Contents[0].Parts
			Expect(parts).To(HaveLen(2))
			Expect(parts[0].Text).NotTo(BeEmpty())
			Expect(parts[1].InlineData).NotTo(BeNil())
			Expect(parts[1].InlineData.Data).NotTo(BeEmpty())
		})

		It("sends the pinned generation settings", func() {
			Expect(lastBody.GenerationConfig.Temperature).To(BeNumerically("~", 0.1, 1e-6))
			Expect(lastBody.GenerationConfig.TopK).To(Equal(32))
			Expect(lastBody.GenerationConfig.MaxOutputTokens).To(Equal(200))
		})
	})

	When("the upstream answers with a server error", func() {
		BeforeEach(func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "quota exceeded", http.StatusTooManyRequests)
			}
		})

		It("returns a recoverable upstream error", func() {
			var ue *UpstreamError
			Expect(errors.As(err, &ue)).To(BeTrue())
			Expect(result).To(BeNil())
		})
	})

	When("the reply omits a required field", func() {
		BeforeEach(func() {
			handler = replyWith(`{"date": "2024-03-10", "category": "Food"}`)
		})

		It("returns a recoverable upstream error", func() {
			var ue *UpstreamError
			Expect(errors.As(err, &ue)).To(BeTrue())
		})
	})

	When("the reply amount is outside the plausible window", func() {
		BeforeEach(func() {
			handler = replyWith(`{"amount": 4500000, "category": "Food", "merchant": "Cafe Brew"}`)
		})

		It("rejects the reply", func() {
			var ue *UpstreamError
			Expect(errors.As(err, &ue)).To(BeTrue())
		})
	})

	When("the reply date is not a valid calendar date", func() {
		BeforeEach(func() {
			handler = replyWith(`{"amount": 245.50, "date": "2024-02-31", "category": "Food", "merchant": "Cafe Brew"}`)
		})

		It("drops the date but keeps the rest", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Date).To(BeEmpty())
			Expect(result.Amount.StringFixed(2)).To(Equal("245.50"))
		})
	})

	When("the reply category is unrecognized", func() {
		BeforeEach(func() {
			handler = replyWith(`{"amount": 245.50, "category": "Subscriptions", "merchant": "DMart"}`)
		})

		It("falls back to the Other category", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(string(result.Category)).To(Equal("Other"))
		})
	})

	When("the response carries no candidates", func() {
		BeforeEach(func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				Expect(json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})).To(Succeed())
			}
		})

		It("returns a recoverable upstream error", func() {
			var ue *UpstreamError
			Expect(errors.As(err, &ue)).To(BeTrue())
		})
	})
})
