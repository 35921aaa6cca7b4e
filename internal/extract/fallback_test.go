package extract

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/expenseledger/receipt-extract/constants"
	"github.com/expenseledger/receipt-extract/internal/ocr"
)

type fakeRecognizer struct {
	text  string
	conf  float32
	err   error
	calls int
}

func (f *fakeRecognizer) Recognize(context.Context, []byte) (ocr.RecognizedText, error) {
	f.calls++
	if f.err != nil {
		return ocr.RecognizedText{}, f.err
	}
	return ocr.RecognizedText{Text: f.text, Confidence: f.conf}, nil
}

var _ = Describe("FallbackPipeline", func() {
	var (
		recognizer *fakeRecognizer
		pipeline   *FallbackPipeline
		result     *ExtractionResult
		err        error
	)

	BeforeEach(func() {
		recognizer = &fakeRecognizer{conf: 72.5}
	})

	JustBeforeEach(func() {
		pipeline = NewFallbackPipeline(recognizer, slog.New(slog.NewTextHandler(io.Discard, nil)))
		pipeline.now = func() time.Time {
			return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
		}
		result, err = pipeline.Run(context.Background(), []byte("img"))
	})

	When("the recognized text carries every field", func() {
		BeforeEach(func() {
			recognizer.text = "CAFE BREW\n12 MG Road\n10/03/2024\nCoffee 120.00\nSandwich 125.50\nTotal: 245.50"
		})

		It("assembles a local-OCR result from the heuristics", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Amount.StringFixed(2)).To(Equal("245.50"))
			Expect(result.Date).To(Equal("2024-03-10"))
			Expect(result.Category).To(Equal(constants.Food))
			Expect(result.Merchant).To(Equal("CAFE BREW"))
			Expect(result.Source).To(Equal(SourceLocalOCR))
		})

		It("carries the engine confidence and the raw text", func() {
			Expect(result.Confidence).NotTo(BeNil())
			Expect(*result.Confidence).To(BeNumerically("~", 72.5, 0.01))
			Expect(result.ExtractedText).To(Equal(recognizer.text))
		})

		It("is deterministic over the same text", func() {
			again, err2 := pipeline.Run(context.Background(), []byte("img"))
			Expect(err2).NotTo(HaveOccurred())
			Expect(again).To(Equal(result))
		})
	})

	When("the recognized text yields nothing usable", func() {
		BeforeEach(func() {
			recognizer.text = "----\n0.50\n===="
		})

		It("still succeeds with explicit defaults", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Amount.IsZero()).To(BeTrue())
			Expect(result.Date).To(Equal("2024-06-01"))
			Expect(result.Category).To(Equal(constants.Other))
			Expect(result.Merchant).To(Equal("Unknown"))
		})
	})

	When("the engine fails", func() {
		BeforeEach(func() {
			recognizer.err = errors.New("tesseract missing")
		})

		It("propagates the failure", func() {
			Expect(err).To(HaveOccurred())
			Expect(result).To(BeNil())
		})
	})
})
