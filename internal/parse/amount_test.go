package parse

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractAmount", func() {
	var (
		text   string
		amount string
		found  bool
	)

	JustBeforeEach(func() {
		v, ok := ExtractAmount(Normalize(text))
		found = ok
		if ok {
			amount = v.StringFixed(2)
		}
	})

	When("the text carries a labeled grand total alongside a subtotal", func() {
		BeforeEach(func() {
			text = "Sub Total 450.00 \n Grand Total: Rs. 532.50"
		})

		It("finds an amount", func() {
			Expect(found).To(BeTrue())
		})

		It("prefers the keyword-tagged total over the subtotal", func() {
			Expect(amount).To(Equal("532.50"))
		})
	})

	When("several keyword-tagged candidates survive", func() {
		BeforeEach(func() {
			text = "Total 120.00\nGrand Total 145.00\nAmount Payable 145.00"
		})

		It("picks the maximum among the tagged candidates", func() {
			Expect(found).To(BeTrue())
			Expect(amount).To(Equal("145.00"))
		})
	})

	When("no keyword anchors any candidate", func() {
		BeforeEach(func() {
			text = "Rs. 120.00\nRs. 245.50"
		})

		It("picks the maximum surviving value", func() {
			Expect(found).To(BeTrue())
			Expect(amount).To(Equal("245.50"))
		})
	})

	When("the only digits form a tax identifier", func() {
		BeforeEach(func() {
			text = "GST No 1234567890123"
		})

		It("finds no amount", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("the amount uses thousands separators", func() {
		BeforeEach(func() {
			text = "Net Amount: 1,128.60"
		})

		It("strips the separators before parsing", func() {
			Expect(found).To(BeTrue())
			Expect(amount).To(Equal("1128.60"))
		})
	})

	When("the amount carries the rupee glyph", func() {
		BeforeEach(func() {
			text = "Total ₹ 842.00"
		})

		It("parses the currency-anchored number", func() {
			Expect(found).To(BeTrue())
			Expect(amount).To(Equal("842.00"))
		})
	})

	When("a number is followed by a trailing slash-dash", func() {
		BeforeEach(func() {
			text = "845/- received with thanks"
		})

		It("treats it as an amount", func() {
			Expect(found).To(BeTrue())
			Expect(amount).To(Equal("845.00"))
		})
	})

	When("the text has no numbers at all", func() {
		BeforeEach(func() {
			text = "thank you visit again"
		})

		It("finds no amount", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("a candidate sits above the plausible window", func() {
		BeforeEach(func() {
			text = "Total 4500000.00"
		})

		It("discards it as noise", func() {
			Expect(found).To(BeFalse())
		})
	})
})
