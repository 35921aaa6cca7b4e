package parse

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractDate", func() {
	var (
		text  string
		date  string
		found bool
	)

	JustBeforeEach(func() {
		date, found = ExtractDate(text)
	})

	When("the date is numeric day-first", func() {
		BeforeEach(func() {
			text = "Bill No 1234\n12/05/2024\nThank you"
		})

		It("normalizes to ISO", func() {
			Expect(found).To(BeTrue())
			Expect(date).To(Equal("2024-05-12"))
		})
	})

	When("the date uses an alphabetic month", func() {
		BeforeEach(func() {
			text = "Invoice 12-May-2024"
		})

		It("normalizes to the same ISO date", func() {
			Expect(found).To(BeTrue())
			Expect(date).To(Equal("2024-05-12"))
		})
	})

	When("the date is dot-separated", func() {
		BeforeEach(func() {
			text = "Dated 12.05.2024"
		})

		It("parses positionally as day.month.year", func() {
			Expect(found).To(BeTrue())
			Expect(date).To(Equal("2024-05-12"))
		})
	})

	When("the date is ISO-ordered already", func() {
		BeforeEach(func() {
			text = "txn 2024-05-12 09:41"
		})

		It("keeps it", func() {
			Expect(found).To(BeTrue())
			Expect(date).To(Equal("2024-05-12"))
		})
	})

	When("a label precedes the date", func() {
		BeforeEach(func() {
			text = "Invoice Date: 3/1/24"
		})

		It("expands the two-digit year to 2000+", func() {
			Expect(found).To(BeTrue())
			Expect(date).To(Equal("2024-01-03"))
		})
	})

	When("a clock time follows the date", func() {
		BeforeEach(func() {
			text = "10/03/2024 18:45"
		})

		It("still extracts the date part", func() {
			Expect(found).To(BeTrue())
			Expect(date).To(Equal("2024-03-10"))
		})
	})

	When("the year is not after 2000", func() {
		BeforeEach(func() {
			text = "archive copy 12/05/1999"
		})

		It("rejects the candidate", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("the token is not a real calendar date", func() {
		BeforeEach(func() {
			text = "ref 31/02/2024"
		})

		It("rejects the candidate", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("several dates appear", func() {
		BeforeEach(func() {
			text = "12/05/2024\n13/05/2024"
		})

		It("returns the first in scan order", func() {
			Expect(date).To(Equal("2024-05-12"))
		})
	})

	When("nothing date-shaped is present", func() {
		BeforeEach(func() {
			text = "no dates here"
		})

		It("finds nothing", func() {
			Expect(found).To(BeFalse())
		})
	})
})
