package receipts

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// The repository round-trips decimals and clock times through text columns;
// these helpers carry that contract.
var _ = Describe("column text round-trips", func() {
	Describe("decimals", func() {
		It("round-trips a value", func() {
			text := decimalToText(decimalPtr("23.45"))
			Expect(text).To(HaveValue(Equal("23.45")))

			back, err := textToDecimal(text)
			Expect(err).NotTo(HaveOccurred())
			Expect(back.StringFixed(2)).To(Equal("23.45"))
		})

		It("passes nil through both ways", func() {
			Expect(decimalToText(nil)).To(BeNil())

			back, err := textToDecimal(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(back).To(BeNil())
		})

		It("rejects malformed column text", func() {
			bad := "not a number"
			_, err := textToDecimal(&bad)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("clock times", func() {
		It("round-trips to the year-zero clock representation", func() {
			text := clockToText(clockPtr(14, 37))
			Expect(text).To(HaveValue(Equal("14:37:00")))

			back, err := textToClock(text)
			Expect(err).NotTo(HaveOccurred())
			Expect(back).To(HaveValue(Equal(time.Date(0, time.January, 1, 14, 37, 0, 0, time.UTC))))
		})

		It("passes nil through both ways", func() {
			Expect(clockToText(nil)).To(BeNil())

			back, err := textToClock(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(back).To(BeNil())
		})
	})
})
