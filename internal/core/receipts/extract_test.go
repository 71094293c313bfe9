package receipts

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/PocketPalCo/receipt-service/internal/core/docintel"
)

var _ = Describe("field extraction", func() {
	Describe("stringField", func() {
		It("prefers the structured string value", func() {
			fields := map[string]docintel.Field{
				"MerchantName": {
					Type:        docintel.FieldTypeString,
					ValueString: stringPtr("REWE Markt GmbH"),
					Content:     "REWE  Markt\nGmbH",
				},
			}
			Expect(stringField(fields, "MerchantName")).To(HaveValue(Equal("REWE Markt GmbH")))
		})

		It("falls back to the raw content when the structured value is blank", func() {
			fields := map[string]docintel.Field{
				"MerchantName": {
					Type:        docintel.FieldTypeString,
					ValueString: stringPtr("   "),
					Content:     " Edeka ",
				},
			}
			Expect(stringField(fields, "MerchantName")).To(HaveValue(Equal("Edeka")))
		})

		It("returns nil for a missing field", func() {
			Expect(stringField(map[string]docintel.Field{}, "MerchantName")).To(BeNil())
		})

		It("returns nil when both value and content are blank", func() {
			fields := map[string]docintel.Field{
				"MerchantName": {Type: docintel.FieldTypeString, Content: "  "},
			}
			Expect(stringField(fields, "MerchantName")).To(BeNil())
		})
	})

	Describe("dateField", func() {
		It("truncates a structured date to midnight UTC", func() {
			fields := map[string]docintel.Field{
				"TransactionDate": {
					Type:      docintel.FieldTypeDate,
					ValueDate: stringPtr("2026-03-14"),
					Content:   "14.03.2026",
				},
			}
			Expect(dateField(fields, "TransactionDate")).To(HaveValue(Equal(
				time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC))))
		})

		DescribeTable("parses raw content against the accepted layouts",
			func(raw string, expected time.Time) {
				fields := map[string]docintel.Field{
					"TransactionDate": {Content: raw},
				}
				Expect(dateField(fields, "TransactionDate")).To(HaveValue(Equal(expected)))
			},
			Entry("ISO", "2026-03-14", time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)),
			Entry("European dotted", "14.03.2026", time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)),
			Entry("US slashes", "03/14/2026", time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)),
			Entry("day-first slashes when month is impossible", "25/03/2026", time.Date(2026, time.March, 25, 0, 0, 0, 0, time.UTC)),
			Entry("year-first slashes", "2026/03/14", time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)),
		)

		It("resolves ambiguous slash dates US-first", func() {
			fields := map[string]docintel.Field{
				"TransactionDate": {Content: "03/04/2026"},
			}
			Expect(dateField(fields, "TransactionDate")).To(HaveValue(Equal(
				time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC))))
		})

		It("returns nil for unparseable content", func() {
			fields := map[string]docintel.Field{
				"TransactionDate": {Content: "last tuesday"},
			}
			Expect(dateField(fields, "TransactionDate")).To(BeNil())
		})
	})

	Describe("timeField", func() {
		It("takes the first clock match from the raw content", func() {
			fields := map[string]docintel.Field{
				"TransactionTime": {Content: "Kasse 3 14:37:22 Bon 118"},
			}
			Expect(timeField(fields, "TransactionTime")).To(HaveValue(Equal(
				time.Date(0, time.January, 1, 14, 37, 22, 0, time.UTC))))
		})

		It("accepts a time without seconds", func() {
			fields := map[string]docintel.Field{
				"TransactionTime": {Content: "14:37"},
			}
			Expect(timeField(fields, "TransactionTime")).To(HaveValue(Equal(
				time.Date(0, time.January, 1, 14, 37, 0, 0, time.UTC))))
		})

		It("ignores the structured time value", func() {
			fields := map[string]docintel.Field{
				"TransactionTime": {
					Type:      docintel.FieldTypeTime,
					ValueTime: stringPtr("09:00:00"),
					Content:   "18:45",
				},
			}
			Expect(timeField(fields, "TransactionTime")).To(HaveValue(Equal(
				time.Date(0, time.January, 1, 18, 45, 0, 0, time.UTC))))
		})

		It("returns nil when no clock value is present", func() {
			fields := map[string]docintel.Field{
				"TransactionTime": {Content: "no time here"},
			}
			Expect(timeField(fields, "TransactionTime")).To(BeNil())
		})
	})

	Describe("decimalField", func() {
		It("prefers the structured currency amount", func() {
			fields := map[string]docintel.Field{
				"Total": {
					Type:          docintel.FieldTypeCurrency,
					ValueCurrency: &docintel.CurrencyValue{Amount: 23.45, CurrencyCode: "EUR"},
					Content:       "99.99",
				},
			}
			Expect(decimalField(fields, "Total").StringFixed(2)).To(Equal("23.45"))
		})

		It("uses the floating point value when no currency value exists", func() {
			value := 2.5
			fields := map[string]docintel.Field{
				"Quantity": {
					Type:        docintel.FieldTypeNumber,
					ValueNumber: &value,
				},
			}
			Expect(decimalField(fields, "Quantity").String()).To(Equal("2.5"))
		})

		It("uses the integer value", func() {
			value := int64(3)
			fields := map[string]docintel.Field{
				"Quantity": {
					Type:         docintel.FieldTypeInteger,
					ValueInteger: &value,
				},
			}
			Expect(decimalField(fields, "Quantity").String()).To(Equal("3"))
		})

		It("parses the raw content when no structured value exists", func() {
			fields := map[string]docintel.Field{
				"Total": {Content: "23,45 EUR"},
			}
			Expect(decimalField(fields, "Total").StringFixed(2)).To(Equal("23.45"))
		})
	})

	DescribeTable("parseAmount",
		func(raw, expected string) {
			d := parseAmount(raw)
			Expect(d).NotTo(BeNil())
			Expect(d.StringFixed(2)).To(Equal(expected))
		},
		Entry("plain", "23.45", "23.45"),
		Entry("decimal comma", "23,45", "23.45"),
		Entry("decimal comma with thousands", "1234,56", "1234.56"),
		Entry("European thousands dots", "1.234,56", "1234.56"),
		Entry("US thousands commas", "1,234.56", "1234.56"),
		Entry("euro sign", "€23.45", "23.45"),
		Entry("currency code suffix", "1.234,56 EUR", "1234.56"),
		Entry("dollar prefix", "$ 5.00", "5.00"),
		Entry("negative", "-4.50", "-4.50"),
		Entry("non-breaking space", "23,45 €", "23.45"),
	)

	DescribeTable("parseAmount rejects",
		func(raw string) {
			Expect(parseAmount(raw)).To(BeNil())
		},
		Entry("empty", ""),
		Entry("whitespace", "   "),
		Entry("letters only", "gratis"),
		Entry("currency marker only", "EUR"),
	)
})
