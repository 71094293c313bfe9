package receipts

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("FormatAmount", func() {
	It("renders two decimal places with the currency sign", func() {
		Expect(FormatAmount(decimal.RequireFromString("23.4"))).To(Equal("€23.40"))
		Expect(FormatAmount(decimal.Zero)).To(Equal("€0.00"))
	})
})

var _ = Describe("Summary", func() {
	It("renders all present fields", func() {
		receipt := &Receipt{
			MerchantName:    stringPtr("REWE Markt"),
			Total:           decimalPtr("23.45"),
			TransactionDate: datePtr(2026, time.March, 14),
			TransactionTime: clockPtr(14, 37),
			Items:           []ReceiptItem{{}, {}},
		}
		Expect(Summary(receipt)).To(Equal(
			"Merchant: REWE Markt\nTotal: €23.45\nDate: 2026-03-14 14:37\nItems: 2"))
	})

	It("drops absent fields but always shows the item count", func() {
		Expect(Summary(&Receipt{})).To(Equal("Items: 0"))
	})

	It("renders date without time", func() {
		receipt := &Receipt{TransactionDate: datePtr(2026, time.March, 14)}
		Expect(Summary(receipt)).To(Equal("Date: 2026-03-14\nItems: 0"))
	})

	It("renders time without date", func() {
		receipt := &Receipt{TransactionTime: clockPtr(14, 37)}
		Expect(Summary(receipt)).To(Equal("Date: 14:37\nItems: 0"))
	})

	It("skips a blank merchant name", func() {
		receipt := &Receipt{MerchantName: stringPtr("   ")}
		Expect(Summary(receipt)).To(Equal("Items: 0"))
	})
})

var _ = Describe("RankedTotals", func() {
	It("sorts rows by descending amount", func() {
		rows := RankedTotals(map[string]decimal.Decimal{
			"Edeka": decimal.RequireFromString("5.50"),
			"REWE":  decimal.RequireFromString("15.50"),
			"Kiosk": decimal.RequireFromString("2.00"),
		})
		Expect(rows).To(HaveLen(3))
		Expect(rows[0].Name).To(Equal("REWE"))
		Expect(rows[1].Name).To(Equal("Edeka"))
		Expect(rows[2].Name).To(Equal("Kiosk"))
	})

	It("breaks ties by name for stable output", func() {
		rows := RankedTotals(map[string]decimal.Decimal{
			"B": decimal.RequireFromString("1.00"),
			"A": decimal.RequireFromString("1.00"),
		})
		Expect(rows[0].Name).To(Equal("A"))
		Expect(rows[1].Name).To(Equal("B"))
	})

	It("returns an empty slice for an empty map", func() {
		Expect(RankedTotals(nil)).To(BeEmpty())
	})
})
