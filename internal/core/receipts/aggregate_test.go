package receipts

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("aggregation", func() {
	var receipts []Receipt

	BeforeEach(func() {
		receipts = []Receipt{
			{
				MerchantName:    stringPtr("REWE"),
				Total:           decimalPtr("10.00"),
				TransactionDate: datePtr(2026, time.March, 1),
				Items: []ReceiptItem{
					{Category: stringPtr("Groceries"), TotalPrice: decimalPtr("7.00")},
					{Category: stringPtr("Household"), TotalPrice: decimalPtr("3.00")},
				},
			},
			{
				MerchantName:    stringPtr("REWE"),
				Total:           decimalPtr("5.50"),
				TransactionDate: datePtr(2026, time.March, 15),
				Items: []ReceiptItem{
					{Category: stringPtr("Groceries"), TotalPrice: decimalPtr("5.50")},
				},
			},
			{
				MerchantName:    stringPtr("Edeka"),
				Total:           decimalPtr("20.00"),
				TransactionDate: datePtr(2026, time.April, 2),
			},
			{
				// No transaction date.
				MerchantName: stringPtr("Kiosk"),
				Total:        decimalPtr("2.00"),
			},
			{
				// No total.
				MerchantName:    stringPtr("Späti"),
				TransactionDate: datePtr(2026, time.March, 3),
			},
		}
	})

	Describe("TotalExpenses", func() {
		It("sums everything when both bounds are open", func() {
			Expect(TotalExpenses(receipts, nil, nil).StringFixed(2)).To(Equal("37.50"))
		})

		It("includes both boundary days", func() {
			from := datePtr(2026, time.March, 1)
			to := datePtr(2026, time.March, 15)
			Expect(TotalExpenses(receipts, from, to).StringFixed(2)).To(Equal("15.50"))
		})

		It("excludes undated receipts from any bounded query", func() {
			from := datePtr(2020, time.January, 1)
			Expect(TotalExpenses(receipts, from, nil).StringFixed(2)).To(Equal("35.50"))
		})

		It("honors an open lower bound", func() {
			to := datePtr(2026, time.March, 31)
			// The undated receipt fails the bounded query too.
			Expect(TotalExpenses(receipts, nil, to).StringFixed(2)).To(Equal("15.50"))
		})

		It("compares bounds at day granularity", func() {
			from := time.Date(2026, time.March, 15, 23, 59, 0, 0, time.UTC)
			to := time.Date(2026, time.March, 15, 0, 0, 1, 0, time.UTC)
			Expect(TotalExpenses(receipts, &from, &to).StringFixed(2)).To(Equal("5.50"))
		})

		It("returns zero for an empty range", func() {
			from := datePtr(2027, time.January, 1)
			Expect(TotalExpenses(receipts, from, nil).IsZero()).To(BeTrue())
		})
	})

	Describe("ExpensesByMerchant", func() {
		It("sums per merchant with exact name matching", func() {
			byMerchant := ExpensesByMerchant(receipts, nil, nil)
			Expect(byMerchant).To(HaveLen(3))
			Expect(byMerchant["REWE"].StringFixed(2)).To(Equal("15.50"))
			Expect(byMerchant["Edeka"].StringFixed(2)).To(Equal("20.00"))
			Expect(byMerchant["Kiosk"].StringFixed(2)).To(Equal("2.00"))
		})

		It("excludes receipts without a merchant name", func() {
			receipts = append(receipts, Receipt{Total: decimalPtr("99.00")})
			byMerchant := ExpensesByMerchant(receipts, nil, nil)
			Expect(byMerchant).To(HaveLen(3))
		})

		It("applies the date range", func() {
			from := datePtr(2026, time.April, 1)
			byMerchant := ExpensesByMerchant(receipts, from, nil)
			Expect(byMerchant).To(HaveLen(1))
			Expect(byMerchant).To(HaveKey("Edeka"))
		})
	})

	Describe("ExpensesByCategory", func() {
		It("sums item totals per category", func() {
			byCategory := ExpensesByCategory(receipts, nil, nil)
			Expect(byCategory).To(HaveLen(2))
			Expect(byCategory["Groceries"].StringFixed(2)).To(Equal("12.50"))
			Expect(byCategory["Household"].StringFixed(2)).To(Equal("3.00"))
		})

		It("excludes uncategorized items even when the receipt qualifies", func() {
			receipts = append(receipts, Receipt{
				TransactionDate: datePtr(2026, time.March, 20),
				Items: []ReceiptItem{
					{TotalPrice: decimalPtr("4.00")},
					{Category: stringPtr(""), TotalPrice: decimalPtr("4.00")},
					{Category: stringPtr("Snacks")},
				},
			})
			byCategory := ExpensesByCategory(receipts, nil, nil)
			Expect(byCategory).NotTo(HaveKey(""))
			Expect(byCategory).NotTo(HaveKey("Snacks"))
		})

		It("ranges on the receipt date, not per item", func() {
			from := datePtr(2026, time.March, 10)
			to := datePtr(2026, time.March, 31)
			byCategory := ExpensesByCategory(receipts, from, to)
			Expect(byCategory["Groceries"].StringFixed(2)).To(Equal("5.50"))
		})
	})

	Describe("DailyExpenses", func() {
		It("returns per-day totals in ascending date order", func() {
			daily := DailyExpenses(receipts,
				time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC))
			Expect(daily).To(HaveLen(3))
			Expect(daily[0].Date).To(Equal(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)))
			Expect(daily[0].Total.StringFixed(2)).To(Equal("10.00"))
			Expect(daily[1].Date).To(Equal(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)))
			Expect(daily[2].Date).To(Equal(time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC)))
		})

		It("merges receipts from the same day", func() {
			receipts = append(receipts, Receipt{
				Total:           decimalPtr("1.00"),
				TransactionDate: datePtr(2026, time.March, 1),
			})
			daily := DailyExpenses(receipts,
				time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
			Expect(daily).To(HaveLen(1))
			Expect(daily[0].Total.StringFixed(2)).To(Equal("11.00"))
		})

		It("returns an empty slice for an empty range", func() {
			daily := DailyExpenses(receipts,
				time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2027, time.January, 31, 0, 0, 0, 0, time.UTC))
			Expect(daily).To(BeEmpty())
		})
	})
})
