package receipts

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/PocketPalCo/receipt-service/internal/core/docintel"
)

var _ = Describe("BuildReceipt", func() {
	When("the result contains no documents", func() {
		It("returns ErrNoReceiptDetected for a nil result", func() {
			_, err := BuildReceipt(nil)
			Expect(err).To(MatchError(ErrNoReceiptDetected))
		})

		It("returns ErrNoReceiptDetected for an empty result", func() {
			_, err := BuildReceipt(&docintel.AnalyzeResult{})
			Expect(err).To(MatchError(ErrNoReceiptDetected))
		})
	})

	When("the result contains a receipt document", func() {
		var (
			result  *docintel.AnalyzeResult
			receipt *Receipt
			err     error
		)

		BeforeEach(func() {
			result = &docintel.AnalyzeResult{
				Documents: []docintel.Document{{
					DocType: "receipt",
					Fields: map[string]docintel.Field{
						"MerchantName": {
							Type:        docintel.FieldTypeString,
							ValueString: stringPtr("REWE Markt"),
						},
						"MerchantPhoneNumber": {Content: "+49 30 1234567"},
						"CountryRegion":       {Content: "DEU"},
						"ReceiptType":         {Content: "receipt.retailMeal"},
						"TransactionDate": {
							Type:      docintel.FieldTypeDate,
							ValueDate: stringPtr("2026-03-14"),
						},
						"TransactionTime": {Content: "14:37:22"},
						"Total": {
							Type:          docintel.FieldTypeCurrency,
							ValueCurrency: &docintel.CurrencyValue{Amount: 23.45, CurrencyCode: "EUR"},
						},
						"Items": {
							Type: docintel.FieldTypeArray,
							ValueArray: []docintel.Field{
								{
									Type: docintel.FieldTypeObject,
									ValueObject: map[string]docintel.Field{
										"Description": {Content: "Bio Milch 1L"},
										"Category":    {Content: "Groceries"},
										"Quantity":    {Content: "2"},
										"Unit":        {Content: "pcs"},
										"Price":       {Content: "1,19"},
										"TotalPrice":  {Content: "2,38"},
									},
								},
								{
									// Non-object entries are skipped.
									Type:    docintel.FieldTypeString,
									Content: "not an item",
								},
							},
						},
					},
				}},
			}
		})

		JustBeforeEach(func() {
			receipt, err = BuildReceipt(result)
		})

		It("succeeds", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("maps the header fields", func() {
			Expect(receipt.MerchantName).To(HaveValue(Equal("REWE Markt")))
			Expect(receipt.MerchantPhone).To(HaveValue(Equal("+49 30 1234567")))
			Expect(receipt.CountryRegion).To(HaveValue(Equal("DEU")))
			Expect(receipt.ReceiptType).To(HaveValue(Equal("receipt.retailMeal")))
			Expect(receipt.Total.StringFixed(2)).To(Equal("23.45"))
			Expect(receipt.TransactionDate).To(HaveValue(Equal(
				time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC))))
			Expect(receipt.TransactionTime).To(HaveValue(Equal(
				time.Date(0, time.January, 1, 14, 37, 22, 0, time.UTC))))
		})

		It("maps object items and skips the rest", func() {
			Expect(receipt.Items).To(HaveLen(1))
			item := receipt.Items[0]
			Expect(item.Description).To(HaveValue(Equal("Bio Milch 1L")))
			Expect(item.Category).To(HaveValue(Equal("Groceries")))
			Expect(item.Quantity.String()).To(Equal("2"))
			Expect(item.Unit).To(HaveValue(Equal("pcs")))
			Expect(item.Price.StringFixed(2)).To(Equal("1.19"))
			Expect(item.TotalPrice.StringFixed(2)).To(Equal("2.38"))
		})

		It("fingerprints the receipt", func() {
			Expect(receipt.Fingerprint).To(MatchRegexp(`^[0-9a-f]{64}$`))
		})

		It("assigns an identifier", func() {
			Expect(receipt.ID.String()).NotTo(Equal("00000000-0000-0000-0000-000000000000"))
		})

		When("the field bag is sparse", func() {
			BeforeEach(func() {
				result.Documents[0].Fields = map[string]docintel.Field{
					"Total": {Content: "5,00"},
				}
			})

			It("leaves absent fields nil instead of failing", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(receipt.MerchantName).To(BeNil())
				Expect(receipt.TransactionDate).To(BeNil())
				Expect(receipt.Total.StringFixed(2)).To(Equal("5.00"))
				Expect(receipt.Items).To(BeEmpty())
			})
		})

		When("only the first of several documents matters", func() {
			BeforeEach(func() {
				result.Documents = append(result.Documents, docintel.Document{
					DocType: "receipt",
					Fields: map[string]docintel.Field{
						"MerchantName": {Content: "someone else"},
					},
				})
			})

			It("uses the first document", func() {
				Expect(receipt.MerchantName).To(HaveValue(Equal("REWE Markt")))
			})
		})
	})
})
