package receipts

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Fingerprint", func() {
	var receipt *Receipt

	BeforeEach(func() {
		receipt = &Receipt{
			MerchantName:    stringPtr("REWE Markt"),
			Total:           decimalPtr("23.45"),
			TransactionDate: datePtr(2026, time.March, 14),
			TransactionTime: clockPtr(14, 37),
		}
	})

	It("is 64 lowercase hex characters", func() {
		Expect(Fingerprint(receipt)).To(MatchRegexp(`^[0-9a-f]{64}$`))
	})

	It("is deterministic", func() {
		Expect(Fingerprint(receipt)).To(Equal(Fingerprint(receipt)))
	})

	It("ignores merchant name case and surrounding whitespace", func() {
		other := *receipt
		other.MerchantName = stringPtr("  rewe markt ")
		Expect(Fingerprint(&other)).To(Equal(Fingerprint(receipt)))
	})

	It("ignores item content", func() {
		other := *receipt
		other.Items = []ReceiptItem{
			{Description: stringPtr("Milch"), TotalPrice: decimalPtr("1.19")},
		}
		Expect(Fingerprint(&other)).To(Equal(Fingerprint(receipt)))
	})

	It("normalizes total precision to two fractional digits", func() {
		other := *receipt
		other.Total = decimalPtr("23.450")
		Expect(Fingerprint(&other)).To(Equal(Fingerprint(receipt)))
	})

	It("changes when the total differs by a cent", func() {
		other := *receipt
		other.Total = decimalPtr("23.46")
		Expect(Fingerprint(&other)).NotTo(Equal(Fingerprint(receipt)))
	})

	It("changes when the transaction time differs", func() {
		other := *receipt
		other.TransactionTime = clockPtr(14, 38)
		Expect(Fingerprint(&other)).NotTo(Equal(Fingerprint(receipt)))
	})

	It("keeps absent fields distinguishable by position", func() {
		noTotal := &Receipt{MerchantName: stringPtr("m"), TransactionDate: datePtr(2026, time.March, 14)}
		noDate := &Receipt{MerchantName: stringPtr("m"), Total: decimalPtr("0.00")}
		Expect(Fingerprint(noTotal)).NotTo(Equal(Fingerprint(noDate)))
	})

	It("is stable for a fully empty receipt", func() {
		empty := &Receipt{}
		Expect(Fingerprint(empty)).To(Equal(Fingerprint(&Receipt{})))
		Expect(Fingerprint(empty)).To(MatchRegexp(`^[0-9a-f]{64}$`))
	})
})

var _ = Describe("fingerprint regression", func() {
	// Pins the exact preimage layout: changing the separator, field order
	// or formatting breaks dedup against already-stored receipts.
	It("matches the recorded digest", func() {
		receipt := &Receipt{
			MerchantName:    stringPtr("REWE"),
			Total:           decimalPtr("10"),
			TransactionDate: datePtr(2026, time.January, 2),
			TransactionTime: clockPtr(9, 5),
		}
		// sha256("rewe|10.00|2026-01-02|09:05")
		Expect(Fingerprint(receipt)).To(Equal(sha256Hex("rewe|10.00|2026-01-02|09:05")))
	})
})

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
