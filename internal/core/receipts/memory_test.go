package receipts

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("MemoryRepository", func() {
	var (
		repo *MemoryRepository
		ctx  context.Context
	)

	BeforeEach(func() {
		repo = NewMemoryRepository()
		ctx = context.Background()
	})

	receiptWith := func(fingerprint string) *Receipt {
		return &Receipt{
			MerchantName: stringPtr("REWE"),
			Total:        decimalPtr("10.00"),
			Fingerprint:  fingerprint,
			CreatedAt:    time.Now().UTC(),
		}
	}

	Describe("Save", func() {
		It("stores a receipt", func() {
			Expect(repo.Save(ctx, receiptWith("fp-1"))).To(Succeed())

			all, err := repo.GetAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))
		})

		It("rejects a second receipt with the same fingerprint", func() {
			Expect(repo.Save(ctx, receiptWith("fp-1"))).To(Succeed())
			Expect(repo.Save(ctx, receiptWith("fp-1"))).To(MatchError(ErrDuplicateReceipt))

			all, err := repo.GetAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))
		})

		It("copies items so later caller mutation is invisible", func() {
			receipt := receiptWith("fp-1")
			receipt.Items = []ReceiptItem{{Description: stringPtr("Milch")}}
			Expect(repo.Save(ctx, receipt)).To(Succeed())

			receipt.Items[0].Description = stringPtr("changed")

			all, _ := repo.GetAll(ctx)
			Expect(all[0].Items[0].Description).To(HaveValue(Equal("Milch")))
		})

		It("admits exactly one of many concurrent saves with the same fingerprint", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			var duplicates int

			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := repo.Save(ctx, receiptWith("fp-race")); err != nil {
						mu.Lock()
						duplicates++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			Expect(duplicates).To(Equal(15))
			all, _ := repo.GetAll(ctx)
			Expect(all).To(HaveLen(1))
		})
	})

	Describe("ExistsByFingerprint", func() {
		It("reports stored fingerprints", func() {
			Expect(repo.Save(ctx, receiptWith("fp-1"))).To(Succeed())

			exists, err := repo.ExistsByFingerprint(ctx, "fp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			exists, err = repo.ExistsByFingerprint(ctx, "fp-2")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})

	Describe("GetAll", func() {
		It("returns receipts newest first even when saved on the same clock tick", func() {
			now := time.Now().UTC()
			for _, fp := range []string{"fp-1", "fp-2", "fp-3"} {
				receipt := receiptWith(fp)
				receipt.CreatedAt = now
				Expect(repo.Save(ctx, receipt)).To(Succeed())
			}

			all, err := repo.GetAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
			Expect(all[0].Fingerprint).To(Equal("fp-3"))
			Expect(all[1].Fingerprint).To(Equal("fp-2"))
			Expect(all[2].Fingerprint).To(Equal("fp-1"))
			Expect(all[0].CreatedAt.After(all[1].CreatedAt)).To(BeTrue())
		})

		It("returns an empty slice when nothing is stored", func() {
			all, err := repo.GetAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(BeEmpty())
		})
	})
})
