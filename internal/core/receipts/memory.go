package receipts

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps receipts in process memory. It backs local runs
// and tests where no database is configured, and honors the same Save
// contract as the Postgres repository, including duplicate detection under
// concurrent saves.
type MemoryRepository struct {
	mu           sync.Mutex
	receipts     []Receipt
	fingerprints map[string]struct{}
	lastCreated  time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		fingerprints: make(map[string]struct{}),
	}
}

func (r *MemoryRepository) Save(_ context.Context, receipt *Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fingerprints[receipt.Fingerprint]; exists {
		return ErrDuplicateReceipt
	}

	stored := *receipt
	stored.Items = make([]ReceiptItem, len(receipt.Items))
	copy(stored.Items, receipt.Items)

	// Newest-first ordering relies on CreatedAt; clamp against clock
	// reads that land on the same tick or go backwards.
	if !stored.CreatedAt.After(r.lastCreated) {
		stored.CreatedAt = r.lastCreated.Add(time.Nanosecond)
	}
	r.lastCreated = stored.CreatedAt

	r.fingerprints[receipt.Fingerprint] = struct{}{}
	r.receipts = append(r.receipts, stored)
	return nil
}

func (r *MemoryRepository) ExistsByFingerprint(_ context.Context, fingerprint string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.fingerprints[fingerprint]
	return exists, nil
}

func (r *MemoryRepository) GetAll(_ context.Context) ([]Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Receipt, len(r.receipts))
	for i, receipt := range r.receipts {
		out[len(r.receipts)-1-i] = receipt
	}
	return out, nil
}
