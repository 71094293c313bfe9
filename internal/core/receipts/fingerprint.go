package receipts

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// fingerprintSep keeps absent fields distinguishable by position: a missing
// time still contributes its empty slot, so "m|10.00||" never collides with
// "m|10.00|".
const fingerprintSep = "|"

// Fingerprint derives the duplicate-detection key for a receipt: SHA-256
// over merchant name (lower-cased, trimmed), total (two fractional digits),
// transaction date (yyyy-MM-dd) and transaction time (HH:mm), joined with a
// fixed separator, absent fields contributing empty strings. The result is
// 64 lowercase hex characters and must be identical across runs and
// platforms; item content never participates.
func Fingerprint(r *Receipt) string {
	parts := make([]string, 4)

	if r.MerchantName != nil {
		parts[0] = strings.ToLower(strings.TrimSpace(*r.MerchantName))
	}
	if r.Total != nil {
		parts[1] = r.Total.StringFixed(2)
	}
	if r.TransactionDate != nil {
		parts[2] = r.TransactionDate.Format("2006-01-02")
	}
	if r.TransactionTime != nil {
		parts[3] = r.TransactionTime.Format("15:04")
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, fingerprintSep)))
	return hex.EncodeToString(sum[:])
}
