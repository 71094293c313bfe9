package receipts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt is the canonical record produced by field extraction. Every scalar
// field is optional: extraction failure is a nil, not an error, and a receipt
// with most fields missing is still a valid record. Receipts are immutable
// once saved.
type Receipt struct {
	ID            uuid.UUID `json:"id" db:"id"`
	CountryRegion *string   `json:"country_region" db:"country_region"`
	MerchantName  *string   `json:"merchant_name" db:"merchant_name"`
	MerchantPhone *string   `json:"merchant_phone" db:"merchant_phone"`
	ReceiptType   *string   `json:"receipt_type" db:"receipt_type"`

	// TransactionDate holds a calendar day (midnight UTC); TransactionTime
	// holds a clock value on the zero date. They are stored separately
	// because receipts routinely carry one without the other.
	TransactionDate *time.Time `json:"transaction_date" db:"transaction_date"`
	TransactionTime *time.Time `json:"transaction_time" db:"transaction_time"`

	Total *decimal.Decimal `json:"total" db:"total"`

	// Items preserves extraction order.
	Items []ReceiptItem `json:"items"`

	// Fingerprint is computed from merchant/total/date/time, never set
	// independently. 64 lowercase hex characters.
	Fingerprint string `json:"fingerprint" db:"fingerprint"`

	// CreatedAt is assigned by the repository at save time.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Provenance of the uploaded file, when blob storage is configured.
	FileURL     *string `json:"file_url" db:"file_url"`
	ContentType *string `json:"content_type" db:"content_type"`
}

// ReceiptItem is a single extracted line item.
type ReceiptItem struct {
	Description *string          `json:"description" db:"description"`
	Category    *string          `json:"category" db:"category"`
	Quantity    *decimal.Decimal `json:"quantity" db:"quantity"`
	Unit        *string          `json:"unit" db:"unit"`
	Price       *decimal.Decimal `json:"price" db:"price"`
	TotalPrice  *decimal.Decimal `json:"total_price" db:"total_price"`
}

// DailyTotal is one (date, sum) pair of a daily expense report, ordered
// ascending by date.
type DailyTotal struct {
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
}
