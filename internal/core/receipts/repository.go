package receipts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PocketPalCo/receipt-service/internal/infra/postgres"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// ErrDuplicateReceipt is returned by Save when a receipt with the same
// content fingerprint is already stored.
var ErrDuplicateReceipt = errors.New("receipt already exists")

// Repository persists receipts and answers fingerprint lookups. Save must
// be atomic over the receipt and its items, and must return
// ErrDuplicateReceipt when the fingerprint is already present, even under
// concurrent saves of the same receipt.
type Repository interface {
	Save(ctx context.Context, receipt *Receipt) error
	ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error)
	GetAll(ctx context.Context) ([]Receipt, error)
}

// PostgresRepository stores receipts in Postgres. The unique index on
// fingerprint is what serializes concurrent duplicate uploads; the
// in-process existence check is only an optimization.
type PostgresRepository struct {
	db postgres.DB
}

func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// InitSchema creates the receipt tables when they do not exist yet.
func (r *PostgresRepository) InitSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS receipts (
			id UUID PRIMARY KEY,
			country_region TEXT,
			merchant_name TEXT,
			merchant_phone TEXT,
			receipt_type TEXT,
			transaction_date DATE,
			transaction_time TEXT,
			total NUMERIC(12, 2),
			fingerprint TEXT NOT NULL,
			file_url TEXT,
			content_type TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE UNIQUE INDEX IF NOT EXISTS receipts_fingerprint_idx ON receipts (fingerprint);

		CREATE TABLE IF NOT EXISTS receipt_items (
			id BIGSERIAL PRIMARY KEY,
			receipt_id UUID NOT NULL REFERENCES receipts (id) ON DELETE CASCADE,
			item_order INT NOT NULL,
			description TEXT,
			category TEXT,
			quantity NUMERIC(12, 3),
			unit TEXT,
			price NUMERIC(12, 2),
			total_price NUMERIC(12, 2)
		);

		CREATE INDEX IF NOT EXISTS receipt_items_receipt_id_idx ON receipt_items (receipt_id);
	`

	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create receipt schema: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Save(ctx context.Context, receipt *Receipt) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO receipts (
			id, country_region, merchant_name, merchant_phone, receipt_type,
			transaction_date, transaction_time, total, fingerprint,
			file_url, content_type, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9, $10, $11, $12)
	`

	_, err = tx.Exec(ctx, query,
		receipt.ID, receipt.CountryRegion, receipt.MerchantName,
		receipt.MerchantPhone, receipt.ReceiptType, receipt.TransactionDate,
		clockToText(receipt.TransactionTime), decimalToText(receipt.Total),
		receipt.Fingerprint, receipt.FileURL, receipt.ContentType,
		receipt.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateReceipt
		}
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	itemQuery := `
		INSERT INTO receipt_items (
			receipt_id, item_order, description, category,
			quantity, unit, price, total_price
		) VALUES ($1, $2, $3, $4, $5::numeric, $6, $7::numeric, $8::numeric)
	`

	for i, item := range receipt.Items {
		_, err = tx.Exec(ctx, itemQuery,
			receipt.ID, i+1, item.Description, item.Category,
			decimalToText(item.Quantity), item.Unit,
			decimalToText(item.Price), decimalToText(item.TotalPrice),
		)
		if err != nil {
			return fmt.Errorf("failed to insert receipt item %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit receipt: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM receipts WHERE fingerprint = $1)`

	if err := r.db.QueryRow(ctx, query, fingerprint).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check fingerprint: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]Receipt, error) {
	query := `
		SELECT id, country_region, merchant_name, merchant_phone, receipt_type,
		       transaction_date, transaction_time, total::text, fingerprint,
		       file_url, content_type, created_at
		FROM receipts
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()

	var receipts []Receipt
	index := make(map[string]int)
	for rows.Next() {
		var receipt Receipt
		var clock, total *string
		err := rows.Scan(
			&receipt.ID, &receipt.CountryRegion, &receipt.MerchantName,
			&receipt.MerchantPhone, &receipt.ReceiptType,
			&receipt.TransactionDate, &clock, &total, &receipt.Fingerprint,
			&receipt.FileURL, &receipt.ContentType, &receipt.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}

		receipt.TransactionTime, err = textToClock(clock)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transaction time for receipt %s: %w", receipt.ID, err)
		}
		receipt.Total, err = textToDecimal(total)
		if err != nil {
			return nil, fmt.Errorf("failed to parse total for receipt %s: %w", receipt.ID, err)
		}
		if receipt.TransactionDate != nil {
			receipt.TransactionDate = dayOf(*receipt.TransactionDate)
		}

		index[receipt.ID.String()] = len(receipts)
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}

	if err := r.loadItems(ctx, receipts, index); err != nil {
		return nil, err
	}

	return receipts, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, receipts []Receipt, index map[string]int) error {
	if len(receipts) == 0 {
		return nil
	}

	query := `
		SELECT receipt_id, description, category, quantity::text, unit,
		       price::text, total_price::text
		FROM receipt_items
		ORDER BY receipt_id, item_order
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query receipt items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var receiptID string
		var item ReceiptItem
		var quantity, price, totalPrice *string
		err := rows.Scan(
			&receiptID, &item.Description, &item.Category,
			&quantity, &item.Unit, &price, &totalPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to scan receipt item: %w", err)
		}

		if item.Quantity, err = textToDecimal(quantity); err != nil {
			return fmt.Errorf("failed to parse item quantity: %w", err)
		}
		if item.Price, err = textToDecimal(price); err != nil {
			return fmt.Errorf("failed to parse item price: %w", err)
		}
		if item.TotalPrice, err = textToDecimal(totalPrice); err != nil {
			return fmt.Errorf("failed to parse item total price: %w", err)
		}

		pos, ok := index[receiptID]
		if !ok {
			continue
		}
		receipts[pos].Items = append(receipts[pos].Items, item)
	}
	return rows.Err()
}

// Decimals cross the wire as text on both sides so the numeric columns
// never depend on a registered pgx codec.
func decimalToText(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func textToDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Clock times are stored as "15:04:05" text; the date columns carry no
// time-of-day component.
func clockToText(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("15:04:05")
	return &s
}

func textToClock(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse("15:04:05", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
