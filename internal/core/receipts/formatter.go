package receipts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// NamedTotal is one row of a ranked breakdown (merchant or category).
type NamedTotal struct {
	Name  string
	Total decimal.Decimal
}

// FormatAmount renders a monetary amount with two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return "€" + d.StringFixed(2)
}

// Summary renders the extracted fields of a receipt as chat-friendly
// lines. Absent fields are left out rather than shown as placeholders,
// except the item count which is always present.
func Summary(r *Receipt) string {
	var lines []string

	if r.MerchantName != nil && strings.TrimSpace(*r.MerchantName) != "" {
		lines = append(lines, fmt.Sprintf("Merchant: %s", *r.MerchantName))
	}
	if r.Total != nil {
		lines = append(lines, fmt.Sprintf("Total: %s", FormatAmount(*r.Total)))
	}
	if r.TransactionDate != nil || r.TransactionTime != nil {
		var parts []string
		if r.TransactionDate != nil {
			parts = append(parts, r.TransactionDate.Format("2006-01-02"))
		}
		if r.TransactionTime != nil {
			parts = append(parts, r.TransactionTime.Format("15:04"))
		}
		lines = append(lines, "Date: "+strings.Join(parts, " "))
	}
	lines = append(lines, fmt.Sprintf("Items: %d", len(r.Items)))

	return strings.Join(lines, "\n")
}

// RankedTotals flattens a breakdown map into rows sorted by descending
// amount, ties broken by name so output is stable.
func RankedTotals(totals map[string]decimal.Decimal) []NamedTotal {
	rows := make([]NamedTotal, 0, len(totals))
	for name, total := range totals {
		rows = append(rows, NamedTotal{Name: name, Total: total})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Total.Equal(rows[j].Total) {
			return rows[i].Total.GreaterThan(rows[j].Total)
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
