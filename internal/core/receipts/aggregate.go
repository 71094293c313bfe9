package receipts

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Aggregation queries over a receipt collection. All of them are pure: they
// never fail on well-formed input, and receipts (or items) missing the
// fields a query groups or sums by are excluded rather than treated as
// errors. Date bounds are calendar days, inclusive on both ends; a nil
// bound leaves that end open.

// TotalExpenses sums the totals of receipts whose transaction date falls in
// [from, to]. Receipts without a total contribute nothing.
func TotalExpenses(receipts []Receipt, from, to *time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range receipts {
		if r.Total == nil || !inDateRange(r.TransactionDate, from, to) {
			continue
		}
		sum = sum.Add(*r.Total)
	}
	return sum
}

// ExpensesByMerchant groups in-range receipts by their exact merchant name
// (case-sensitive, no normalization) and sums totals per merchant. Receipts
// without a merchant name or total are excluded.
func ExpensesByMerchant(receipts []Receipt, from, to *time.Time) map[string]decimal.Decimal {
	byMerchant := make(map[string]decimal.Decimal)
	for _, r := range receipts {
		if r.Total == nil || r.MerchantName == nil || *r.MerchantName == "" {
			continue
		}
		if !inDateRange(r.TransactionDate, from, to) {
			continue
		}
		byMerchant[*r.MerchantName] = byMerchant[*r.MerchantName].Add(*r.Total)
	}
	return byMerchant
}

// ExpensesByCategory groups line items of in-range receipts by item
// category, summing the item total price. Items with an empty category or
// no total price are excluded even when the parent receipt qualifies.
func ExpensesByCategory(receipts []Receipt, from, to *time.Time) map[string]decimal.Decimal {
	byCategory := make(map[string]decimal.Decimal)
	for _, r := range receipts {
		if !inDateRange(r.TransactionDate, from, to) {
			continue
		}
		for _, item := range r.Items {
			if item.TotalPrice == nil || item.Category == nil || *item.Category == "" {
				continue
			}
			byCategory[*item.Category] = byCategory[*item.Category].Add(*item.TotalPrice)
		}
	}
	return byCategory
}

// DailyExpenses sums receipt totals per transaction date over [from, to]
// (both bounds required) and returns the pairs in ascending date order.
// The ordering is part of the contract; callers chart the result directly.
func DailyExpenses(receipts []Receipt, from, to time.Time) []DailyTotal {
	byDate := make(map[time.Time]decimal.Decimal)
	for _, r := range receipts {
		if r.Total == nil || r.TransactionDate == nil {
			continue
		}
		if !inDateRange(r.TransactionDate, &from, &to) {
			continue
		}
		day := *dayOf(*r.TransactionDate)
		byDate[day] = byDate[day].Add(*r.Total)
	}

	days := make([]time.Time, 0, len(byDate))
	for day := range byDate {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	totals := make([]DailyTotal, 0, len(days))
	for _, day := range days {
		totals = append(totals, DailyTotal{Date: day, Total: byDate[day]})
	}
	return totals
}

// inDateRange reports whether a transaction date falls inside the inclusive
// bounds. An absent date fails any bounded query but passes an unbounded
// one, matching the exclusion semantics above.
func inDateRange(date *time.Time, from, to *time.Time) bool {
	if from != nil {
		if date == nil || dayOf(*date).Before(*dayOf(*from)) {
			return false
		}
	}
	if to != nil {
		if date == nil || dayOf(*date).After(*dayOf(*to)) {
			return false
		}
	}
	return true
}
