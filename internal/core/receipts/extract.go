package receipts

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PocketPalCo/receipt-service/internal/core/docintel"
	"github.com/shopspring/decimal"
)

// Textual date layouts accepted by the fallback parser, tried in order; the
// first structural match wins. Slash dates with day <= 12 are inherently
// ambiguous and resolve US-first by this ordering.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
}

var (
	// 24-hour H:MM or H:MM:SS anywhere in the raw content.
	timePattern = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)(?::([0-5]\d))?\b`)

	currencyMarkers = regexp.MustCompile(`(?i)EUR|USD|€|\$`)
	nonAmountChars  = regexp.MustCompile(`[^0-9.\-]`)
)

// stringField returns the structured string value when the field is
// string-typed and non-blank, otherwise the trimmed raw content. Blank
// either way is nil.
func stringField(fields map[string]docintel.Field, key string) *string {
	f, ok := fields[key]
	if !ok {
		return nil
	}

	if f.Type == docintel.FieldTypeString && f.ValueString != nil {
		if s := strings.TrimSpace(*f.ValueString); s != "" {
			return &s
		}
	}

	if s := strings.TrimSpace(f.Content); s != "" {
		return &s
	}
	return nil
}

// dateField returns the calendar day of a date-typed structured value
// (any clock or offset component is discarded), falling back to parsing the
// raw content against the accepted layouts. No match is nil, never an error.
func dateField(fields map[string]docintel.Field, key string) *time.Time {
	f, ok := fields[key]
	if !ok {
		return nil
	}

	if f.Type == docintel.FieldTypeDate && f.ValueDate != nil {
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if t, err := time.Parse(layout, *f.ValueDate); err == nil {
				return dayOf(t)
			}
		}
	}

	raw := strings.TrimSpace(f.Content)
	if raw == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return dayOf(t)
		}
	}
	return nil
}

// timeField extracts a clock value from the raw content only. The backend's
// structured time value has proven unreliable for receipts, so it is never
// consulted; the first H:MM[:SS] match in the text wins.
func timeField(fields map[string]docintel.Field, key string) *time.Time {
	f, ok := fields[key]
	if !ok {
		return nil
	}

	if strings.TrimSpace(f.Content) == "" {
		return nil
	}

	m := timePattern.FindStringSubmatch(f.Content)
	if m == nil {
		return nil
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second := 0
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}

	t := time.Date(0, time.January, 1, hour, minute, second, 0, time.UTC)
	return &t
}

// decimalField extracts a numeric amount. Structured values are preferred in
// order (currency amount, floating point, integer); only then is the raw
// content cleaned and parsed. The same routine serves totals, quantities,
// unit prices and line totals.
func decimalField(fields map[string]docintel.Field, key string) *decimal.Decimal {
	f, ok := fields[key]
	if !ok {
		return nil
	}

	if f.Type == docintel.FieldTypeCurrency && f.ValueCurrency != nil {
		d := decimal.NewFromFloat(f.ValueCurrency.Amount)
		return &d
	}

	if f.Type == docintel.FieldTypeNumber && f.ValueNumber != nil {
		d := decimal.NewFromFloat(*f.ValueNumber)
		return &d
	}

	if f.Type == docintel.FieldTypeInteger && f.ValueInteger != nil {
		d := decimal.NewFromInt(*f.ValueInteger)
		return &d
	}

	return parseAmount(f.Content)
}

// parseAmount normalizes a raw money/quantity string and parses it as a
// fixed-point number. Currency markers and non-breaking spaces are stripped;
// a comma with no period is a decimal comma ("1234,56"), and a comma after
// the last period marks European thousands-dot notation ("1.234,56").
// Anything unparseable is nil.
func parseAmount(raw string) *decimal.Decimal {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), " ", " ")
	cleaned = currencyMarkers.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma >= 0 && lastDot < 0:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	cleaned = nonAmountChars.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return nil
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}
	return &d
}

// dayOf truncates a timestamp to its calendar day at midnight UTC.
func dayOf(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
