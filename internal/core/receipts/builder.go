package receipts

import (
	"errors"

	"github.com/PocketPalCo/receipt-service/internal/core/docintel"
	"github.com/google/uuid"
)

// ErrNoReceiptDetected is returned when the analysis result contains no
// candidate documents. It is the only fatal extraction condition; every
// field-level failure degrades to a nil field instead.
var ErrNoReceiptDetected = errors.New("no receipt detected in document")

// BuildReceipt assembles a canonical Receipt from an analysis result.
// The first candidate document wins; candidates are ordered by confidence
// and receipts are single-document uploads, so there is nothing to merge.
// The returned receipt is already fingerprinted.
func BuildReceipt(result *docintel.AnalyzeResult) (*Receipt, error) {
	if result == nil || len(result.Documents) == 0 {
		return nil, ErrNoReceiptDetected
	}

	fields := result.Documents[0].Fields

	receipt := &Receipt{
		ID:              uuid.New(),
		CountryRegion:   stringField(fields, "CountryRegion"),
		MerchantName:    stringField(fields, "MerchantName"),
		MerchantPhone:   stringField(fields, "MerchantPhoneNumber"),
		ReceiptType:     stringField(fields, "ReceiptType"),
		TransactionDate: dateField(fields, "TransactionDate"),
		TransactionTime: timeField(fields, "TransactionTime"),
		Total:           decimalField(fields, "Total"),
		Items:           make([]ReceiptItem, 0),
	}

	if itemsField, ok := fields["Items"]; ok && itemsField.Type == docintel.FieldTypeArray {
		for _, entry := range itemsField.ValueArray {
			if entry.Type != docintel.FieldTypeObject || entry.ValueObject == nil {
				continue
			}

			obj := entry.ValueObject
			receipt.Items = append(receipt.Items, ReceiptItem{
				Description: stringField(obj, "Description"),
				Category:    stringField(obj, "Category"),
				Quantity:    decimalField(obj, "Quantity"),
				Unit:        stringField(obj, "Unit"),
				Price:       decimalField(obj, "Price"),
				TotalPrice:  decimalField(obj, "TotalPrice"),
			})
		}
	}

	receipt.Fingerprint = Fingerprint(receipt)

	return receipt, nil
}
