package docintel

// Field type tags as returned by the Azure Document Intelligence REST API.
const (
	FieldTypeString   = "string"
	FieldTypeDate     = "date"
	FieldTypeTime     = "time"
	FieldTypeCurrency = "currency"
	FieldTypeNumber   = "number"
	FieldTypeInteger  = "integer"
	FieldTypeArray    = "array"
	FieldTypeObject   = "object"
)

// Field is one entry in a document's field bag: a type tag, the
// type-specific structured value, and the raw text the value was read from.
// Consumers must treat every structured value as optional; Content is the
// fallback representation.
type Field struct {
	Type          string           `json:"type"`
	ValueString   *string          `json:"valueString,omitempty"`
	ValueDate     *string          `json:"valueDate,omitempty"`
	ValueTime     *string          `json:"valueTime,omitempty"`
	ValueNumber   *float64         `json:"valueNumber,omitempty"`
	ValueInteger  *int64           `json:"valueInteger,omitempty"`
	ValueCurrency *CurrencyValue   `json:"valueCurrency,omitempty"`
	ValueArray    []Field          `json:"valueArray,omitempty"`
	ValueObject   map[string]Field `json:"valueObject,omitempty"`
	Content       string           `json:"content"`
	Confidence    float64          `json:"confidence"`
}

// CurrencyValue is the structured amount of a currency-typed field.
type CurrencyValue struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
}

// Document is one candidate interpretation of the analyzed content.
type Document struct {
	DocType    string           `json:"docType"`
	Fields     map[string]Field `json:"fields"`
	Confidence float64          `json:"confidence"`
}

// AnalyzeResult is the completed analysis for one uploaded file.
type AnalyzeResult struct {
	APIVersion string     `json:"apiVersion"`
	ModelID    string     `json:"modelId"`
	Content    string     `json:"content"`
	Documents  []Document `json:"documents"`
}

type analyzeResponse struct {
	Status              string         `json:"status"`
	CreatedDateTime     string         `json:"createdDateTime"`
	LastUpdatedDateTime string         `json:"lastUpdatedDateTime"`
	AnalyzeResult       *AnalyzeResult `json:"analyzeResult,omitempty"`
	Error               *analyzeError  `json:"error,omitempty"`
}

type analyzeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
