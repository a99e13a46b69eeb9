package einvoice

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NoDescription is the sentinel stored when a document carries no
// usable line description.
const NoDescription = "Sin descripción"

// DefaultIVARatePercent is the standard Costa Rican VAT rate applied
// when a document does not state one.
var DefaultIVARatePercent = decimal.NewFromInt(13)

var one = decimal.NewFromInt(1)

// Record is the canonical expense produced from one accepted document.
// Monetary fields keep full decimal precision; IVARatePercent is the
// percentage as stated on the invoice (13 means 13%).
type Record struct {
	Issuer         string
	IssueDate      time.Time
	TotalAmount    decimal.Decimal
	IVAAmount      decimal.Decimal
	IVARatePercent decimal.Decimal
	Description    string
	FileName       string
}

// FailureCode classifies why a document was rejected.
type FailureCode string

const (
	FailureMalformed    FailureCode = "malformed document"
	FailureUnsupported  FailureCode = "unsupported document type"
	FailureMissingField FailureCode = "missing required field"
	FailureInvalidValue FailureCode = "invalid field value"
)

// ParseError reports one rejected document. Fields lists the offending
// field names for the missing-field and invalid-value codes.
type ParseError struct {
	Code   FailureCode
	Fields []string
}

func (e *ParseError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Code, strings.Join(e.Fields, ", "))
	}
	return string(e.Code)
}

var issueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseIssueDate(raw string) (time.Time, bool) {
	for _, layout := range issueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Normalize converts one raw XML document into a Record. It never
// panics: decoding faults surface as the malformed-document failure and
// every other problem as a typed ParseError. defaultRatePercent fills
// in when the document states no tax rate; pass a non-positive value to
// use DefaultIVARatePercent.
func Normalize(raw []byte, fileName string, defaultRatePercent decimal.Decimal) (rec *Record, perr *ParseError) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			perr = &ParseError{Code: FailureMalformed}
		}
	}()

	var doc document
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Code: FailureMalformed}
	}

	schema, ok := documentSchemas[doc.XMLName.Local]
	if !ok {
		return nil, &ParseError{Code: FailureUnsupported}
	}

	var missing []string
	issuer, ok := schema.issuer(&doc)
	if !ok {
		missing = append(missing, "issuer")
	}
	rawDate, ok := schema.issueDate(&doc)
	if !ok {
		missing = append(missing, "date")
	}
	rawTotal, ok := schema.totalAmount(&doc)
	if !ok {
		missing = append(missing, "total")
	}
	if len(missing) > 0 {
		return nil, &ParseError{Code: FailureMissingField, Fields: missing}
	}

	issueDate, ok := parseIssueDate(rawDate)
	if !ok {
		return nil, &ParseError{Code: FailureInvalidValue, Fields: []string{"date"}}
	}

	total, err := decimal.NewFromString(strings.TrimSpace(rawTotal))
	if err != nil || total.IsNegative() {
		return nil, &ParseError{Code: FailureInvalidValue, Fields: []string{"total"}}
	}

	if defaultRatePercent.Sign() <= 0 {
		defaultRatePercent = DefaultIVARatePercent
	}
	ratePercent := defaultRatePercent
	if rawRate, ok := schema.taxRate(&doc); ok {
		if r, err := decimal.NewFromString(strings.TrimSpace(rawRate)); err == nil && r.Sign() >= 0 {
			ratePercent = r
		}
	}

	var iva decimal.Decimal
	if rawTax, ok := schema.taxAmount(&doc); ok {
		t, err := decimal.NewFromString(strings.TrimSpace(rawTax))
		if err != nil || t.IsNegative() {
			return nil, &ParseError{Code: FailureInvalidValue, Fields: []string{"tax"}}
		}
		iva = t
	} else {
		// The stated total is IVA-inclusive, so the embedded tax is
		// total * r / (1 + r) with r as a fraction.
		rate := ratePercent.Div(decimal.NewFromInt(100))
		iva = total.Mul(rate).Div(one.Add(rate))
	}

	description := NoDescription
	if d, ok := schema.description(&doc); ok {
		description = d
	}

	return &Record{
		Issuer:         issuer,
		IssueDate:      issueDate,
		TotalAmount:    total,
		IVAAmount:      iva,
		IVARatePercent: ratePercent,
		Description:    description,
		FileName:       fileName,
	}, nil
}

// File is one uploaded document in a batch.
type File struct {
	Name string
	Data []byte
}

// Failure pairs a rejected file with its reason.
type Failure struct {
	FileName string
	Reason   string
}

// BatchResult carries the per-file outcome of NormalizeBatch. A failing
// file never discards its siblings.
type BatchResult struct {
	Records  []*Record
	Failures []Failure
}

func (r BatchResult) SuccessCount() int { return len(r.Records) }
func (r BatchResult) ErrorCount() int   { return len(r.Failures) }

// NormalizeBatch runs Normalize over every file, keeping successes and
// failures side by side in input order.
func NormalizeBatch(files []File, defaultRatePercent decimal.Decimal) BatchResult {
	var result BatchResult
	for _, f := range files {
		rec, perr := Normalize(f.Data, f.Name, defaultRatePercent)
		if perr != nil {
			result.Failures = append(result.Failures, Failure{FileName: f.Name, Reason: perr.Error()})
			continue
		}
		result.Records = append(result.Records, rec)
	}
	return result
}
