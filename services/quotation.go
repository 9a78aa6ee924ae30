// Package services contains the quotation pricing engine, quote number
// generation, formatting and document rendering used by the HTTP handlers.
package services

import (
	"math"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code from the fixed supported set.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyILS Currency = "ILS"
	CurrencyJPY Currency = "JPY"
	CurrencyCNY Currency = "CNY"
)

// SupportedCurrencies lists the currencies a quotation may be priced in.
var SupportedCurrencies = []Currency{
	CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyILS, CurrencyJPY, CurrencyCNY,
}

// DiscountType selects how the quotation-level discount is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Status is the quotation lifecycle state. Transitions are user-driven and
// unconstrained beyond enum membership.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// QuotationStatuses lists the valid status values.
var QuotationStatuses = []Status{StatusDraft, StatusSent, StatusAccepted, StatusDeclined}

// LineItem is one priced row in a quotation. MOQ is the billed quantity basis.
type LineItem struct {
	ID              string
	SKU             string
	Description     string
	LeadTime        string
	MOQ             int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Notes           string
}

// LineItemInput is the wire shape of a line item as submitted by clients.
type LineItemInput struct {
	SKU             string  `json:"sku"`
	Description     string  `json:"description"`
	LeadTime        string  `json:"leadTime"`
	MOQ             int     `json:"moq"`
	UnitPrice       float64 `json:"unitPrice"`
	DiscountPercent float64 `json:"discountPercent"`
	Notes           string  `json:"notes"`
}

func (i LineItemInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Description, validation.Required, validation.Length(1, 500)),
		validation.Field(&i.MOQ, validation.Required, validation.Min(1)),
		validation.Field(&i.UnitPrice, validation.Min(0.0)),
		validation.Field(&i.DiscountPercent, validation.Min(0.0), validation.Max(100.0)),
	)
}

// QuotationInput is the full-record payload for creating or updating a
// quotation. Derived amounts are never part of the payload; they are always
// recomputed from the items.
type QuotationInput struct {
	ClientName    string          `json:"clientName"`
	ClientEmail   string          `json:"clientEmail"`
	ClientAddress string          `json:"clientAddress"`
	Items         []LineItemInput `json:"items"`
	TaxRate       float64         `json:"taxRate"`
	DiscountType  string          `json:"discountType"`
	DiscountValue float64         `json:"discountValue"`
	Notes         string          `json:"notes"`
	Currency      string          `json:"currency"`
	ValidUntil    time.Time       `json:"validUntil"`
}

func (q QuotationInput) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.ClientName, validation.Required, validation.Length(1, 200)),
		validation.Field(&q.ClientEmail, validation.Required, is.EmailFormat),
		validation.Field(&q.Items, validation.Required, validation.Length(1, 0),
			validation.Each(validation.By(func(v any) error {
				item, _ := v.(LineItemInput)
				return item.Validate()
			}))),
		validation.Field(&q.TaxRate, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&q.DiscountType,
			validation.In(string(DiscountPercentage), string(DiscountFixed))),
		validation.Field(&q.DiscountValue, validation.Min(0.0)),
		validation.Field(&q.Currency, validation.Required,
			validation.In(currencyStrings()...)),
		validation.Field(&q.ValidUntil, validation.Required),
	)
}

func currencyStrings() []any {
	out := make([]any, len(SupportedCurrencies))
	for i, c := range SupportedCurrencies {
		out[i] = string(c)
	}
	return out
}

// ToLineItems converts the wire items to pricing-engine items, guarding
// against NaN/Inf values leaking in from JSON number parsing.
func (q QuotationInput) ToLineItems() []LineItem {
	items := make([]LineItem, 0, len(q.Items))
	for _, in := range q.Items {
		items = append(items, LineItem{
			SKU:             in.SKU,
			Description:     in.Description,
			LeadTime:        in.LeadTime,
			MOQ:             in.MOQ,
			UnitPrice:       decimalFromFloat(in.UnitPrice),
			DiscountPercent: decimalFromFloat(in.DiscountPercent),
			Notes:           in.Notes,
		})
	}
	return items
}

// decimalFromFloat converts a float to decimal, treating NaN and Inf as zero.
func decimalFromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// sanitizeText removes control characters from user-supplied text before it
// reaches the document renderer. Newlines survive so multi-line addresses and
// notes keep their layout.
func sanitizeText(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
