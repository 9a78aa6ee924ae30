package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// ExportLineItem is one table row of a rendered quotation document, fully
// formatted for display.
type ExportLineItem struct {
	Number          int
	SKU             string
	Description     string
	LeadTime        string
	MOQ             int
	UnitPrice       string
	DiscountPercent string
	LineTotal       string
	Notes           string
}

// QuotationExportData holds everything the PDF and Excel renderers need for
// one quotation. All derived amounts are computed here, never read from
// storage.
type QuotationExportData struct {
	QuotationID string
	QuoteNumber string
	Currency    Currency

	ClientName    string
	ClientEmail   string
	ClientAddress string

	CreatedDate    string
	ValidUntilDate string

	Items []ExportLineItem

	Subtotal        string
	Discount        string
	DiscountShown   bool
	DiscountPercent string // set when the discount is percentage-based
	Tax             string
	TaxShown        bool
	TaxRate         string
	Total           string

	Notes string
}

// DisplayNumber is the quote number as shown on the document: any leading
// "QT" prefix stripped.
func (d *QuotationExportData) DisplayNumber() string {
	return StripQuotePrefix(d.QuoteNumber)
}

// FileName is the download filename for the rendered document.
func (d *QuotationExportData) FileName() string {
	return QuoteFileName(d.QuoteNumber)
}

// BuildQuotationExportData loads a quotation with its line items in display
// order, runs the pricing engine and formats every amount and date.
func BuildQuotationExportData(app *pocketbase.PocketBase, quotationID string) (*QuotationExportData, error) {
	record, err := app.FindRecordById("quotations", quotationID)
	if err != nil {
		return nil, fmt.Errorf("quotation not found: %w", err)
	}

	itemRecords, err := app.FindRecordsByFilter(
		"quotation_items",
		"quotation = {:quotationId}",
		"sort_order",
		0,
		0,
		map[string]any{"quotationId": quotationID},
	)
	if err != nil {
		return nil, fmt.Errorf("quotation items: %w", err)
	}

	currency := Currency(record.GetString("currency"))
	items := lineItemsFromRecords(itemRecords)

	taxRate := decimalFromFloat(record.GetFloat("tax_rate"))
	discountType := DiscountType(record.GetString("discount_type"))
	discountValue := decimalFromFloat(record.GetFloat("discount_value"))
	totals := CalcQuotationTotals(items, taxRate, discountType, discountValue)

	data := &QuotationExportData{
		QuotationID:   record.Id,
		QuoteNumber:   record.GetString("quote_number"),
		Currency:      currency,
		ClientName:    sanitizeText(record.GetString("client_name")),
		ClientEmail:   sanitizeText(record.GetString("client_email")),
		ClientAddress: sanitizeText(record.GetString("client_address")),
		Notes:         sanitizeText(record.GetString("notes")),

		Subtotal: FormatCurrency(totals.Subtotal, currency),
		Discount: FormatCurrency(totals.Discount, currency),
		Tax:      FormatCurrency(totals.Tax, currency),
		Total:    FormatCurrency(totals.Total, currency),

		DiscountShown: totals.Discount.IsPositive(),
		TaxShown:      taxRate.IsPositive(),
		TaxRate:       trimDecimal(taxRate),
	}

	if discountType == DiscountPercentage {
		data.DiscountPercent = trimDecimal(discountValue)
	}

	if created := record.GetDateTime("created"); !created.IsZero() {
		data.CreatedDate = FormatDate(created.Time())
	}
	if validUntil := record.GetDateTime("valid_until"); !validUntil.IsZero() {
		data.ValidUntilDate = FormatDate(validUntil.Time())
	}

	for i, item := range items {
		discount := "—"
		if item.DiscountPercent.IsPositive() {
			discount = trimDecimal(item.DiscountPercent) + "%"
		}

		data.Items = append(data.Items, ExportLineItem{
			Number:          i + 1,
			SKU:             orDash(sanitizeText(item.SKU)),
			Description:     orDash(sanitizeText(item.Description)),
			LeadTime:        orDash(sanitizeText(item.LeadTime)),
			MOQ:             item.MOQ,
			UnitPrice:       FormatCurrency(item.UnitPrice, currency),
			DiscountPercent: discount,
			LineTotal:       FormatCurrency(LineTotal(item), currency),
			Notes:           sanitizeText(item.Notes),
		})
	}

	return data, nil
}

// lineItemsFromRecords maps stored item records to pricing-engine items.
func lineItemsFromRecords(records []*core.Record) []LineItem {
	items := make([]LineItem, 0, len(records))
	for _, rec := range records {
		moq := rec.GetInt("moq")
		if moq < 1 {
			moq = 1
		}
		items = append(items, LineItem{
			ID:              rec.Id,
			SKU:             rec.GetString("sku"),
			Description:     rec.GetString("description"),
			LeadTime:        rec.GetString("lead_time"),
			MOQ:             moq,
			UnitPrice:       decimalFromFloat(rec.GetFloat("unit_price")),
			DiscountPercent: decimalFromFloat(rec.GetFloat("discount_percent")),
			Notes:           rec.GetString("notes"),
		})
	}
	return items
}

// trimDecimal renders a rate without trailing zeros ("15", "7.5").
func trimDecimal(d decimal.Decimal) string {
	return d.String()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
