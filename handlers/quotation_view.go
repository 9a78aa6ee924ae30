package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// lineItemResponse is one quotation row as served by the API. Amounts are
// raw numbers for editing plus a formatted line total for display.
type lineItemResponse struct {
	ID              string  `json:"id"`
	SKU             string  `json:"sku"`
	Description     string  `json:"description"`
	LeadTime        string  `json:"leadTime"`
	MOQ             int     `json:"moq"`
	UnitPrice       float64 `json:"unitPrice"`
	DiscountPercent float64 `json:"discountPercent"`
	Notes           string  `json:"notes"`
	LineTotal       string  `json:"lineTotal"`
}

// totalsResponse carries the computed quotation totals, formatted in the
// quotation currency.
type totalsResponse struct {
	Subtotal      string `json:"subtotal"`
	Discount      string `json:"discount"`
	AfterDiscount string `json:"afterDiscount"`
	Tax           string `json:"tax"`
	Total         string `json:"total"`
}

type quotationResponse struct {
	ID            string             `json:"id"`
	QuoteNumber   string             `json:"quoteNumber"`
	DisplayNumber string             `json:"displayNumber"`
	ClientName    string             `json:"clientName"`
	ClientEmail   string             `json:"clientEmail"`
	ClientAddress string             `json:"clientAddress"`
	TaxRate       float64            `json:"taxRate"`
	DiscountType  string             `json:"discountType"`
	DiscountValue float64            `json:"discountValue"`
	Notes         string             `json:"notes"`
	Currency      string             `json:"currency"`
	Status        string             `json:"status"`
	ValidUntil    string             `json:"validUntil"`
	Created       string             `json:"created"`
	Items         []lineItemResponse `json:"items"`
	Totals        totalsResponse     `json:"totals"`
}

// buildQuotationResponse assembles the full API shape for one quotation,
// recomputing every derived amount from the stored items.
func buildQuotationResponse(app *pocketbase.PocketBase, record *core.Record) (*quotationResponse, error) {
	itemRecords, err := quotationLineItems(app, record.Id)
	if err != nil {
		return nil, fmt.Errorf("quotation items: %w", err)
	}

	currency := services.Currency(record.GetString("currency"))

	items := make([]services.LineItem, 0, len(itemRecords))
	resp := &quotationResponse{
		ID:            record.Id,
		QuoteNumber:   record.GetString("quote_number"),
		DisplayNumber: services.StripQuotePrefix(record.GetString("quote_number")),
		ClientName:    record.GetString("client_name"),
		ClientEmail:   record.GetString("client_email"),
		ClientAddress: record.GetString("client_address"),
		TaxRate:       record.GetFloat("tax_rate"),
		DiscountType:  record.GetString("discount_type"),
		DiscountValue: record.GetFloat("discount_value"),
		Notes:         record.GetString("notes"),
		Currency:      string(currency),
		Status:        record.GetString("status"),
		Items:         []lineItemResponse{},
	}

	if dt := record.GetDateTime("valid_until"); !dt.IsZero() {
		resp.ValidUntil = dt.Time().UTC().Format("2006-01-02")
	}
	if dt := record.GetDateTime("created"); !dt.IsZero() {
		resp.Created = dt.Time().UTC().Format("2006-01-02")
	}

	for _, rec := range itemRecords {
		moq := rec.GetInt("moq")
		if moq < 1 {
			moq = 1
		}
		item := services.LineItem{
			ID:              rec.Id,
			SKU:             rec.GetString("sku"),
			Description:     rec.GetString("description"),
			LeadTime:        rec.GetString("lead_time"),
			MOQ:             moq,
			UnitPrice:       decimalFromRecord(rec.GetFloat("unit_price")),
			DiscountPercent: decimalFromRecord(rec.GetFloat("discount_percent")),
			Notes:           rec.GetString("notes"),
		}
		items = append(items, item)

		resp.Items = append(resp.Items, lineItemResponse{
			ID:              rec.Id,
			SKU:             item.SKU,
			Description:     item.Description,
			LeadTime:        item.LeadTime,
			MOQ:             item.MOQ,
			UnitPrice:       rec.GetFloat("unit_price"),
			DiscountPercent: rec.GetFloat("discount_percent"),
			Notes:           item.Notes,
			LineTotal:       services.FormatCurrency(services.LineTotal(item), currency),
		})
	}

	totals := services.CalcQuotationTotals(
		items,
		decimalFromRecord(record.GetFloat("tax_rate")),
		services.DiscountType(record.GetString("discount_type")),
		decimalFromRecord(record.GetFloat("discount_value")),
	)
	resp.Totals = totalsResponse{
		Subtotal:      services.FormatCurrency(totals.Subtotal, currency),
		Discount:      services.FormatCurrency(totals.Discount, currency),
		AfterDiscount: services.FormatCurrency(totals.AfterDiscount, currency),
		Tax:           services.FormatCurrency(totals.Tax, currency),
		Total:         services.FormatCurrency(totals.Total, currency),
	}

	return resp, nil
}

// HandleQuotationView returns a handler serving one quotation with items and
// computed totals.
func HandleQuotationView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return apiError(e, http.StatusBadRequest, "Missing quotation ID")
		}

		record, err := app.FindRecordById("quotations", id)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quotation not found")
		}

		resp, err := buildQuotationResponse(app, record)
		if err != nil {
			log.Printf("quotation_view: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to load quotation")
		}

		return e.JSON(http.StatusOK, resp)
	}
}
