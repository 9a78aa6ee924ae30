package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// quotationSummary is the list-view shape: identity, client and a formatted
// grand total, without the item rows.
type quotationSummary struct {
	ID            string `json:"id"`
	QuoteNumber   string `json:"quoteNumber"`
	DisplayNumber string `json:"displayNumber"`
	ClientName    string `json:"clientName"`
	ClientEmail   string `json:"clientEmail"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	Created       string `json:"created"`
	ValidUntil    string `json:"validUntil"`
	ItemCount     int    `json:"itemCount"`
	Total         string `json:"total"`
}

// HandleQuotationList returns a handler serving all quotations, newest first,
// with totals recomputed from the stored items.
func HandleQuotationList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("quotations", "id != ''", "-created", 0, 0)
		if err != nil {
			log.Printf("quotation_list: could not query quotations: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to load quotations")
		}

		summaries := make([]quotationSummary, 0, len(records))
		for _, record := range records {
			itemRecords, err := quotationLineItems(app, record.Id)
			if err != nil {
				log.Printf("quotation_list: items for %s: %v", record.Id, err)
				itemRecords = nil
			}

			currency := services.Currency(record.GetString("currency"))

			items := make([]services.LineItem, 0, len(itemRecords))
			for _, rec := range itemRecords {
				moq := rec.GetInt("moq")
				if moq < 1 {
					moq = 1
				}
				items = append(items, services.LineItem{
					MOQ:             moq,
					UnitPrice:       decimalFromRecord(rec.GetFloat("unit_price")),
					DiscountPercent: decimalFromRecord(rec.GetFloat("discount_percent")),
				})
			}

			total := services.Total(
				items,
				decimalFromRecord(record.GetFloat("tax_rate")),
				services.DiscountType(record.GetString("discount_type")),
				decimalFromRecord(record.GetFloat("discount_value")),
			)

			summary := quotationSummary{
				ID:            record.Id,
				QuoteNumber:   record.GetString("quote_number"),
				DisplayNumber: services.StripQuotePrefix(record.GetString("quote_number")),
				ClientName:    record.GetString("client_name"),
				ClientEmail:   record.GetString("client_email"),
				Currency:      string(currency),
				Status:        record.GetString("status"),
				ItemCount:     len(items),
				Total:         services.FormatCurrency(total, currency),
			}
			if dt := record.GetDateTime("created"); !dt.IsZero() {
				summary.Created = dt.Time().UTC().Format("2006-01-02")
			}
			if dt := record.GetDateTime("valid_until"); !dt.IsZero() {
				summary.ValidUntil = dt.Time().UTC().Format("2006-01-02")
			}

			summaries = append(summaries, summary)
		}

		return e.JSON(http.StatusOK, map[string]any{"quotations": summaries})
	}
}
