// Package handlers wires the quotation JSON API to the services package.
package handlers

import (
	"fmt"
	"math"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"quotationdesk/services"
)

// decimalFromRecord converts a stored float field to a decimal, treating
// NaN/Inf as zero.
func decimalFromRecord(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// apiError writes a JSON error body with the given status.
func apiError(e *core.RequestEvent, status int, msg string) error {
	return e.JSON(status, map[string]string{"error": msg})
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// existingQuoteNumbers returns every quote number currently in use, across
// both active and archived quotations. Freshly generated numbers must not
// collide with either set.
func existingQuoteNumbers(app *pocketbase.PocketBase) (map[string]struct{}, error) {
	existing := make(map[string]struct{})

	active, err := app.FindAllRecords("quotations")
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	for _, rec := range active {
		existing[rec.GetString("quote_number")] = struct{}{}
	}

	archived, err := app.FindAllRecords("archived_quotations")
	if err != nil {
		return nil, fmt.Errorf("list archived quotations: %w", err)
	}
	for _, rec := range archived {
		existing[rec.GetString("quote_number")] = struct{}{}
	}

	return existing, nil
}

// saveLineItems persists the submitted items for a quotation, numbering
// sort_order from 1 in submission order. Callers run it inside a transaction
// together with the parent quotation write.
func saveLineItems(app core.App, quotationID string, items []services.LineItemInput) error {
	col, err := app.FindCollectionByNameOrId("quotation_items")
	if err != nil {
		return fmt.Errorf("quotation_items collection: %w", err)
	}

	for i, item := range items {
		record := core.NewRecord(col)
		record.Set("quotation", quotationID)
		record.Set("sort_order", i+1)
		record.Set("sku", item.SKU)
		record.Set("description", item.Description)
		record.Set("lead_time", item.LeadTime)
		record.Set("moq", item.MOQ)
		record.Set("unit_price", item.UnitPrice)
		record.Set("discount_percent", item.DiscountPercent)
		record.Set("notes", item.Notes)

		if err := app.Save(record); err != nil {
			return fmt.Errorf("save item %d: %w", i+1, err)
		}
	}

	return nil
}

// deleteLineItems removes all items belonging to a quotation. Updates replace
// the item set wholesale rather than diffing.
func deleteLineItems(app core.App, quotationID string) error {
	records, err := app.FindRecordsByFilter(
		"quotation_items",
		"quotation = {:quotationId}",
		"",
		0,
		0,
		map[string]any{"quotationId": quotationID},
	)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}

	for _, rec := range records {
		if err := app.Delete(rec); err != nil {
			return fmt.Errorf("delete item %s: %w", rec.Id, err)
		}
	}

	return nil
}

// setQuotationFields copies the mutable input fields onto a quotation record.
// The quote number is never part of the payload.
func setQuotationFields(record *core.Record, input services.QuotationInput) {
	record.Set("client_name", input.ClientName)
	record.Set("client_email", input.ClientEmail)
	record.Set("client_address", input.ClientAddress)
	record.Set("tax_rate", input.TaxRate)
	record.Set("discount_type", input.DiscountType)
	record.Set("discount_value", input.DiscountValue)
	record.Set("notes", input.Notes)
	record.Set("currency", input.Currency)
	record.Set("valid_until", input.ValidUntil.UTC())
}

// quotationLineItems loads a quotation's item records in display order.
func quotationLineItems(app *pocketbase.PocketBase, quotationID string) ([]*core.Record, error) {
	return app.FindRecordsByFilter(
		"quotation_items",
		"quotation = {:quotationId}",
		"sort_order",
		0,
		0,
		map[string]any{"quotationId": quotationID},
	)
}
