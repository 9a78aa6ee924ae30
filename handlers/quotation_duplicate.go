package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// HandleQuotationDuplicate returns a handler that copies a quotation and its
// items into a fresh draft. The copy gets a newly generated quote number; no
// copy marker is added anywhere.
func HandleQuotationDuplicate(app *pocketbase.PocketBase, gen *services.QuoteNumberGenerator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return apiError(e, http.StatusBadRequest, "Missing quotation ID")
		}

		source, err := app.FindRecordById("quotations", id)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quotation not found")
		}

		itemRecords, err := quotationLineItems(app, id)
		if err != nil {
			log.Printf("quotation_duplicate: items for %s: %v", id, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		existing, err := existingQuoteNumbers(app)
		if err != nil {
			log.Printf("quotation_duplicate: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		quoteNumber, err := gen.Generate(source.GetString("client_name"), existing)
		if err != nil {
			log.Printf("quotation_duplicate: could not generate quote number: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		col, err := app.FindCollectionByNameOrId("quotations")
		if err != nil {
			log.Printf("quotation_duplicate: could not find quotations collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		copyRecord := core.NewRecord(col)
		copyRecord.Set("quote_number", quoteNumber)
		copyRecord.Set("status", string(services.StatusDraft))
		copyRecord.Set("client_name", source.GetString("client_name"))
		copyRecord.Set("client_email", source.GetString("client_email"))
		copyRecord.Set("client_address", source.GetString("client_address"))
		copyRecord.Set("tax_rate", source.GetFloat("tax_rate"))
		copyRecord.Set("discount_type", source.GetString("discount_type"))
		copyRecord.Set("discount_value", source.GetFloat("discount_value"))
		copyRecord.Set("notes", source.GetString("notes"))
		copyRecord.Set("currency", source.GetString("currency"))
		copyRecord.Set("valid_until", source.GetDateTime("valid_until"))

		itemsCol, err := app.FindCollectionByNameOrId("quotation_items")
		if err != nil {
			log.Printf("quotation_duplicate: could not find quotation_items collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		// The copy and its items commit together.
		err = app.RunInTransaction(func(txApp core.App) error {
			if err := txApp.Save(copyRecord); err != nil {
				return err
			}
			for _, src := range itemRecords {
				itemCopy := core.NewRecord(itemsCol)
				itemCopy.Set("quotation", copyRecord.Id)
				itemCopy.Set("sort_order", src.GetInt("sort_order"))
				itemCopy.Set("sku", src.GetString("sku"))
				itemCopy.Set("description", src.GetString("description"))
				itemCopy.Set("lead_time", src.GetString("lead_time"))
				itemCopy.Set("moq", src.GetInt("moq"))
				itemCopy.Set("unit_price", src.GetFloat("unit_price"))
				itemCopy.Set("discount_percent", src.GetFloat("discount_percent"))
				itemCopy.Set("notes", src.GetString("notes"))

				if err := txApp.Save(itemCopy); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("quotation_duplicate: could not copy %s: %v", id, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		resp, err := buildQuotationResponse(app, copyRecord)
		if err != nil {
			log.Printf("quotation_duplicate: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusCreated, resp)
	}
}
