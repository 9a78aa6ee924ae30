package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// HandleQuotationCreate returns a handler that validates the payload,
// generates a quote number unique across active and archived quotations, and
// persists the record with its line items.
func HandleQuotationCreate(app *pocketbase.PocketBase, gen *services.QuoteNumberGenerator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var input services.QuotationInput
		if err := e.BindBody(&input); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		if err := input.Validate(); err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		existing, err := existingQuoteNumbers(app)
		if err != nil {
			log.Printf("quotation_create: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		quoteNumber, err := gen.Generate(input.ClientName, existing)
		if err != nil {
			log.Printf("quotation_create: could not generate quote number: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		col, err := app.FindCollectionByNameOrId("quotations")
		if err != nil {
			log.Printf("quotation_create: could not find quotations collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("quote_number", quoteNumber)
		record.Set("status", string(services.StatusDraft))
		setQuotationFields(record, input)

		// The quotation and its items commit together; a failed item save
		// must not leave an itemless quotation behind.
		err = app.RunInTransaction(func(txApp core.App) error {
			if err := txApp.Save(record); err != nil {
				return err
			}
			return saveLineItems(txApp, record.Id, input.Items)
		})
		if err != nil {
			log.Printf("quotation_create: could not save quotation: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		resp, err := buildQuotationResponse(app, record)
		if err != nil {
			log.Printf("quotation_create: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusCreated, resp)
	}
}
