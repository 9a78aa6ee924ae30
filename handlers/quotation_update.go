package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// HandleQuotationUpdate returns a handler for full-record updates. The item
// set is replaced wholesale; the quote number never changes.
func HandleQuotationUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return apiError(e, http.StatusBadRequest, "Missing quotation ID")
		}

		record, err := app.FindRecordById("quotations", id)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quotation not found")
		}

		var input services.QuotationInput
		if err := e.BindBody(&input); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		if err := input.Validate(); err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		setQuotationFields(record, input)

		// The wholesale item replacement commits with the record update so a
		// mid-sequence failure cannot strip a quotation of its items.
		err = app.RunInTransaction(func(txApp core.App) error {
			if err := txApp.Save(record); err != nil {
				return err
			}
			if err := deleteLineItems(txApp, record.Id); err != nil {
				return err
			}
			return saveLineItems(txApp, record.Id, input.Items)
		})
		if err != nil {
			log.Printf("quotation_update: could not save quotation %s: %v", id, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		resp, err := buildQuotationResponse(app, record)
		if err != nil {
			log.Printf("quotation_update: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, resp)
	}
}

// HandleQuotationStatus returns a handler that updates only the lifecycle
// status. Any transition between valid statuses is allowed.
func HandleQuotationStatus(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return apiError(e, http.StatusBadRequest, "Missing quotation ID")
		}

		record, err := app.FindRecordById("quotations", id)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quotation not found")
		}

		var input struct {
			Status string `json:"status"`
		}
		if err := e.BindBody(&input); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		valid := false
		for _, s := range services.QuotationStatuses {
			if input.Status == string(s) {
				valid = true
				break
			}
		}
		if !valid {
			return apiError(e, http.StatusBadRequest, "Invalid status")
		}

		record.Set("status", input.Status)
		if err := app.Save(record); err != nil {
			log.Printf("quotation_status: could not save quotation %s: %v", id, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, map[string]string{"id": record.Id, "status": input.Status})
	}
}
