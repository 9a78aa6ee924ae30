package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// archivedSummary is the list shape for archived snapshots.
type archivedSummary struct {
	ID          string `json:"id"`
	OriginalID  string `json:"originalId"`
	QuoteNumber string `json:"quoteNumber"`
	ClientName  string `json:"clientName"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	ArchivedAt  string `json:"archivedAt"`
	ArchivedBy  string `json:"archivedBy"`
}

// HandleQuotationArchive returns a handler that snapshots a quotation into
// archived_quotations, items embedded as JSON, and removes it from the active
// set.
func HandleQuotationArchive(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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
			ArchivedBy string `json:"archivedBy"`
		}
		// The body is optional; archiving without attribution is fine.
		_ = e.BindBody(&input)

		itemRecords, err := quotationLineItems(app, id)
		if err != nil {
			log.Printf("quotation_archive: items for %s: %v", id, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		items := make([]services.LineItemInput, 0, len(itemRecords))
		for _, rec := range itemRecords {
			items = append(items, services.LineItemInput{
				SKU:             rec.GetString("sku"),
				Description:     rec.GetString("description"),
				LeadTime:        rec.GetString("lead_time"),
				MOQ:             rec.GetInt("moq"),
				UnitPrice:       rec.GetFloat("unit_price"),
				DiscountPercent: rec.GetFloat("discount_percent"),
				Notes:           rec.GetString("notes"),
			})
		}

		itemsJSON, err := json.Marshal(items)
		if err != nil {
			log.Printf("quotation_archive: marshal items for %s: %v", id, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		col, err := app.FindCollectionByNameOrId("archived_quotations")
		if err != nil {
			log.Printf("quotation_archive: could not find archived_quotations collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		snapshot := core.NewRecord(col)
		snapshot.Set("original_id", record.Id)
		snapshot.Set("quote_number", record.GetString("quote_number"))
		snapshot.Set("client_name", record.GetString("client_name"))
		snapshot.Set("client_email", record.GetString("client_email"))
		snapshot.Set("client_address", record.GetString("client_address"))
		snapshot.Set("items", string(itemsJSON))
		snapshot.Set("tax_rate", record.GetFloat("tax_rate"))
		snapshot.Set("discount_type", record.GetString("discount_type"))
		snapshot.Set("discount_value", record.GetFloat("discount_value"))
		snapshot.Set("notes", record.GetString("notes"))
		snapshot.Set("currency", record.GetString("currency"))
		snapshot.Set("status", record.GetString("status"))
		snapshot.Set("valid_until", record.GetDateTime("valid_until"))
		snapshot.Set("original_created", record.GetDateTime("created"))
		snapshot.Set("archived_by", input.ArchivedBy)

		// Snapshot insert and original delete commit together; a quotation is
		// never both active and archived.
		err = app.RunInTransaction(func(txApp core.App) error {
			if err := txApp.Save(snapshot); err != nil {
				return err
			}
			return txApp.Delete(record)
		})
		if err != nil {
			log.Printf("quotation_archive: could not archive %s: %v", id, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, map[string]string{"id": snapshot.Id, "originalId": id})
	}
}

// HandleArchivedList returns a handler serving all archived snapshots,
// newest first.
func HandleArchivedList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("archived_quotations", "id != ''", "-archived_at", 0, 0)
		if err != nil {
			log.Printf("archived_list: could not query archived_quotations: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to load archive")
		}

		summaries := make([]archivedSummary, 0, len(records))
		for _, rec := range records {
			summary := archivedSummary{
				ID:          rec.Id,
				OriginalID:  rec.GetString("original_id"),
				QuoteNumber: rec.GetString("quote_number"),
				ClientName:  rec.GetString("client_name"),
				Currency:    rec.GetString("currency"),
				Status:      rec.GetString("status"),
				ArchivedBy:  rec.GetString("archived_by"),
			}
			if dt := rec.GetDateTime("archived_at"); !dt.IsZero() {
				summary.ArchivedAt = dt.Time().UTC().Format("2006-01-02")
			}
			summaries = append(summaries, summary)
		}

		return e.JSON(http.StatusOK, map[string]any{"archived": summaries})
	}
}

// HandleQuotationRestore returns a handler that rebuilds an active quotation
// from an archived snapshot and removes the snapshot. The restored record
// keeps its quote number but gets a fresh ID.
func HandleQuotationRestore(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return apiError(e, http.StatusBadRequest, "Missing archive ID")
		}

		snapshot, err := app.FindRecordById("archived_quotations", id)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Archived quotation not found")
		}

		var items []services.LineItemInput
		if raw := snapshot.GetString("items"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &items); err != nil {
				log.Printf("quotation_restore: bad items JSON on %s: %v", id, err)
				return apiError(e, http.StatusInternalServerError, "Archived items are unreadable")
			}
		}

		col, err := app.FindCollectionByNameOrId("quotations")
		if err != nil {
			log.Printf("quotation_restore: could not find quotations collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("quote_number", snapshot.GetString("quote_number"))
		record.Set("client_name", snapshot.GetString("client_name"))
		record.Set("client_email", snapshot.GetString("client_email"))
		record.Set("client_address", snapshot.GetString("client_address"))
		record.Set("tax_rate", snapshot.GetFloat("tax_rate"))
		record.Set("discount_type", snapshot.GetString("discount_type"))
		record.Set("discount_value", snapshot.GetFloat("discount_value"))
		record.Set("notes", snapshot.GetString("notes"))
		record.Set("currency", snapshot.GetString("currency"))
		record.Set("status", snapshot.GetString("status"))
		record.Set("valid_until", snapshot.GetDateTime("valid_until"))
		record.Set("original_id", snapshot.GetString("original_id"))

		err = app.RunInTransaction(func(txApp core.App) error {
			if err := txApp.Save(record); err != nil {
				return err
			}
			if err := saveLineItems(txApp, record.Id, items); err != nil {
				return err
			}
			return txApp.Delete(snapshot)
		})
		if err != nil {
			log.Printf("quotation_restore: could not restore %s: %v", id, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		resp, err := buildQuotationResponse(app, record)
		if err != nil {
			log.Printf("quotation_restore: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, resp)
	}
}

// HandleArchivedPurge returns a handler that permanently deletes an archived
// snapshot.
func HandleArchivedPurge(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return apiError(e, http.StatusBadRequest, "Missing archive ID")
		}

		snapshot, err := app.FindRecordById("archived_quotations", id)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Archived quotation not found")
		}

		if err := app.Delete(snapshot); err != nil {
			log.Printf("archived_purge: could not delete %s: %v", id, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, map[string]string{"id": id, "deleted": "true"})
	}
}
