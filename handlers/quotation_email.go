package handlers

import (
	"fmt"
	"html"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// emailInput is the optional send payload. Every field falls back to a value
// derived from the quotation itself.
type emailInput struct {
	RecipientEmail string `json:"recipientEmail"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
}

// isUnsubscribed reports whether the address has opted out of email.
func isUnsubscribed(app *pocketbase.PocketBase, email string) bool {
	records, err := app.FindRecordsByFilter(
		"unsubscribed_emails",
		"email = {:email}",
		"",
		1,
		0,
		map[string]any{"email": strings.ToLower(strings.TrimSpace(email))},
	)
	if err != nil {
		log.Printf("quotation_email: unsubscribe lookup for %s: %v", email, err)
		return false
	}
	return len(records) > 0
}

// HandleQuotationEmail returns a handler that renders the quotation PDF and
// emails it to the client. A failed send is reported in the response body,
// not as an HTTP error.
func HandleQuotationEmail(app *pocketbase.PocketBase, renderer services.DocumentRenderer, deliverer services.Deliverer) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return apiError(e, http.StatusBadRequest, "Missing quotation ID")
		}

		record, err := app.FindRecordById("quotations", id)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quotation not found")
		}

		var input emailInput
		_ = e.BindBody(&input)

		recipient := strings.TrimSpace(input.RecipientEmail)
		if recipient == "" {
			recipient = record.GetString("client_email")
		}
		if recipient == "" {
			return apiError(e, http.StatusBadRequest, "No recipient email")
		}

		if isUnsubscribed(app, recipient) {
			return apiError(e, http.StatusConflict, "Recipient has unsubscribed from emails")
		}

		data, err := services.BuildQuotationExportData(app, id)
		if err != nil {
			log.Printf("quotation_email: failed to build data: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to load quotation")
		}

		pdfBytes, err := renderer.Render(data)
		if err != nil {
			log.Printf("quotation_email: failed to generate PDF: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate PDF")
		}

		subject := strings.TrimSpace(input.Subject)
		if subject == "" {
			subject = fmt.Sprintf("Quotation %s", data.DisplayNumber())
		}

		body := emailBody(data, input.Message)

		result := deliverer.Deliver(pdfBytes, data.FileName(), services.DeliveryOptions{
			RecipientEmail: recipient,
			RecipientName:  data.ClientName,
			Subject:        subject,
			Body:           body,
		})

		if result.Success {
			record.Set("status", string(services.StatusSent))
			if err := app.Save(record); err != nil {
				log.Printf("quotation_email: could not mark %s as sent: %v", id, err)
			}
		}

		return e.JSON(http.StatusOK, result)
	}
}

// emailBody builds the HTML message. User-supplied fields are escaped; the
// custom message keeps its line breaks.
func emailBody(data *services.QuotationExportData, message string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<p>Dear %s,</p>", html.EscapeString(data.ClientName))
	if msg := strings.TrimSpace(message); msg != "" {
		escaped := strings.ReplaceAll(html.EscapeString(msg), "\n", "<br>")
		fmt.Fprintf(&b, "<p>%s</p>", escaped)
	} else {
		fmt.Fprintf(&b, "<p>Please find attached quotation <strong>%s</strong> totaling %s.</p>",
			html.EscapeString(data.DisplayNumber()), html.EscapeString(data.Total))
	}
	if data.ValidUntilDate != "" {
		fmt.Fprintf(&b, "<p>This quotation is valid until %s.</p>", html.EscapeString(data.ValidUntilDate))
	}
	b.WriteString("<p>Best regards</p>")

	return b.String()
}

// HandleUnsubscribe returns a handler that records an email opt-out.
// Repeated unsubscribes are a no-op.
func HandleUnsubscribe(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var input struct {
			Email string `json:"email"`
		}
		if err := e.BindBody(&input); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))
		if email == "" {
			return apiError(e, http.StatusBadRequest, "Missing email")
		}

		if isUnsubscribed(app, email) {
			return e.JSON(http.StatusOK, map[string]string{"email": email, "status": "unsubscribed"})
		}

		col, err := app.FindCollectionByNameOrId("unsubscribed_emails")
		if err != nil {
			log.Printf("unsubscribe: could not find unsubscribed_emails collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("email", email)
		if err := app.Save(record); err != nil {
			log.Printf("unsubscribe: could not save %s: %v", email, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, map[string]string{"email": email, "status": "unsubscribed"})
	}
}
