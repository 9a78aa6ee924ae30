package services

import (
	"fmt"
	"html"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
)

const (
	// Follow-up window: a quotation becomes eligible one week after it was
	// created and stops being chased after six weeks.
	reminderMinAge = 7 * 24 * time.Hour
	reminderMaxAge = 42 * 24 * time.Hour

	// Cooldown between reminders for the same quotation.
	reminderCooldown = 7 * 24 * time.Hour
)

// ReminderDue reports whether a follow-up reminder should be sent for a
// quotation in the given state at the given instant.
func ReminderDue(now, createdAt time.Time, status Status, lastReminder time.Time) bool {
	if status == StatusAccepted {
		return false
	}

	age := now.Sub(createdAt)
	if age < reminderMinAge || age > reminderMaxAge {
		return false
	}

	if !lastReminder.IsZero() && now.Sub(lastReminder) < reminderCooldown {
		return false
	}

	return true
}

// SendDueReminders scans active quotations, emails a reminder with the
// rendered PDF attached for each one that is due, and stamps
// reminder_sent_at. Per-quotation failures are logged and skipped so one bad
// record cannot stall the rest of the batch. Returns the number of reminders
// sent.
func SendDueReminders(app *pocketbase.PocketBase, renderer DocumentRenderer, deliverer Deliverer, now time.Time) (int, error) {
	records, err := app.FindAllRecords("quotations")
	if err != nil {
		return 0, fmt.Errorf("list quotations: %w", err)
	}

	sent := 0
	for _, record := range records {
		created := record.GetDateTime("created").Time()
		lastReminder := record.GetDateTime("reminder_sent_at").Time()
		status := Status(record.GetString("status"))

		if !ReminderDue(now, created, status, lastReminder) {
			continue
		}

		data, err := BuildQuotationExportData(app, record.Id)
		if err != nil {
			log.Printf("reminders: build data for %s: %v", record.Id, err)
			continue
		}

		pdf, err := renderer.Render(data)
		if err != nil {
			log.Printf("reminders: render %s: %v", record.Id, err)
			continue
		}

		result := deliverer.Deliver(pdf, data.FileName(), DeliveryOptions{
			RecipientEmail: data.ClientEmail,
			RecipientName:  data.ClientName,
			Subject:        fmt.Sprintf("Reminder: Quotation %s", data.DisplayNumber()),
			Body: fmt.Sprintf(
				"<p>Dear %s,</p><p>This is a friendly reminder about quotation <strong>%s</strong> totaling %s, valid until %s.</p>",
				html.EscapeString(data.ClientName), html.EscapeString(data.DisplayNumber()),
				html.EscapeString(data.Total), html.EscapeString(data.ValidUntilDate),
			),
		})
		if !result.Success {
			log.Printf("reminders: deliver %s: %s", record.Id, result.Error)
			continue
		}

		record.Set("reminder_sent_at", now.UTC())
		if err := app.Save(record); err != nil {
			log.Printf("reminders: stamp %s: %v", record.Id, err)
			continue
		}
		sent++
	}

	return sent, nil
}
