// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestQuotation creates a quotation record with sensible defaults and returns it.
func CreateTestQuotation(t *testing.T, app *pocketbase.PocketBase, quoteNumber, clientName string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		t.Fatalf("failed to find quotations collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quote_number", quoteNumber)
	record.Set("client_name", clientName)
	record.Set("client_email", "buyer@example.com")
	record.Set("client_address", "1 Harbour Way\nRotterdam")
	record.Set("currency", "USD")
	record.Set("status", "draft")
	record.Set("tax_rate", 17.0)
	record.Set("discount_type", "percentage")
	record.Set("discount_value", 0.0)
	record.Set("valid_until", time.Now().AddDate(0, 0, 30).UTC())

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quotation: %v", err)
	}

	return record
}

// CreateTestLineItem creates a quotation item record linked to a quotation.
func CreateTestLineItem(t *testing.T, app *pocketbase.PocketBase, quotationID string, sortOrder int, description string, moq int, unitPrice, discountPercent float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotation_items")
	if err != nil {
		t.Fatalf("failed to find quotation_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quotation", quotationID)
	record.Set("sort_order", sortOrder)
	record.Set("sku", "SKU-001")
	record.Set("description", description)
	record.Set("lead_time", "4")
	record.Set("moq", moq)
	record.Set("unit_price", unitPrice)
	record.Set("discount_percent", discountPercent)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test line item: %v", err)
	}

	return record
}

// CreateTestArchivedQuotation creates an archived snapshot record.
func CreateTestArchivedQuotation(t *testing.T, app *pocketbase.PocketBase, quoteNumber, clientName string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("archived_quotations")
	if err != nil {
		t.Fatalf("failed to find archived_quotations collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("original_id", "orig000000here0")
	record.Set("quote_number", quoteNumber)
	record.Set("client_name", clientName)
	record.Set("client_email", "buyer@example.com")
	record.Set("currency", "USD")
	record.Set("status", "sent")
	record.Set("tax_rate", 17.0)
	record.Set("discount_type", "percentage")
	record.Set("discount_value", 0.0)
	record.Set("items", `[]`)
	record.Set("archived_by", "tests")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test archived quotation: %v", err)
	}

	return record
}

// AssertJSONContains checks that body contains all specified fragments.
func AssertJSONContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected response to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
