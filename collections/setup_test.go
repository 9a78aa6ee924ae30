package collections_test

import (
	"testing"

	"quotationdesk/collections"
	"quotationdesk/testhelpers"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"quotations",
	"quotation_items",
	"archived_quotations",
	"unsubscribed_emails",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q was recreated: id %q != %q", name, col.Id, ids[name])
		}
	}
}

func TestSetup_QuoteNumberUnique(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	testhelpers.CreateTestQuotation(t, app, "MT010124-DUP-0001", "First")

	dup := testhelpers.CreateTestQuotation(t, app, "MT010124-DUP-0002", "Second")
	dup.Set("quote_number", "MT010124-DUP-0001")
	if err := app.Save(dup); err == nil {
		t.Error("expected unique index violation for duplicate quote_number")
	}
}

func TestSetup_ItemsCascadeWithQuotation(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	q := testhelpers.CreateTestQuotation(t, app, "MT010124-CASC-0001", "Cascade Co")
	item := testhelpers.CreateTestLineItem(t, app, q.Id, 1, "Widget", 1, 10, 0)

	if err := app.Delete(q); err != nil {
		t.Fatalf("delete quotation: %v", err)
	}

	if _, err := app.FindRecordById("quotation_items", item.Id); err == nil {
		t.Error("line item survived quotation deletion; cascade delete not applied")
	}
}
