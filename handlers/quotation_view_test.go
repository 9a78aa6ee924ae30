package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"quotationdesk/testhelpers"
)

func TestHandleQuotationView(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	q := testhelpers.CreateTestQuotation(t, app, "MT010124-ACME-0001", "Acme Tooling")
	testhelpers.CreateTestLineItem(t, app, q.Id, 2, "Insert holder", 5, 31.50, 0)
	testhelpers.CreateTestLineItem(t, app, q.Id, 1, "Carbide insert", 50, 4.80, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/quotations/"+q.Id, nil)
	req.SetPathValue("id", q.Id)
	rec := httptest.NewRecorder()

	if err := HandleQuotationView(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp quotationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.DisplayNumber != "MT010124-ACME-0001" {
		t.Errorf("displayNumber = %q", resp.DisplayNumber)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(resp.Items))
	}
	if resp.Items[0].Description != "Carbide insert" {
		t.Errorf("first item = %q, not sorted by sort_order", resp.Items[0].Description)
	}
	if resp.Items[0].LineTotal != "$216.00" {
		t.Errorf("first line total = %q, want $216.00", resp.Items[0].LineTotal)
	}
	if resp.Totals.Subtotal != "$373.50" {
		t.Errorf("subtotal = %q, want $373.50", resp.Totals.Subtotal)
	}
	// 17% tax on the full subtotal (zero discount).
	if resp.Totals.Total != "$437.00" {
		t.Errorf("total = %q, want $437.00", resp.Totals.Total)
	}
}

func TestHandleQuotationView_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/quotations/missing", nil)
	req.SetPathValue("id", "missing0000id00")
	rec := httptest.NewRecorder()

	if err := HandleQuotationView(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleQuotationList(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	a := testhelpers.CreateTestQuotation(t, app, "MT010124-AAAA-0001", "Alpha")
	testhelpers.CreateTestLineItem(t, app, a.Id, 1, "Widget", 2, 100, 0)
	testhelpers.CreateTestQuotation(t, app, "MT010124-BBBB-0001", "Beta")

	req := httptest.NewRequest(http.MethodGet, "/api/quotations", nil)
	rec := httptest.NewRecorder()

	if err := HandleQuotationList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Quotations []quotationSummary `json:"quotations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.Quotations) != 2 {
		t.Fatalf("quotations = %d, want 2", len(resp.Quotations))
	}

	byNumber := make(map[string]quotationSummary)
	for _, s := range resp.Quotations {
		byNumber[s.QuoteNumber] = s
	}
	alpha := byNumber["MT010124-AAAA-0001"]
	// 2 × $100 with 17% tax.
	if alpha.Total != "$234.00" {
		t.Errorf("alpha total = %q, want $234.00", alpha.Total)
	}
	if alpha.ItemCount != 1 {
		t.Errorf("alpha itemCount = %d, want 1", alpha.ItemCount)
	}
	beta := byNumber["MT010124-BBBB-0001"]
	if beta.Total != "$0.00" {
		t.Errorf("beta total = %q, want $0.00", beta.Total)
	}
}
