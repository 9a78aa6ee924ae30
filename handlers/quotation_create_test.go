package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"quotationdesk/services"
	"quotationdesk/testhelpers"
)

const createPayload = `{
	"clientName": "Acme Tooling",
	"clientEmail": "purchasing@acme-tooling.example",
	"clientAddress": "14 Mill Road\nSheffield",
	"taxRate": 17,
	"discountType": "percentage",
	"discountValue": 5,
	"currency": "USD",
	"validUntil": "2026-10-01T00:00:00Z",
	"items": [
		{"sku": "MT-0402-R", "description": "Carbide insert", "leadTime": "3-4", "moq": 50, "unitPrice": 4.8, "discountPercent": 10},
		{"sku": "MT-HOLD-12", "description": "Insert holder", "moq": 5, "unitPrice": 31.5}
	]
}`

func postJSON(path, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req, httptest.NewRecorder()
}

func TestHandleQuotationCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleQuotationCreate(app, services.NewQuoteNumberGenerator())

	req, rec := postJSON("/api/quotations", createPayload)
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp struct {
		ID          string `json:"id"`
		QuoteNumber string `json:"quoteNumber"`
		Status      string `json:"status"`
		Items       []struct {
			Description string `json:"description"`
		} `json:"items"`
		Totals struct {
			Subtotal string `json:"subtotal"`
			Total    string `json:"total"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	pattern := regexp.MustCompile(`^MT\d{6}-ACMETOOLING-[A-Z0-9]{4}$`)
	if !pattern.MatchString(resp.QuoteNumber) {
		t.Errorf("quoteNumber = %q, does not match %s", resp.QuoteNumber, pattern)
	}
	if resp.Status != "draft" {
		t.Errorf("status = %q, want draft", resp.Status)
	}
	if len(resp.Items) != 2 || resp.Items[0].Description != "Carbide insert" {
		t.Errorf("items = %+v, want both items in submission order", resp.Items)
	}
	// 50*4.80 less 10% = 216.00, plus 5*31.50 = 157.50.
	if resp.Totals.Subtotal != "$373.50" {
		t.Errorf("subtotal = %q, want $373.50", resp.Totals.Subtotal)
	}

	record, err := app.FindRecordById("quotations", resp.ID)
	if err != nil {
		t.Fatalf("created record not found: %v", err)
	}
	if record.GetString("client_name") != "Acme Tooling" {
		t.Errorf("stored client_name = %q", record.GetString("client_name"))
	}
}

func TestHandleQuotationCreate_ValidationFailure(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleQuotationCreate(app, services.NewQuoteNumberGenerator())

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"no items", `{"clientName":"A","clientEmail":"a@b.c","currency":"USD","validUntil":"2026-10-01T00:00:00Z","items":[]}`},
		{"bad currency", strings.Replace(createPayload, `"USD"`, `"XTS"`, 1)},
		{"moq zero", strings.Replace(createPayload, `"moq": 50`, `"moq": 0`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := postJSON("/api/quotations", tt.body)
			if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d; body: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
		})
	}

	records, err := app.FindAllRecords("quotations")
	if err != nil {
		t.Fatalf("query quotations: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("invalid payloads persisted %d quotations", len(records))
	}
}
