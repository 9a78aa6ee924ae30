package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quotationdesk/services"
	"quotationdesk/testhelpers"
)

func exportRenderer() *services.PDFRenderer {
	return &services.PDFRenderer{
		Footer: services.CompanyFooter{
			Name:    "Noga Engineering & Technology Ltd.",
			Address: "Hakryia 1, Dora Industrial Area, 2283201, Shlomi, Israel",
			Website: "www.nogamt.com",
		},
	}
}

func TestHandleQuotationExportPDF(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	q := testhelpers.CreateTestQuotation(t, app, "MT010124-ACME-0001", "Acme Tooling")
	testhelpers.CreateTestLineItem(t, app, q.Id, 1, "Carbide insert", 50, 4.80, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/quotations/"+q.Id+"/export/pdf", nil)
	req.SetPathValue("id", q.Id)
	rec := httptest.NewRecorder()

	handler := HandleQuotationExportPDF(app, exportRenderer())
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, `filename="MT010124-ACME-0001.pdf"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body does not start with %PDF- header")
	}
}

func TestHandleQuotationExportPDF_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/quotations/x/export/pdf", nil)
	req.SetPathValue("id", "missing0000id00")
	rec := httptest.NewRecorder()

	handler := HandleQuotationExportPDF(app, exportRenderer())
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleQuotationExportExcel(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	q := testhelpers.CreateTestQuotation(t, app, "MT010124-ACME-0001", "Acme Tooling")
	testhelpers.CreateTestLineItem(t, app, q.Id, 1, "Carbide insert", 50, 4.80, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/quotations/"+q.Id+"/export/excel", nil)
	req.SetPathValue("id", q.Id)
	rec := httptest.NewRecorder()

	if err := HandleQuotationExportExcel(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "MT010124-ACME-0001.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	// XLSX is a ZIP container.
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("body is not a ZIP container")
	}
}
