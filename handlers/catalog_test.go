package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quotationdesk/services"
	"quotationdesk/testhelpers"
)

func TestHandleCatalogList(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	cache := services.NewCatalogCache(time.Minute, func() ([]services.CatalogItem, error) {
		return []services.CatalogItem{
			{SKU: "MT-9", Description: "Countersink"},
			{SKU: "MT-10", Description: "Deburring blade"},
		}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	rec := httptest.NewRecorder()

	if err := HandleCatalogList(cache)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Items     []services.CatalogItem `json:"items"`
		FetchedAt string                 `json:"fetchedAt"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 2 || resp.Items[0].SKU != "MT-9" {
		t.Errorf("items = %+v", resp.Items)
	}
	if resp.FetchedAt == "" {
		t.Error("fetchedAt is empty")
	}
}

func TestHandleCatalogList_UpstreamDown(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	cache := services.NewCatalogCache(time.Minute, func() ([]services.CatalogItem, error) {
		return nil, errors.New("upstream down")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	rec := httptest.NewRecorder()

	if err := HandleCatalogList(cache)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}
