package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// HandleCatalogList returns a handler serving the cached product catalog for
// line-item autocomplete.
func HandleCatalogList(cache *services.CatalogCache) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		items, fetchedAt, err := cache.Get()
		if err != nil {
			log.Printf("catalog: %v", err)
			return apiError(e, http.StatusBadGateway, "Catalog is unavailable")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"items":     items,
			"fetchedAt": fetchedAt.UTC().Format(time.RFC3339),
		})
	}
}
