package main

import (
	"log"
	"net/mail"
	"os"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/collections"
	"quotationdesk/handlers"
	"quotationdesk/services"
)

const (
	catalogBaseURL = "https://raw.githubusercontent.com/nogamt/catalog/main"
	catalogTTL     = 15 * time.Minute
)

// catalogPaths are tried in order; the catalog repo has moved its data file
// before.
var catalogPaths = []string{
	"catalog.json",
	"data/catalog.json",
}

func main() {
	app := pocketbase.New()

	quoteNumbers := services.NewQuoteNumberGenerator()

	footer := services.CompanyFooter{
		Name:    "Noga Engineering & Technology Ltd.",
		Address: "Hakryia 1, Dora Industrial Area, 2283201, Shlomi, Israel",
		Website: "www.nogamt.com",
	}

	leftLogo := os.Getenv("QUOTE_LOGO_LEFT")
	if leftLogo == "" {
		leftLogo = "static/logo_left.png"
	}
	rightLogo := os.Getenv("QUOTE_LOGO_RIGHT")
	if rightLogo == "" {
		rightLogo = "static/logo_right.png"
	}
	left, right := services.LoadRendererLogos(leftLogo, rightLogo)

	renderer := &services.PDFRenderer{
		Footer:    footer,
		LogoLeft:  left,
		LogoRight: right,
	}

	catalog := services.NewCatalogCache(catalogTTL, func() ([]services.CatalogItem, error) {
		return services.FetchPublishedCatalog(nil, catalogBaseURL, catalogPaths)
	})

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		deliverer := services.NewMailDelivery(app.NewMailClient(), mail.Address{
			Name:    app.Settings().Meta.SenderName,
			Address: app.Settings().Meta.SenderAddress,
		})

		// ── Quotation CRUD ───────────────────────────────────────
		se.Router.GET("/api/quotations", handlers.HandleQuotationList(app))
		se.Router.POST("/api/quotations", handlers.HandleQuotationCreate(app, quoteNumbers))
		se.Router.GET("/api/quotations/{id}", handlers.HandleQuotationView(app))
		se.Router.PUT("/api/quotations/{id}", handlers.HandleQuotationUpdate(app))
		se.Router.PATCH("/api/quotations/{id}/status", handlers.HandleQuotationStatus(app))
		se.Router.DELETE("/api/quotations/{id}", handlers.HandleQuotationDelete(app))
		se.Router.POST("/api/quotations/{id}/duplicate", handlers.HandleQuotationDuplicate(app, quoteNumbers))

		// ── Archive ──────────────────────────────────────────────
		se.Router.POST("/api/quotations/{id}/archive", handlers.HandleQuotationArchive(app))
		se.Router.GET("/api/archived", handlers.HandleArchivedList(app))
		se.Router.POST("/api/archived/{id}/restore", handlers.HandleQuotationRestore(app))
		se.Router.DELETE("/api/archived/{id}", handlers.HandleArchivedPurge(app))

		// ── Documents ────────────────────────────────────────────
		se.Router.GET("/api/quotations/{id}/export/pdf", handlers.HandleQuotationExportPDF(app, renderer))
		se.Router.GET("/api/quotations/{id}/export/excel", handlers.HandleQuotationExportExcel(app))
		se.Router.POST("/api/quotations/{id}/email", handlers.HandleQuotationEmail(app, renderer, deliverer))

		// ── Misc ─────────────────────────────────────────────────
		se.Router.POST("/api/unsubscribe", handlers.HandleUnsubscribe(app))
		se.Router.GET("/api/catalog", handlers.HandleCatalogList(catalog))

		return se.Next()
	})

	// Follow-up reminders for quotations that have gone quiet.
	app.Cron().MustAdd("quotationReminders", "0 8 * * *", func() {
		deliverer := services.NewMailDelivery(app.NewMailClient(), mail.Address{
			Name:    app.Settings().Meta.SenderName,
			Address: app.Settings().Meta.SenderAddress,
		})
		sent, err := services.SendDueReminders(app, renderer, deliverer, time.Now())
		if err != nil {
			log.Printf("reminders: %v", err)
			return
		}
		if sent > 0 {
			log.Printf("reminders: sent %d follow-ups", sent)
		}
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
