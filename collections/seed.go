package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type itemDef struct {
	sortOrder       int
	sku             string
	description     string
	leadTime        string
	moq             int
	unitPrice       float64
	discountPercent float64
	notes           string
}

type quotationDef struct {
	quoteNumber   string
	clientName    string
	clientEmail   string
	clientAddress string
	taxRate       float64
	discountType  string
	discountValue float64
	notes         string
	currency      string
	status        string
	validDays     int
	items         []itemDef
}

var seedQuotations = []quotationDef{
	{
		quoteNumber:   "MT150126-ACME-DEMO",
		clientName:    "Acme Tooling",
		clientEmail:   "purchasing@acme-tooling.example",
		clientAddress: "14 Mill Road\nSheffield S3 7HQ\nUnited Kingdom",
		taxRate:       17,
		discountType:  "percentage",
		discountValue: 5,
		notes:         "Prices are EXW. Freight and insurance quoted separately.",
		currency:      "USD",
		status:        "draft",
		validDays:     30,
		items: []itemDef{
			{
				sortOrder:       1,
				sku:             "MT-0402-R",
				description:     "Carbide deburring insert, right-hand, TiN coated",
				leadTime:        "3-4",
				moq:             50,
				unitPrice:       4.8,
				discountPercent: 10,
				notes:           "Supplied in boxes of 10.",
			},
			{
				sortOrder:   2,
				sku:         "MT-HOLD-12",
				description: "Insert holder, 12mm shank",
				leadTime:    "2",
				moq:         5,
				unitPrice:   31.5,
			},
		},
	},
}

// Seed inserts a demo quotation with line items when the quotations
// collection is empty.
func Seed(app *pocketbase.PocketBase) error {
	existing, err := app.FindAllRecords("quotations")
	if err != nil {
		return fmt.Errorf("check existing quotations: %w", err)
	}
	if len(existing) > 0 {
		log.Println("Quotations already present, skipping seed.")
		return nil
	}

	quotationsCol, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		return fmt.Errorf("quotations collection: %w", err)
	}
	itemsCol, err := app.FindCollectionByNameOrId("quotation_items")
	if err != nil {
		return fmt.Errorf("quotation_items collection: %w", err)
	}

	for _, def := range seedQuotations {
		record := core.NewRecord(quotationsCol)
		record.Set("quote_number", def.quoteNumber)
		record.Set("client_name", def.clientName)
		record.Set("client_email", def.clientEmail)
		record.Set("client_address", def.clientAddress)
		record.Set("tax_rate", def.taxRate)
		record.Set("discount_type", def.discountType)
		record.Set("discount_value", def.discountValue)
		record.Set("notes", def.notes)
		record.Set("currency", def.currency)
		record.Set("status", def.status)
		record.Set("valid_until", time.Now().AddDate(0, 0, def.validDays).UTC())

		if err := app.Save(record); err != nil {
			return fmt.Errorf("seed quotation %s: %w", def.quoteNumber, err)
		}

		for _, item := range def.items {
			itemRecord := core.NewRecord(itemsCol)
			itemRecord.Set("quotation", record.Id)
			itemRecord.Set("sort_order", item.sortOrder)
			itemRecord.Set("sku", item.sku)
			itemRecord.Set("description", item.description)
			itemRecord.Set("lead_time", item.leadTime)
			itemRecord.Set("moq", item.moq)
			itemRecord.Set("unit_price", item.unitPrice)
			itemRecord.Set("discount_percent", item.discountPercent)
			itemRecord.Set("notes", item.notes)

			if err := app.Save(itemRecord); err != nil {
				return fmt.Errorf("seed item %q: %w", item.description, err)
			}
		}

		log.Printf("Seeded quotation %s with %d items", def.quoteNumber, len(def.items))
	}

	return nil
}
