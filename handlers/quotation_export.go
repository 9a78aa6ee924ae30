package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// HandleQuotationExportPDF returns a handler that renders and downloads the
// quotation PDF.
func HandleQuotationExportPDF(app *pocketbase.PocketBase, renderer services.DocumentRenderer) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return apiError(e, http.StatusBadRequest, "Missing quotation ID")
		}

		data, err := services.BuildQuotationExportData(app, id)
		if err != nil {
			log.Printf("quotation_export: failed to build data: %v", err)
			return apiError(e, http.StatusNotFound, "Quotation not found")
		}

		pdfBytes, err := renderer.Render(data)
		if err != nil {
			log.Printf("quotation_export: failed to generate PDF: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate PDF")
		}

		filename := sanitizeFilename(data.FileName())

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleQuotationExportExcel returns a handler that generates and downloads
// the quotation as an Excel workbook.
func HandleQuotationExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return apiError(e, http.StatusBadRequest, "Missing quotation ID")
		}

		data, err := services.BuildQuotationExportData(app, id)
		if err != nil {
			log.Printf("quotation_export: failed to build data: %v", err)
			return apiError(e, http.StatusNotFound, "Quotation not found")
		}

		xlsxBytes, err := services.GenerateQuotationExcel(data)
		if err != nil {
			log.Printf("quotation_export: failed to generate Excel: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("%s.xlsx", sanitizeFilename(data.DisplayNumber()))

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
