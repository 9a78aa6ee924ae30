package services

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	imagecomp "github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// DocumentRenderer turns a fully-priced quotation into document bytes. The
// delivery and email code depends only on this interface, never on the
// rendering technique.
type DocumentRenderer interface {
	Render(data *QuotationExportData) ([]byte, error)
}

// GenerationError is a fatal document generation failure. It carries the
// quotation id so callers can report a useful message.
type GenerationError struct {
	QuotationID string
	Err         error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate document for quotation %s: %v", e.QuotationID, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// CompanyFooter is the fixed company block rendered at the bottom of every
// page.
type CompanyFooter struct {
	Name    string
	Address string
	Website string
}

// Logo is a decoded raster logo ready for placement in the header band.
type Logo struct {
	Data   []byte
	Ext    extension.Type
	Width  int
	Height int
}

// LoadLogo reads and decodes a logo image so the renderer can scale it
// preserving the aspect ratio. PNG and JPEG are accepted.
func LoadLogo(path string) (*Logo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read logo %s: %w", path, err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode logo %s: %w", path, err)
	}

	ext := extension.Png
	if format == "jpeg" {
		ext = extension.Jpg
	}

	return &Logo{Data: data, Ext: ext, Width: cfg.Width, Height: cfg.Height}, nil
}

// PDFRenderer renders quotations to A4 portrait PDFs with maroto's direct
// vector drawing (no HTML intermediate). Missing logos degrade the header
// band instead of failing the render. A renderer is stateless across calls
// and safe for concurrent use.
type PDFRenderer struct {
	Footer    CompanyFooter
	LogoLeft  *Logo
	LogoRight *Logo
}

// Palette lifted from the desktop app's documents.
var (
	colorCyan      = props.Color{Red: 8, Green: 145, Blue: 178}
	colorBlack     = props.Color{Red: 26, Green: 26, Blue: 26}
	colorGray      = props.Color{Red: 102, Green: 102, Blue: 102}
	colorLightGray = props.Color{Red: 209, Green: 213, Blue: 219}
	colorRed       = props.Color{Red: 220, Green: 38, Blue: 38}
)

const (
	pageMargin = 15.0

	// A4 portrait content width with 15mm side margins.
	contentWidthMM = 210.0 - 2*pageMargin

	logoBandHeight = 16.0
	// Logos scale to 14mm inside the band, leaving breathing room above the
	// title.
	logoHeight      = 14.0
	logoRectPercent = logoHeight / logoBandHeight * 100

	minRowHeight   = 8.0
	textLineHeight = 4.0

	// Description column: 3 of 12 grid units.
	descColumnUnits = 3
)

// Render produces the PDF bytes for one quotation.
func (r *PDFRenderer) Render(data *QuotationExportData) (out []byte, err error) {
	// maroto's underlying drawing primitives panic on some malformed inputs;
	// surface those as a typed generation failure instead of crashing the
	// caller.
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = &GenerationError{QuotationID: data.QuotationID, Err: fmt.Errorf("layout panic: %v", rec)}
		}
	}()

	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(pageMargin).
		WithTopMargin(pageMargin).
		WithRightMargin(pageMargin).
		Build()

	m := maroto.New(cfg)

	if err := m.RegisterFooter(r.footerRows()...); err != nil {
		return nil, &GenerationError{QuotationID: data.QuotationID, Err: fmt.Errorf("register footer: %w", err)}
	}

	r.addLogoBand(m)
	addTitle(m, data)
	addMetaDates(m, data)
	addBillTo(m, data)
	addItemsTable(m, data)
	addTotals(m, data)
	addNotes(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, &GenerationError{QuotationID: data.QuotationID, Err: err}
	}

	return doc.GetBytes(), nil
}

// addLogoBand places the two logos flush left and right, scaled to the logo
// height preserving their aspect ratio. A logo that failed to load is simply
// skipped.
func (r *PDFRenderer) addLogoBand(m core.Maroto) {
	left := col.New(3)
	if r.LogoLeft != nil {
		left.Add(imagecomp.NewFromBytes(r.LogoLeft.Data, r.LogoLeft.Ext, props.Rect{
			Percent: logoRectPercent,
			Left:    0,
		}))
	}

	right := col.New(3)
	if r.LogoRight != nil {
		right.Add(imagecomp.NewFromBytes(r.LogoRight.Data, r.LogoRight.Ext, props.Rect{
			Percent: logoRectPercent,
			Center:  false,
		}))
	}

	m.AddRows(row.New(logoBandHeight).Add(left, col.New(6), right))
	m.AddRows(row.New(4))
}

// addTitle renders "QUOTATION <number>" as a two-tone pair meeting at the
// page center: the title word right-aligned into the left half, the stripped
// number left-aligned out of the right half.
func addTitle(m core.Maroto, data *QuotationExportData) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(text.New("QUOTATION ", props.Text{
				Size:  18,
				Style: fontstyle.Bold,
				Align: align.Right,
				Color: &colorCyan,
			})),
			col.New(6).Add(text.New(data.DisplayNumber(), props.Text{
				Size:  18,
				Style: fontstyle.Bold,
				Align: align.Left,
				Color: &colorBlack,
			})),
		),
	)
}

// addMetaDates renders the created and valid-until dates right-aligned under
// the title, followed by a separator rule.
func addMetaDates(m core.Maroto, data *QuotationExportData) {
	meta := props.Text{Size: 9, Align: align.Right, Color: &colorGray}

	m.AddRows(
		row.New(4).Add(col.New(12).Add(text.New("Created: "+data.CreatedDate, meta))),
		row.New(4).Add(col.New(12).Add(text.New("Valid Until: "+data.ValidUntilDate, meta))),
		row.New(4),
		line.NewRow(2, props.Line{Color: &colorLightGray, Thickness: 0.3, SizePercent: 100}),
		row.New(3),
	)
}

// addBillTo renders the client block: bold name, email, optional multi-line
// address.
func addBillTo(m core.Maroto, data *QuotationExportData) {
	m.AddRows(
		row.New(5).Add(col.New(12).Add(text.New("BILL TO", props.Text{
			Size: 8, Align: align.Left, Color: &colorGray,
		}))),
		row.New(5).Add(col.New(12).Add(text.New(data.ClientName, props.Text{
			Size: 10, Style: fontstyle.Bold, Align: align.Left, Color: &colorBlack,
		}))),
		row.New(4.5).Add(col.New(12).Add(text.New(data.ClientEmail, props.Text{
			Size: 9, Align: align.Left, Color: &colorGray,
		}))),
	)

	if data.ClientAddress != "" {
		for _, addrLine := range strings.Split(data.ClientAddress, "\n") {
			m.AddRows(row.New(4).Add(col.New(12).Add(text.New(addrLine, props.Text{
				Size: 9, Align: align.Left, Color: &colorGray,
			}))))
		}
	}

	m.AddRows(row.New(4))
}

// addItemsTable renders the line-item table. Row heights grow with the
// wrapped description and the optional note line; maroto moves any row that
// does not fit onto a new page, so a row is never split across pages.
func addItemsTable(m core.Maroto, data *QuotationExportData) {
	headerText := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Color: &colorGray}
	headerCenter := headerText
	headerCenter.Align = align.Center
	headerRight := headerText
	headerRight.Align = align.Right

	m.AddRows(
		row.New(5).Add(
			col.New(1).Add(text.New("#", headerText)),
			col.New(1).Add(text.New("SKU", headerText)),
			col.New(descColumnUnits).Add(text.New("Description", headerText)),
			col.New(1).Add(text.New("LT (wks)", headerCenter)),
			col.New(1).Add(text.New("MOQ", headerCenter)),
			col.New(2).Add(text.New(fmt.Sprintf("Unit Price (%s)", data.Currency), headerRight)),
			col.New(1).Add(text.New("Disc %", headerCenter)),
			col.New(2).Add(text.New("Total", headerRight)),
		),
		line.NewRow(2, props.Line{Color: &colorLightGray, Thickness: 0.5, SizePercent: 100}),
	)

	bodyText := props.Text{Size: 8, Align: align.Left, Color: &colorGray}
	bodyCenter := bodyText
	bodyCenter.Align = align.Center
	bodyRight := bodyText
	bodyRight.Align = align.Right

	descWidth := columnWidthMM(descColumnUnits)
	maxChars := charsPerLine(descWidth, 8)

	for _, item := range data.Items {
		descLines := wrapText(item.Description, maxChars)
		var noteLines []string
		if item.Notes != "" {
			noteLines = wrapText("Note: "+item.Notes, maxChars)
		}

		rowHeight := float64(len(descLines)+len(noteLines)) * textLineHeight
		if len(noteLines) > 0 {
			rowHeight += 2
		}
		if rowHeight < minRowHeight {
			rowHeight = minRowHeight
		}

		descCol := col.New(descColumnUnits)
		for li, descLine := range descLines {
			descCol.Add(text.New(descLine, props.Text{
				Size:  8,
				Align: align.Left,
				Color: &colorBlack,
				Top:   float64(li) * textLineHeight,
			}))
		}
		noteTop := float64(len(descLines))*textLineHeight + 1
		for ni, noteLine := range noteLines {
			descCol.Add(text.New(noteLine, props.Text{
				Size:  7,
				Style: fontstyle.Italic,
				Align: align.Left,
				Color: &colorGray,
				Top:   noteTop + float64(ni)*textLineHeight,
			}))
		}

		m.AddRows(
			row.New(rowHeight).Add(
				col.New(1).Add(text.New(fmt.Sprintf("%d", item.Number), bodyText)),
				col.New(1).Add(text.New(item.SKU, bodyText)),
				descCol,
				col.New(1).Add(text.New(item.LeadTime, bodyCenter)),
				col.New(1).Add(text.New(fmt.Sprintf("%d", item.MOQ), bodyCenter)),
				col.New(2).Add(text.New(item.UnitPrice, bodyRight)),
				col.New(1).Add(text.New(item.DiscountPercent, bodyCenter)),
				col.New(2).Add(text.New(item.LineTotal, props.Text{
					Size: 8, Style: fontstyle.Bold, Align: align.Right, Color: &colorBlack,
				})),
			),
			line.NewRow(2, props.Line{Color: &props.Color{Red: 229, Green: 229, Blue: 229}, Thickness: 0.2, SizePercent: 100}),
		)
	}

	m.AddRows(row.New(4))
}

// addTotals renders the right-aligned totals stack. The discount row only
// appears when the discount is positive and the tax row only when the tax
// rate is positive; the grand total sits under a rule with its own emphasis.
func addTotals(m core.Maroto, data *QuotationExportData) {
	label := props.Text{Size: 9, Align: align.Right, Color: &colorGray}
	value := props.Text{Size: 9, Align: align.Right, Color: &colorBlack}

	m.AddRows(row.New(5).Add(
		col.New(9).Add(text.New("Subtotal", label)),
		col.New(3).Add(text.New(data.Subtotal, value)),
	))

	if data.DiscountShown {
		discLabel := "Discount"
		if data.DiscountPercent != "" {
			discLabel = fmt.Sprintf("Discount (%s%%)", data.DiscountPercent)
		}
		m.AddRows(row.New(5).Add(
			col.New(9).Add(text.New(discLabel, label)),
			col.New(3).Add(text.New("-"+data.Discount, props.Text{
				Size: 9, Align: align.Right, Color: &colorRed,
			})),
		))
	}

	if data.TaxShown {
		m.AddRows(row.New(5).Add(
			col.New(9).Add(text.New(fmt.Sprintf("Tax (%s%%)", data.TaxRate), label)),
			col.New(3).Add(text.New(data.Tax, value)),
		))
	}

	m.AddRows(
		row.New(2).Add(
			col.New(8),
			line.NewCol(4, props.Line{Color: &colorLightGray, Thickness: 0.5, SizePercent: 100}),
		),
		row.New(7).Add(
			col.New(9).Add(text.New("Total", props.Text{
				Size: 11, Style: fontstyle.Bold, Align: align.Right, Color: &colorBlack,
			})),
			col.New(3).Add(text.New(data.Total, props.Text{
				Size: 11, Style: fontstyle.Bold, Align: align.Right, Color: &colorCyan,
			})),
		),
	)
}

// addNotes renders the quotation notes, preserving embedded newlines. Nothing
// is rendered when notes are empty.
func addNotes(m core.Maroto, data *QuotationExportData) {
	if data.Notes == "" {
		return
	}

	m.AddRows(
		row.New(4),
		line.NewRow(2, props.Line{Color: &props.Color{Red: 229, Green: 229, Blue: 229}, Thickness: 0.2, SizePercent: 100}),
		row.New(4).Add(col.New(12).Add(text.New("NOTES", props.Text{
			Size: 8, Align: align.Left, Color: &colorGray,
		}))),
	)

	for _, noteLine := range strings.Split(data.Notes, "\n") {
		m.AddRows(row.New(3.5).Add(col.New(12).Add(text.New(noteLine, props.Text{
			Size: 8, Align: align.Left, Color: &colorBlack,
		}))))
	}
}

// footerRows builds the fixed company footer registered on every page.
// Registering it reserves the space up front, so content can never overlap
// it and an overflowing footer is impossible by construction.
func (r *PDFRenderer) footerRows() []core.Row {
	return []core.Row{
		line.NewRow(2, props.Line{Color: &props.Color{Red: 229, Green: 229, Blue: 229}, Thickness: 0.2, SizePercent: 100}),
		row.New(4).Add(col.New(12).Add(text.New(r.Footer.Name, props.Text{
			Size: 8, Style: fontstyle.Bold, Align: align.Center, Color: &colorBlack,
		}))),
		row.New(3.5).Add(col.New(12).Add(text.New(r.Footer.Address, props.Text{
			Size: 7, Align: align.Center, Color: &colorGray,
		}))),
		row.New(3.5).Add(col.New(12).Add(text.New(r.Footer.Website, props.Text{
			Size: 7, Align: align.Center, Color: &colorCyan,
		}))),
	}
}

// columnWidthMM converts grid units to millimeters of content width.
func columnWidthMM(units int) float64 {
	return contentWidthMM * float64(units) / 12.0
}

// charsPerLine estimates how many characters of the given font size fit in a
// column. Helvetica averages roughly half the point size per glyph
// (1pt = 0.3528mm).
func charsPerLine(widthMM, fontSizePt float64) int {
	avgGlyphMM := fontSizePt * 0.5 * 0.3528
	n := int(widthMM / avgGlyphMM)
	if n < 1 {
		n = 1
	}
	return n
}

// wrapText greedily wraps text at word boundaries so that no line exceeds
// maxChars. Words longer than a full line are hard-split.
func wrapText(s string, maxChars int) []string {
	if s == "" {
		return []string{""}
	}

	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		current := ""
		for _, word := range strings.Fields(paragraph) {
			for len(word) > maxChars {
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				lines = append(lines, word[:maxChars])
				word = word[maxChars:]
			}
			switch {
			case current == "":
				current = word
			case len(current)+1+len(word) <= maxChars:
				current += " " + word
			default:
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	return lines
}

// LoadRendererLogos loads both header logos, degrading gracefully: a logo
// that cannot be read or decoded is logged and left out of the band.
func LoadRendererLogos(leftPath, rightPath string) (left, right *Logo) {
	var err error
	if leftPath != "" {
		if left, err = LoadLogo(leftPath); err != nil {
			log.Printf("pdf: left logo unavailable: %v", err)
			left = nil
		}
	}
	if rightPath != "" {
		if right, err = LoadLogo(rightPath); err != nil {
			log.Printf("pdf: right logo unavailable: %v", err)
			right = nil
		}
	}
	return left, right
}
