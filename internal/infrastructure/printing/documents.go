package printing

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLine is one billed line on a printed document
type DocumentLine struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// InvoiceDocument carries everything the invoice template needs
type InvoiceDocument struct {
	Number        string
	Date          time.Time
	ClientName    string
	ClientPhone   string
	ClientEmail   string
	ClientAddress string
	ClientTaxID   string
	Vehicle       string
	Plate         string
	Lines         []DocumentLine
	Subtotal      decimal.Decimal
	VAT           decimal.Decimal
	Total         decimal.Decimal
}

// ReceiptDocument carries everything the receipt template needs
type ReceiptDocument struct {
	Number      string
	Date        time.Time
	ClientName  string
	ClientPhone string
	Vehicle     string
	Plate       string
	Description string
	Lines       []DocumentLine
	Amount      decimal.Decimal
}

// WarrantyDocument carries everything the warranty certificate needs
type WarrantyDocument struct {
	ClientName string
	Vehicle    string
	Plate      string
	FilmType   string
	IssuedAt   time.Time
	Terms      string
	Coverage   string
}

// FilmTerms returns the coverage headline and terms text printed on the
// warranty certificate for a given film description.
func FilmTerms(filmType string) (coverage, terms string) {
	lower := strings.ToLower(filmType)
	switch {
	case strings.Contains(lower, "poliester") || strings.Contains(lower, "poliéster"):
		return "7 años de garantía",
			"La lámina de poliéster instalada ofrece protección solar básica y durabilidad estándar."
	case strings.Contains(lower, "nanoceramica") || strings.Contains(lower, "nanocerámica"):
		return "10 años de garantía",
			"La lámina nanocerámica instalada proporciona máxima protección térmica y visibilidad superior."
	case strings.Contains(lower, "nanocarbon"):
		return "Garantía de por vida",
			"La lámina nanocarbon instalada combina alta protección solar con tecnología avanzada de carbono."
	default:
		return "Garantía profesional",
			"La lámina instalada cuenta con garantía profesional del taller."
	}
}

// DocumentPrinter renders the business documents to PDF
type DocumentPrinter struct {
	engine   *TemplateEngine
	renderer PDFRenderer
}

// NewDocumentPrinter creates a new DocumentPrinter
func NewDocumentPrinter(engine *TemplateEngine, renderer PDFRenderer) *DocumentPrinter {
	return &DocumentPrinter{engine: engine, renderer: renderer}
}

// InvoicePDF renders an invoice document
func (p *DocumentPrinter) InvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error) {
	return p.render(ctx, "factura", "Factura "+doc.Number, doc)
}

// ReceiptPDF renders a receipt document
func (p *DocumentPrinter) ReceiptPDF(ctx context.Context, doc ReceiptDocument) ([]byte, error) {
	return p.render(ctx, "recibo", "Recibo "+doc.Number, doc)
}

// WarrantyPDF renders a warranty certificate
func (p *DocumentPrinter) WarrantyPDF(ctx context.Context, doc WarrantyDocument) ([]byte, error) {
	if doc.Coverage == "" {
		doc.Coverage, doc.Terms = FilmTerms(doc.FilmType)
	}
	return p.render(ctx, "garantia", "Certificado de Garantía", doc)
}

func (p *DocumentPrinter) render(ctx context.Context, template, title string, data interface{}) ([]byte, error) {
	html, err := p.engine.Render(template, data)
	if err != nil {
		return nil, err
	}
	result, err := p.renderer.Render(ctx, &RenderRequest{HTML: html, Title: title})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}
