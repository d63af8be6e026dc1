package printing

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateEngine_RenderInvoice(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	doc := InvoiceDocument{
		Number:      "2026-0042",
		Date:        time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		ClientName:  "María López",
		ClientPhone: "612345678",
		Vehicle:     "SEAT León",
		Plate:       "1234BCD",
		Lines: []DocumentLine{
			{Description: "Tintado de lunas", Quantity: 1, UnitPrice: decimal.NewFromInt(100), Amount: decimal.NewFromInt(100)},
		},
		Subtotal: decimal.NewFromFloat(82.64),
		VAT:      decimal.NewFromFloat(17.36),
		Total:    decimal.NewFromInt(100),
	}

	html, err := engine.Render("factura", doc)
	require.NoError(t, err)

	assert.Contains(t, html, "2026-0042")
	assert.Contains(t, html, "María López")
	assert.Contains(t, html, "14/03/2026")
	assert.Contains(t, html, "82,64 €")
	assert.Contains(t, html, "17,36 €")
	assert.Contains(t, html, "100,00 €")
}

func TestTemplateEngine_RenderWarranty(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	coverage, terms := FilmTerms("Lámina nanoceramica premium")
	doc := WarrantyDocument{
		ClientName: "Juan Pérez",
		Vehicle:    "BMW Serie 3",
		Plate:      "5678JKL",
		FilmType:   "Lámina nanoceramica premium",
		IssuedAt:   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Coverage:   coverage,
		Terms:      terms,
	}

	html, err := engine.Render("garantia", doc)
	require.NoError(t, err)

	assert.Contains(t, html, "10 años de garantía")
	assert.Contains(t, html, "Juan Pérez")
	assert.Contains(t, html, "5678JKL")
}

func TestFilmTerms(t *testing.T) {
	tests := []struct {
		name     string
		filmType string
		coverage string
	}{
		{"polyester film", "Lámina poliester estándar", "7 años de garantía"},
		{"nanoceramic film", "NANOCERAMICA 70%", "10 años de garantía"},
		{"nanocarbon film", "lámina nanocarbon sport", "Garantía de por vida"},
		{"unknown film", "Lámina especial", "Garantía profesional"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coverage, terms := FilmTerms(tt.filmType)
			assert.Equal(t, tt.coverage, coverage)
			assert.NotEmpty(t, terms)
		})
	}
}

func TestChromedpRenderer_BuildCompleteHTML(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{}}

	t.Run("wraps a fragment", func(t *testing.T) {
		html := r.buildCompleteHTML(&RenderRequest{HTML: "<p>hola</p>", Title: "Prueba"})
		assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
		assert.Contains(t, html, "<title>Prueba</title>")
		assert.Contains(t, html, "<p>hola</p>")
	})

	t.Run("passes a complete document through", func(t *testing.T) {
		full := "<!DOCTYPE html><html><body>hola</body></html>"
		assert.Equal(t, full, r.buildCompleteHTML(&RenderRequest{HTML: full}))
	})
}
