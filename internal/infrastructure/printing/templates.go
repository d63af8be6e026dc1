package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TemplateEngine renders the HTML behind the printed documents. It uses
// Go's html/template package with helpers for Spanish formatting.
type TemplateEngine struct {
	templates *template.Template
	printer   *message.Printer
}

// NewTemplateEngine creates an engine with the built-in documents parsed
func NewTemplateEngine() (*TemplateEngine, error) {
	e := &TemplateEngine{
		printer: message.NewPrinter(language.EuropeanSpanish),
	}

	funcMap := template.FuncMap{
		"euros":      e.formatEuros,
		"formatDate": formatDate,
	}

	tmpl := template.New("documents").Funcs(funcMap)
	for name, content := range builtinTemplates {
		var err error
		tmpl, err = tmpl.New(name).Parse(content)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
	}
	e.templates = tmpl
	return e, nil
}

// Render executes a named template against the given data
func (e *TemplateEngine) Render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// formatEuros renders an amount the Spanish way, e.g. "1.234,56 €"
func (e *TemplateEngine) formatEuros(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return e.printer.Sprintf("%.2f €", f)
}

// formatDate renders a date as dd/mm/yyyy
func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
