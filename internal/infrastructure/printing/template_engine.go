package printing

import (
	"bytes"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// TemplateEngine executes html/template print formats with locale-aware helpers
type TemplateEngine struct {
	tag     language.Tag
	printer *message.Printer
	caser   cases.Caser
	funcMap template.FuncMap
}

// NewTemplateEngine creates an engine for locale (a BCP 47 tag). Unknown tags fall back to English.
func NewTemplateEngine(locale string) *TemplateEngine {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.English
	}

	e := &TemplateEngine{
		tag:     tag,
		printer: message.NewPrinter(tag),
		caser:   cases.Title(tag),
	}
	e.funcMap = template.FuncMap{
		"formatMoney":    e.formatMoney,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"title":          e.title,
		"upper":          strings.ToUpper,
		"default":        defaultString,
	}
	return e
}

// Locale returns the language tag in use
func (e *TemplateEngine) Locale() language.Tag {
	return e.tag
}

// FuncMap returns a copy of the template functions
func (e *TemplateEngine) FuncMap() template.FuncMap {
	return maps.Clone(e.funcMap)
}

// Parse compiles a named template with the engine's functions
func (e *TemplateEngine) Parse(name, content string) (*template.Template, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}
	return tmpl, nil
}

// Execute runs tmpl against data
func (e *TemplateEngine) Execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// RenderString parses and executes content in one step
func (e *TemplateEngine) RenderString(name, content string, data any) (string, error) {
	tmpl, err := e.Parse(name, content)
	if err != nil {
		return "", err
	}
	return e.Execute(tmpl, data)
}

// formatMoney prints an amount with two decimals and the locale's grouping, e.g. 1,234.50
func (e *TemplateEngine) formatMoney(d decimal.Decimal) string {
	return e.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// title converts status values like "Open" or "to deliver and bill" to title case
func (e *TemplateEngine) title(s string) string {
	return e.caser.String(strings.ToLower(s))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(sales.DateLayout)
}

func formatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func defaultString(def, s string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
