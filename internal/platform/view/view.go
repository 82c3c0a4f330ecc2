// Package view はサーバーサイドで描画するHTMLテンプレートを提供します。
package view

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.tmpl
var files embed.FS

// Load parses every embedded template with the helper functions installed.
// The result is meant for gin.Engine.SetHTMLTemplate.
func Load() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// Funcs returns the template helpers.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatCurrency": FormatCurrency,
		"formatDate":     FormatDate,
	}
}

var printer = message.NewPrinter(language.English)

// FormatCurrency renders value with the symbol of the ISO 4217 currency code, e.g. "$ 12.50".
// An unknown code falls back to "12.50 CODE".
func FormatCurrency(value float64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return printer.Sprintf("%.2f %s", value, code)
	}
	return printer.Sprint(currency.Symbol(unit.Amount(value)))
}

// FormatDate renders a YYYY-MM-DD date as "02 Jan 2006". Anything else is returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("02 Jan 2006")
}
