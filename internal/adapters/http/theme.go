package web

import (
	"html/template"
	"strings"
)

// Token is one design token rendered as a CSS custom property.
type Token struct {
	Name  string // without the leading "--"
	Value string
}

// Theme is the portal's single source of colours, spacing and type.
// Stylesheets reference tokens as var(--name); pages never carry inline styles.
var Theme = []Token{
	{"color-bg", "#f6f7f9"},
	{"color-surface", "#ffffff"},
	{"color-text", "#1f2933"},
	{"color-muted", "#616e7c"},
	{"color-border", "#d9dde3"},
	{"color-primary", "#1d4ed8"},
	{"color-primary-contrast", "#ffffff"},
	{"color-danger", "#b42318"},
	{"color-danger-bg", "#fef3f2"},
	{"color-success", "#067647"},
	{"color-success-bg", "#ecfdf3"},
	{"color-warning-bg", "#fffaeb"},
	{"radius", "6px"},
	{"space-1", "4px"},
	{"space-2", "8px"},
	{"space-3", "16px"},
	{"space-4", "24px"},
	{"font-body", "system-ui, -apple-system, \"Segoe UI\", sans-serif"},
	{"font-size", "15px"},
	{"shadow", "0 1px 3px rgba(16, 24, 40, 0.12)"},
}

// themeCSS renders Theme as a :root rule for the layout's <style> element.
func themeCSS() template.CSS {
	var b strings.Builder
	b.WriteString(":root{")
	for _, t := range Theme {
		b.WriteString("--")
		b.WriteString(t.Name)
		b.WriteString(":")
		b.WriteString(t.Value)
		b.WriteString(";")
	}
	b.WriteString("}")
	return template.CSS(b.String())
}
