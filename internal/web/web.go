// Package web holds the HTML templates, embedded into the binary.
package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every page template. Each page is addressed by its file
// name, e.g. "ideas.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"date": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
	}).ParseFS(templateFS, "templates/*.html")
}

// MustTemplates is Templates for program start-up and tests
func MustTemplates() *template.Template {
	return template.Must(Templates())
}
