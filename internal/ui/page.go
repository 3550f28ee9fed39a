package ui

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/page.html"))

// Render writes the page for s as HTML.
func Render(w io.Writer, s State) error {
	return pageTemplate.Execute(w, s)
}
