package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/page.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/page.html"))

// PageData datos de la página completa.
type PageData struct {
	Title       string
	PredictorUp bool
	View        View
}

// WriteHTML escribe la página completa.
func WriteHTML(w io.Writer, data PageData) error {
	if err := pageTmpl.ExecuteTemplate(w, "page.html", data); err != nil {
		return fmt.Errorf("renderizar página: %w", err)
	}
	return nil
}
