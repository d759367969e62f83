package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

// IndexTemplate is the upload-and-analyze page.
const IndexTemplate = "index.html"

type Renderer struct {
	layout *template.Template
}

func NewRenderer() (*Renderer, error) {
	// layout.html defines "layout"; funcs are placeholders until Render binds a language.
	layout, err := template.New("layout.html").Funcs(GetFuncMap(nil, "")).ParseFS(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	return &Renderer{layout: layout}, nil
}

func (r *Renderer) Render(w io.Writer, pageTemplateFile string, data interface{}, funcMap template.FuncMap) error {
	// Clone the layout so concurrent renders never share a parse tree.
	tmpl, err := r.layout.Clone()
	if err != nil {
		return fmt.Errorf("failed to clone layout: %w", err)
	}

	// Funcs must be registered before parsing the page that uses them.
	if funcMap != nil {
		tmpl.Funcs(funcMap)
	}

	_, err = tmpl.ParseFS(templatesFS, "templates/"+pageTemplateFile)
	if err != nil {
		return fmt.Errorf("failed to parse page template %s: %w", pageTemplateFile, err)
	}

	return tmpl.ExecuteTemplate(w, "layout", data)
}
