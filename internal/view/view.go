// Package view renders the HTML form page.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// FormTemplate is the name of the single page template.
const FormTemplate = "form"

// Values are the previously submitted fields shown back to the user.
// The password is never echoed.
type Values struct {
	Name    string
	Email   string
	Message string
}

// Data fills the three slots of the form template.
type Data struct {
	Errors  []string
	Values  Values
	Success string
}

// Renderer executes the form template.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if tmpl.Lookup(FormTemplate) == nil {
		return nil, fmt.Errorf("template %q not defined", FormTemplate)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// MustNew is New that panics on error. For use at startup and in tests.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render writes the form page with the given status.
// The page is rendered into a buffer first so a template error never leaves
// a partial response.
func (r *Renderer) Render(w http.ResponseWriter, status int, data Data) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, FormTemplate, data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return fmt.Errorf("failed to render %s: %w", FormTemplate, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
