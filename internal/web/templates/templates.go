// Package templates renders the HTML pages and htmx fragments of the web UI.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/kozaktomas/facedesk/internal/constants"
)

//go:embed *.html partials/*.html
var templatesFS embed.FS

// Part is one named template rendered into a composite response.
type Part struct {
	Name string
	Data any
}

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

// New parses all embedded templates.
func New() (*Renderer, error) {
	funcMap := template.FuncMap{
		"alertDismissMs": func() int64 { return constants.AlertAutoDismiss.Milliseconds() },
		"pollMs":         func() int64 { return constants.PollInterval.Milliseconds() },
		"maxUploadMB":    func(n int64) int64 { return n >> 20 },
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "*.html", "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Execute writes a single template to w.
func (r *Renderer) Execute(w io.Writer, name string, data any) error {
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return nil
}

// Render writes one or more templates as a single HTML response. Output is
// buffered so a failing template never produces a partial response.
func (r *Renderer) Render(w http.ResponseWriter, status int, parts ...Part) {
	buf := new(bytes.Buffer)
	for _, p := range parts {
		if err := r.Execute(buf, p.Name, p.Data); err != nil {
			slog.Error("template rendering failed", "template", p.Name, "error", err)
			http.Error(w, "Template error", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}
