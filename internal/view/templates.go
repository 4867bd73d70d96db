package view

import (
	"fmt"
	"html/template"
	"io"

	"github.com/pricewatch/pricewatch/internal/notify"
	"github.com/pricewatch/pricewatch/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title         string
	CSRFToken     string
	Notifications []notify.Message
	CurrentPath   string
	Data          any
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"expiresAt": func(m notify.Message) int64 {
			return m.ExpiresAt.UnixMilli()
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w io.Writer, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	return e.templates.ExecuteTemplate(w, name, data)
}
