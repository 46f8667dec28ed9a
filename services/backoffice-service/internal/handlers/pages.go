package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/editor"
)

//go:embed templates/*.html
var templateFS embed.FS

type pages struct {
	customers *template.Template
	services  *template.Template
}

func loadPages() (*pages, error) {
	parse := func(page string) (*template.Template, error) {
		return template.ParseFS(templateFS, "templates/layout.html", "templates/editor.html", "templates/"+page)
	}
	customers, err := parse("customers.html")
	if err != nil {
		return nil, err
	}
	services, err := parse("services.html")
	if err != nil {
		return nil, err
	}
	return &pages{customers: customers, services: services}, nil
}

// panel is one editor screen plus the routes its buttons post to.
type panel struct {
	editor.Screen
	Base      string
	ChildBase string
}

func newPanel(s editor.Screen, base, childBase string) panel {
	return panel{Screen: s, Base: base, ChildBase: childBase}
}

type pageData struct {
	Title  string
	Active string
	Tabs   bool
	Tab    string
	Panel  panel
}

func (h *Handler) render(w http.ResponseWriter, tmpl *template.Template, data pageData) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("render page failed", "page", data.Title, "err", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
