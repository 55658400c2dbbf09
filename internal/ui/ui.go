// Package ui holds the catalog's HTML views and the functions they call.
//
// Views are embedded in the binary. Setting a templates directory replaces
// them with the *.html files found there, which is handy while editing markup.
package ui

import (
	"embed"
	"fmt"
	"html"
	"html/template"
	"path/filepath"
	"time"

	"github.com/mrlokans/locallibrary/internal/display"
	"github.com/mrlokans/locallibrary/internal/entities"
)

//go:embed templates/*.html
var embedded embed.FS

// FuncMap exposes the display layer to the views.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		// stored values are entity-escaped on input; plain undoes that so
		// html/template escapes them exactly once
		"plain":          html.UnescapeString,
		"authorName":     display.AuthorName,
		"authorLifespan": display.AuthorLifespan,
		"formatDate":     display.FormatDate,
		"dueBack":        display.DueBack,
		"authorURL":      display.AuthorURL,
		"genreURL":       display.GenreURL,
		"bookURL":        display.BookURL,
		"instanceURL":    display.BookInstanceURL,
		"listURL":        display.ListURL,
		"entityURL":      display.URL,
		"statuses":       func() []entities.BookInstanceStatus { return entities.BookInstanceStatuses },
		"statusClass":    statusClass,
		"timestamp":      func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04:05") },
	}
}

func statusClass(s entities.BookInstanceStatus) string {
	switch s {
	case entities.StatusAvailable:
		return "text-success"
	case entities.StatusMaintenance:
		return "text-danger"
	default:
		return "text-warning"
	}
}

// Templates parses the views, from dir when set and from the embedded copy
// otherwise.
func Templates(dir string) (*template.Template, error) {
	tmpl := template.New("").Funcs(FuncMap())

	if dir != "" {
		parsed, err := tmpl.ParseGlob(filepath.Join(dir, "*.html"))
		if err != nil {
			return nil, fmt.Errorf("parse templates from %s: %w", dir, err)
		}
		return parsed, nil
	}

	parsed, err := tmpl.ParseFS(embedded, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse embedded templates: %w", err)
	}
	return parsed, nil
}
