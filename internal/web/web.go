// Package web holds the server-rendered pages and their static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page template. Pages are addressed by file name,
// e.g. "chat.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"datetime": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04:05")
		},
	}).ParseFS(templateFS, "templates/*.html")
}

// Static returns the asset tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
