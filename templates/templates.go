// Package templates embeds the HTML views of the reception web UI.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Load parses every embedded view. Pages are addressed by file name, e.g. "patients.html".
func Load() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"fieldError": fieldError,
	}).ParseFS(files, "*.html")
}

// fieldError returns the message recorded for field, or "".
func fieldError(errs map[string]string, field string) string {
	if errs == nil {
		return ""
	}
	return errs[field]
}
