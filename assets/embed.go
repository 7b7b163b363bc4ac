package assets

import "embed"

//go:embed templates/*.html
var TemplatesFS embed.FS

// Pages lists the page templates the web layer renders by name.
func Pages() []string {
	return []string{
		"landing.html",
		"dashboard.html",
		"not_found.html",
	}
}
