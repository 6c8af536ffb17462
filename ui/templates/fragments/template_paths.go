// Package fragments provides template name constants for the web UI
package fragments

import "strings"

// Template name constants
const (
	// Page templates
	Index       = "index.html"
	Unavailable = "unavailable.html"

	// Partials
	Flash     = "partials/flash.html"
	Pickers   = "partials/pickers.html"
	ListTable = "partials/list_table.html"
)

// GetAllTemplatePaths returns all template names for registration
func GetAllTemplatePaths() []string {
	return []string{
		Index,
		Unavailable,
		Flash,
		Pickers,
		ListTable,
	}
}

// IsPartial reports whether name is included by a page rather than rendered
// on its own
func IsPartial(name string) bool {
	return strings.HasPrefix(name, "partials/")
}
