// Package fragments provides template path constants for organized template management
package fragments

import "strings"

// Template path constants, relative to ui/templates
const (
	// Page
	Index = "index.html"

	// Dashboard sections
	Summary        = "fragments/summary.html"
	Municipalities = "fragments/municipalities.html"
	Products       = "fragments/products.html"
	Charts         = "fragments/charts.html"
	RawData        = "fragments/raw_data.html"

	// HTMX targets
	Municipality = "fragments/municipality.html"
	Error        = "fragments/error.html"
)

// GetAllTemplatePaths returns all template paths in parse order
func GetAllTemplatePaths() []string {
	return []string{
		Index,
		Summary,
		Municipalities,
		Products,
		Charts,
		RawData,
		Municipality,
		Error,
	}
}

// IsFragment reports whether a template renders a partial page
func IsFragment(path string) bool {
	return strings.HasPrefix(path, "fragments/")
}
