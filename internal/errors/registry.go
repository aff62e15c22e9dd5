package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Configuration (L001-L009)
	"L001": {
		Category:   CategoryConfig,
		Message:    "Failed to read configuration file",
		Suggestion: "Check that lfnd.json exists and is readable.",
	},
	"L002": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Suggestion: "lfnd.json must be a single JSON object.",
	},
	"L003": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},

	// Manifests (L010-L019)
	"L010": {
		Category:   CategoryManifest,
		Message:    "Invalid route manifest",
		Suggestion: `A manifest looks like {"routes":[{"name":"/users/:id","body":"user {id}"}]}.`,
	},
	"L011": {
		Category: CategoryManifest,
		Message:  "Invalid route in manifest",
	},

	// Storage (L020-L029)
	"L020": {
		Category: CategoryStorage,
		Message:  "Failed to open manifest source",
	},
	"L021": {
		Category:   CategoryStorage,
		Message:    "Invalid manifest location",
		Suggestion: "Use a file path or an s3://bucket/key URL.",
	},

	// CLI (L030-L039)
	"L030": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
	},
	"L031": {
		Category: CategoryCLI,
		Message:  "Server failed",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
