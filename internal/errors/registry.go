package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be parsed",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Unknown configuration key",
		Detail:   "Recognized keys are proxy, files and watchOptions.ignored.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be written",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Unsupported configuration format",
		Detail:   "Configuration files must end in .json, .yaml or .yml.",
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Invalid environment override",
	},

	// ============================================
	// CLI Errors (E200-E219)
	// ============================================

	"E200": {
		Category: CategoryCLI,
		Message:  "Unknown output format",
		Detail:   "Supported formats are js, json and yaml.",
	},
	"E201": {
		Category: CategoryCLI,
		Message:  "Output file already exists",
	},
	"E202": {
		Category: CategoryCLI,
		Message:  "Project root not found",
	},
	"E203": {
		Category: CategoryCLI,
		Message:  "Configuration check failed",
	},

	// ============================================
	// Validation Errors (E300-E319)
	// ============================================

	"E300": {
		Category: CategoryValidation,
		Message:  "Invalid glob pattern",
	},
	"E301": {
		Category: CategoryValidation,
		Message:  "Invalid proxy target",
		Detail:   "The proxy target must be a host:port address.",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
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
