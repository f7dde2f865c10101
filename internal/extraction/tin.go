package extraction

import (
	"regexp"
	"strings"
)

// tinPattern matches "TIN: 000-000-000-000" and the 5-digit branch code variant
var tinPattern = regexp.MustCompile(`(?i)TIN[:\s]*(\d{3}-\d{3}-\d{3}-\d{5}|\d{3}-\d{3}-\d{3}-\d{3})`)

// RecoverTIN fills vendorTIN from rawText when the model left it empty but quoted
// the TIN elsewhere. It reports whether r was changed.
func RecoverTIN(r Result) bool {
	if tin, ok := r[KeyVendorTIN].(string); ok && strings.TrimSpace(tin) != "" && !strings.EqualFold(tin, "null") {
		return false
	}

	raw, ok := r[KeyRawText].(string)
	if !ok {
		return false
	}

	match := tinPattern.FindStringSubmatch(raw)
	if match == nil {
		return false
	}
	r[KeyVendorTIN] = match[1]
	return true
}
