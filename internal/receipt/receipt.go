package receipt

import (
	"encoding/json"

	"github.com/docguard/docguard-backend/internal/extraction"
)

const (
	healthMessage   = "DocGuard AI Backend Running"
	analyzedMessage = "Receipt analyzed successfully"
	failedMessage   = "Failed to analyze receipt"
	testMessage     = "Test receipt data"
)

// Envelope is the body of a successful receipt response
type Envelope struct {
	Success bool              `json:"success"`
	Data    extraction.Result `json:"data"`
	Message string            `json:"message"`
}

// FailureEnvelope is the body of a failed analysis. Error is always present, even when empty.
type FailureEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Detail is the body of routing errors such as unknown paths
type Detail struct {
	Detail string `json:"detail"`
}

// Health is the body of the health check
type Health struct {
	Message string `json:"message"`
}

// mockReceipt is served by /test-receipt so clients can integrate without model calls
func mockReceipt() extraction.Result {
	return extraction.Result{
		extraction.KeyVendor:          "Ace Hardware Philippines",
		extraction.KeyAmount:          json.Number("2750.00"),
		extraction.KeyDate:            "2024-05-28",
		extraction.KeyReceiptType:     "Official Receipt",
		extraction.KeyReferenceNumber: "OR-123456",
		extraction.KeyItems:           "Paint supplies, brushes",
		extraction.KeyConfidence:      json.Number("95"),
		extraction.KeyRawText:         "Sample receipt data",
	}
}
