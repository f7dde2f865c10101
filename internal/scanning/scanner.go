package scanning

import (
	"context"
	"errors"
)

// ErrNoResponse is returned when the model replies without any text
var ErrNoResponse = errors.New("no text in model response")

// Scanner sends a receipt image to a vision model and returns its free-text reply
type Scanner interface {
	// Analyze sends the image and ReceiptPrompt to the model in a single attempt
	Analyze(ctx context.Context, imageData []byte, mediaType string) (string, error)
	// Close closes the scanner and releases resources
	Close() error
}
