package receipt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docguard/docguard-backend/internal/extraction"
	"github.com/docguard/docguard-backend/internal/scanning"
)

// Options tunes the analysis pipeline
type Options struct {
	// Timeout bounds the model call. Zero leaves the call unbounded.
	Timeout time.Duration
	// RecoverTIN copies a TIN quoted in rawText into an empty vendorTIN
	RecoverTIN bool
}

// Service runs uploads through the scanner and parser. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	scanner scanning.Scanner
	parser  *extraction.Parser
	opts    Options
}

// NewService creates a new Service with default options
func NewService(scanner scanning.Scanner, parser *extraction.Parser) *Service {
	return NewServiceWithOptions(scanner, parser, Options{})
}

// NewServiceWithOptions creates a new Service with custom options
func NewServiceWithOptions(scanner scanning.Scanner, parser *extraction.Parser, opts Options) *Service {
	if parser == nil {
		parser = extraction.NewParser(nil)
	}
	return &Service{
		scanner: scanner,
		parser:  parser,
		opts:    opts,
	}
}

// Analyze sends one receipt to the model and parses its reply. An unparseable reply
// yields the fallback stub, not an error; errors come only from the model call.
func (s *Service) Analyze(ctx context.Context, filename string, data []byte, contentType string) (extraction.Result, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	started := time.Now()
	reply, err := s.scanner.Analyze(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}
	slog.Info("Receipt scanned", "filename", filename, "reply_length", len(reply), "elapsed", time.Since(started))

	result, err := s.parser.ParseStrict(reply)
	if err != nil {
		slog.Warn("Model reply is not valid JSON, using fallback", "filename", filename, "error", err)
		result = extraction.Fallback(reply)
	} else if missing, unknown := result.Deviations(); len(missing) > 0 || len(unknown) > 0 {
		slog.Warn("Model reply deviates from schema", "filename", filename, "missing", missing, "unknown", unknown)
	}

	if s.opts.RecoverTIN && extraction.RecoverTIN(result) {
		slog.Info("Recovered vendor TIN from raw text", "filename", filename, "tin", result[extraction.KeyVendorTIN])
	}

	return result, nil
}
