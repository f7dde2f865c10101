package extraction

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoObject is returned when no brace-delimited region can be found
var ErrNoObject = errors.New("no JSON object found in response")

// Extractor locates the JSON object embedded in a model reply
type Extractor interface {
	Extract(text string) (string, error)
}

// SpanExtractor takes everything from the first '{' to the last '}'.
// Stray braces in surrounding prose make the span invalid JSON.
type SpanExtractor struct{}

// Extract implements Extractor
func (SpanExtractor) Extract(text string) (string, error) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", ErrNoObject
	}
	end := strings.LastIndex(text, "}")
	if end < start {
		return "", fmt.Errorf("unterminated JSON object in response: %w", ErrNoObject)
	}
	return text[start : end+1], nil
}

// BalancedExtractor returns the first balanced brace region, skipping braces
// that appear inside JSON string literals.
type BalancedExtractor struct{}

// Extract implements Extractor
func (BalancedExtractor) Extract(text string) (string, error) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", ErrNoObject
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced braces in response: %w", ErrNoObject)
}

// NewExtractor returns the extractor registered under name ("span" or "balanced")
func NewExtractor(name string) (Extractor, error) {
	switch name {
	case "", "span":
		return SpanExtractor{}, nil
	case "balanced":
		return BalancedExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown extractor %q", name)
	}
}
