package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Parser turns a model reply into a Result
type Parser struct {
	extractor Extractor
}

// NewParser creates a Parser. A nil extractor defaults to SpanExtractor.
func NewParser(extractor Extractor) *Parser {
	if extractor == nil {
		extractor = SpanExtractor{}
	}
	return &Parser{extractor: extractor}
}

// Parse returns the JSON object embedded in reply, or the fallback stub if there is none
func (p *Parser) Parse(reply string) Result {
	result, err := p.ParseStrict(reply)
	if err != nil {
		return Fallback(reply)
	}
	return result
}

// ParseStrict is Parse without the fallback: it reports why the reply could not be parsed
func (p *Parser) ParseStrict(reply string) (Result, error) {
	candidate, err := p.extractor.Extract(reply)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(candidate)))
	dec.UseNumber()

	var result Result
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}
	if result == nil {
		return nil, ErrNoObject
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON object")
	}
	return result, nil
}
