package main

import (
	"time"

	"github.com/peterbourgon/ff/v4"
)

// config holds the command-line and environment settings
type config struct {
	port         int
	scannerType  string
	anthropicKey string
	claudeModel  string
	maxTokens    int
	geminiKey    string
	geminiModel  string
	ollamaURL    string
	ollamaModel  string
	openaiKey    string
	openaiModel  string
	openaiURL    string
	scanTimeout  time.Duration
	maxUpload    int64
	extractor    string
	recoverTIN   bool
}

// parseConfig parses args, falling back to DOCGUARD_* environment variables.
// The flag set is returned so callers can print help on error.
func parseConfig(args []string) (*config, *ff.FlagSet, error) {
	fs := ff.NewFlagSet("docguard")
	var (
		port         = fs.IntLong("port", 8000, "HTTP server port")
		scannerType  = fs.StringLong("scanner", "claude", "Vision model backend: 'claude', 'gemini', 'ollama' or 'openai'")
		anthropicKey = fs.StringLong("anthropic-key", "", "Anthropic API key (or set ANTHROPIC_API_KEY env var)")
		claudeModel  = fs.StringLong("claude-model", "claude-3-opus-20240229", "Claude model name")
		maxTokens    = fs.IntLong("max-tokens", 1000, "Maximum tokens in the model reply")
		geminiKey    = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel  = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL    = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel  = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, qwen2-vl)")
		openaiKey    = fs.StringLong("openai-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		openaiModel  = fs.StringLong("openai-model", "gpt-4o", "OpenAI model name")
		openaiURL    = fs.StringLong("openai-url", "", "OpenAI-compatible API base URL (default api.openai.com)")
		scanTimeout  = fs.DurationLong("scan-timeout", 0, "Timeout for the model call (0 waits indefinitely)")
		maxUpload    = fs.IntLong("max-upload", 0, "Maximum upload size in bytes (0 for unlimited)")
		extractor    = fs.StringLong("extractor", "span", "JSON extraction strategy: 'span' (first { to last }) or 'balanced'")
		recoverTIN   = fs.BoolLong("recover-tin", "Copy a TIN found in rawText into an empty vendorTIN")
		_            = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("DOCGUARD")); err != nil {
		return nil, fs, err
	}

	return &config{
		port:         *port,
		scannerType:  *scannerType,
		anthropicKey: *anthropicKey,
		claudeModel:  *claudeModel,
		maxTokens:    *maxTokens,
		geminiKey:    *geminiKey,
		geminiModel:  *geminiModel,
		ollamaURL:    *ollamaURL,
		ollamaModel:  *ollamaModel,
		openaiKey:    *openaiKey,
		openaiModel:  *openaiModel,
		openaiURL:    *openaiURL,
		scanTimeout:  *scanTimeout,
		maxUpload:    int64(*maxUpload),
		extractor:    *extractor,
		recoverTIN:   *recoverTIN,
	}, fs, nil
}
