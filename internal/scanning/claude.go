package scanning

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultClaudeModel = "claude-3-opus-20240229"
	defaultMaxTokens   = 1000
)

// ClaudeConfig configures the Anthropic scanner
type ClaudeConfig struct {
	APIKey    string
	Model     string
	MaxTokens int64
	// BaseURL overrides the API endpoint, mainly for tests
	BaseURL string
}

// Claude implements the Scanner interface using Anthropic's Messages API
type Claude struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewClaude creates a Claude scanner. An empty API key is accepted so the server can
// still start; every Analyze call will then be rejected by the API.
func NewClaude(cfg ClaudeConfig) *Claude {
	if cfg.Model == "" {
		cfg.Model = defaultClaudeModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Claude{
		client:    anthropic.NewClient(opts...),
		model:     anthropic.Model(cfg.Model),
		maxTokens: cfg.MaxTokens,
	}
}

// Analyze sends the prompt and the base64 image as one user message
func (c *Claude) Analyze(ctx context.Context, imageData []byte, mediaType string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(ReceiptPrompt),
				anthropic.NewImageBlockBase64(normalizeMediaType(mediaType), EncodeImage(imageData)),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling claude: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", ErrNoResponse
	}
	return text.String(), nil
}

// Close is a no-op; the SDK client holds no resources that need releasing
func (c *Claude) Close() error {
	return nil
}
