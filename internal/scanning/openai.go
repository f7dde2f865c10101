package scanning

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI implements the Scanner interface against any OpenAI-compatible
// chat completions endpoint that accepts image parts
type OpenAI struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAI creates an OpenAI scanner. baseURL may be empty to use api.openai.com.
func NewOpenAI(apiKey, baseURL, modelName string, maxTokens int) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if modelName == "" {
		modelName = openai.GPT4o
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAI{
		client:    openai.NewClientWithConfig(cfg),
		model:     modelName,
		maxTokens: maxTokens,
	}, nil
}

// Analyze sends the prompt and a PNG data URI in a single user message
func (o *OpenAI) Analyze(ctx context.Context, imageData []byte, mediaType string) (string, error) {
	pngData, pngType, err := toPNG(imageData, mediaType)
	if err != nil {
		return "", err
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: ReceiptPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    fmt.Sprintf("data:%s;base64,%s", pngType, EncodeImage(pngData)),
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrNoResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// Close is a no-op for the HTTP-backed client
func (o *OpenAI) Close() error {
	return nil
}
