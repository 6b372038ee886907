package translate

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the chat completion translator
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAI translates text with a chat completion model
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a chat completion translator
func NewOpenAI(config OpenAIConfig) (*OpenAI, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key cannot be empty")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	model := config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Translate asks the model for a plain translation of text
func (o *OpenAI) Translate(ctx context.Context, text, source, target string) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the user's message from %s to %s. Reply with the translation only, keeping line breaks.",
		LanguageName(source), LanguageName(target),
	)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("openai translation: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai translation: empty response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
