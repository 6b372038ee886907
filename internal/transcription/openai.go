package transcription

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/skypro1111/audio-transcriber/internal/audio"
)

// OpenAIConfig configures the Whisper recognizer
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAI recognizes speech with the OpenAI audio transcription API
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a Whisper recognizer
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
		model = openai.Whisper1
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Recognize uploads the clip as WAV and returns the transcript
func (o *OpenAI) Recognize(ctx context.Context, clip *audio.Clip, language string) Result {
	wavData, err := clip.WAV()
	if err != nil {
		return Result{Outcome: OtherError, Err: err}
	}

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: "audio.wav",
		Reader:   bytes.NewReader(wavData),
		Language: baseLanguage(language),
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return Result{Outcome: classifyOpenAIError(err), Err: fmt.Errorf("openai transcription: %w", err)}
	}

	return Text(resp.Text)
}

func classifyOpenAIError(err error) Outcome {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode)
	}

	return classifyError(err)
}
