package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/skypro1111/audio-transcriber/internal/audio"
)

// Client sends audio to a generic multipart transcription endpoint
// (whisper-compatible servers and similar)
type Client struct {
	config     Config
	httpClient *http.Client
}

// Config contains transcription client configuration
type Config struct {
	Endpoint     string
	APIKey       string
	Model        string
	Timeout      time.Duration
	OutputFormat string // "json" or "text"
}

// TranscriptionResponse is the JSON body returned by the endpoint
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// NewClient creates a new transcription HTTP client
func NewClient(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}

	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	if config.OutputFormat == "" {
		config.OutputFormat = "json"
	}

	if config.OutputFormat != "json" && config.OutputFormat != "text" {
		return nil, fmt.Errorf("output format must be 'json' or 'text', got '%s'", config.OutputFormat)
	}

	httpClient := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// Recognize uploads the clip as a WAV file and returns the recognized text
func (c *Client) Recognize(ctx context.Context, clip *audio.Clip, language string) Result {
	text, err := c.doRequest(ctx, clip, language)
	if err != nil {
		return Failure(err)
	}
	return Text(text)
}

// doRequest performs a single HTTP request to the transcription API
func (c *Client) doRequest(ctx context.Context, clip *audio.Clip, language string) (string, error) {
	body, contentType, err := c.createMultipartRequest(clip, language)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", contentType)
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
	httpReq.Header.Set("Accept", "application/json, text/plain")
	httpReq.Header.Set("User-Agent", "audio-transcriber/1.0")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &statusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if c.config.OutputFormat == "text" {
		return string(respBody), nil
	}

	var transcriptionResp TranscriptionResponse
	if err := json.Unmarshal(respBody, &transcriptionResp); err != nil {
		return "", fmt.Errorf("failed to parse response JSON: %w", err)
	}

	return transcriptionResp.Text, nil
}

// createMultipartRequest creates a multipart/form-data request body
func (c *Client) createMultipartRequest(clip *audio.Clip, language string) (io.Reader, string, error) {
	wavData, err := clip.WAV()
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fileWriter, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := fileWriter.Write(wavData); err != nil {
		return nil, "", fmt.Errorf("failed to write audio data: %w", err)
	}

	fields := map[string]string{
		"language":        baseLanguage(language),
		"response_format": c.config.OutputFormat,
		"sample_rate":     fmt.Sprintf("%d", clip.SampleRate),
		"duration":        fmt.Sprintf("%.3f", clip.Duration().Seconds()),
	}
	if c.config.Model != "" {
		fields["model"] = c.config.Model
	}

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// String identifies the backend in logs
func (c *Client) String() string {
	return "http(" + strings.TrimSuffix(c.config.Endpoint, "/") + ")"
}
