package transcription

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skypro1111/audio-transcriber/internal/audio"
)

// DefaultGoogleEndpoint is the Google web speech recognition API
const DefaultGoogleEndpoint = "https://www.google.com/speech-api/v2/recognize"

// googleSampleRate is the L16 rate sent to the web speech API
const googleSampleRate = 16000

// GoogleConfig configures the Google web speech recognizer
type GoogleConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Google recognizes speech with the Google web speech API.
// Audio is sent as 16 kHz mono linear PCM.
type Google struct {
	config     GoogleConfig
	httpClient *http.Client
}

type googleResponse struct {
	Result []struct {
		Alternative []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternative"`
		Final bool `json:"final"`
	} `json:"result"`
}

// NewGoogle creates a Google web speech recognizer
func NewGoogle(config GoogleConfig) (*Google, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("google speech API key cannot be empty")
	}

	if config.Endpoint == "" {
		config.Endpoint = DefaultGoogleEndpoint
	}

	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Google{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// Recognize sends the clip to the web speech API
func (g *Google) Recognize(ctx context.Context, clip *audio.Clip, language string) Result {
	pcm := clip.Mono().Resample(googleSampleRate).PCM16LE()

	query := url.Values{}
	query.Set("client", "chromium")
	query.Set("lang", language)
	query.Set("key", g.config.APIKey)
	query.Set("pFilter", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.Endpoint+"?"+query.Encode(), bytes.NewReader(pcm))
	if err != nil {
		return Failure(fmt.Errorf("failed to create HTTP request: %w", err))
	}
	req.Header.Set("Content-Type", fmt.Sprintf("audio/l16; rate=%d", googleSampleRate))

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Failure(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failure(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Failure(&statusError{StatusCode: resp.StatusCode, Body: string(body)})
	}

	text, err := parseGoogleResponse(body)
	if err != nil {
		return Failure(err)
	}

	return Text(text)
}

// parseGoogleResponse picks the best transcript from the newline-delimited
// JSON objects the API streams back. An empty result means no speech was found.
func parseGoogleResponse(body []byte) (string, error) {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var parsed googleResponse
		if err := json.Unmarshal([]byte(line), &parsed); err != nil {
			return "", fmt.Errorf("failed to parse response JSON: %w", err)
		}

		for _, result := range parsed.Result {
			best := ""
			bestConfidence := -1.0
			for _, alt := range result.Alternative {
				if alt.Confidence > bestConfidence {
					best = alt.Transcript
					bestConfidence = alt.Confidence
				}
			}
			if strings.TrimSpace(best) != "" {
				return best, nil
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	return "", nil
}
