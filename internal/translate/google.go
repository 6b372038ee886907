package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultGoogleEndpoint is the public Google Translate web endpoint
const DefaultGoogleEndpoint = "https://translate.googleapis.com/translate_a/single"

// Google translates text through the Google Translate web endpoint
type Google struct {
	endpoint   string
	httpClient *http.Client
}

// NewGoogle creates a Google translator; an empty endpoint uses the default
func NewGoogle(endpoint string, timeout time.Duration) *Google {
	if endpoint == "" {
		endpoint = DefaultGoogleEndpoint
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Google{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Translate posts text and joins the translated sentences from the response
func (g *Google) Translate(ctx context.Context, text, source, target string) (string, error) {
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", source)
	query.Set("tl", target)
	query.Set("dt", "t")

	form := url.Values{}
	form.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"?"+query.Encode(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse extracts sentences from [[["translated","original",...],...],...]
func parseGoogleResponse(body []byte) (string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("failed to parse response JSON: %w", err)
	}

	if len(raw) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	var sentences [][]any
	if err := json.Unmarshal(raw[0], &sentences); err != nil {
		return "", fmt.Errorf("unexpected translation payload: %w", err)
	}

	var sb strings.Builder
	for _, sentence := range sentences {
		if len(sentence) == 0 {
			continue
		}
		if s, ok := sentence[0].(string); ok {
			sb.WriteString(s)
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("translation response contained no text")
	}

	return sb.String(), nil
}
