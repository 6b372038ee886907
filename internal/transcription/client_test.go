package transcription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skypro1111/audio-transcriber/internal/audio"
)

func testClip(t *testing.T) *audio.Clip {
	t.Helper()
	samples := make([]int16, 16000)
	for i := range samples {
		samples[i] = int16((i % 100) * 100)
	}
	clip, err := audio.NewClip(samples, 16000, 1)
	require.NoError(t, err)
	return clip
}

// fakeTranscriptionServer mimics a whisper-compatible multipart endpoint
func fakeTranscriptionServer(t *testing.T, text string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "Error getting audio file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		audioData, err := io.ReadAll(file)
		if err != nil || len(audioData) <= 44 {
			http.Error(w, "Error reading audio file", http.StatusBadRequest)
			return
		}

		assert.Equal(t, "audio.wav", header.Filename)
		assert.Equal(t, "ru", r.FormValue("language"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(TranscriptionResponse{Text: text})
	}))
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)

	_, err = NewClient(Config{Endpoint: "http://localhost", OutputFormat: "xml"})
	assert.Error(t, err)

	c, err := NewClient(Config{Endpoint: "http://localhost"})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, c.config.Timeout)
	assert.Equal(t, "json", c.config.OutputFormat)
}

func TestClientRecognize(t *testing.T) {
	server := fakeTranscriptionServer(t, "Привет, мир")
	defer server.Close()

	c, err := NewClient(Config{Endpoint: server.URL, APIKey: "test-key"})
	require.NoError(t, err)

	res := c.Recognize(context.Background(), testClip(t), "ru-RU")
	require.Equal(t, Recognized, res.Outcome, "err: %v", res.Err)
	assert.Equal(t, "Привет, мир", res.Text)
}

func TestClientRecognizeBlankIsUnintelligible(t *testing.T) {
	server := fakeTranscriptionServer(t, "   ")
	defer server.Close()

	c, err := NewClient(Config{Endpoint: server.URL, APIKey: "test-key"})
	require.NoError(t, err)

	res := c.Recognize(context.Background(), testClip(t), "ru-RU")
	assert.Equal(t, Unintelligible, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrUnintelligible)
}

func TestClientTextFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text", r.FormValue("response_format"))
		fmt.Fprint(w, "текст\n")
	}))
	defer server.Close()

	c, err := NewClient(Config{Endpoint: server.URL, OutputFormat: "text"})
	require.NoError(t, err)

	res := c.Recognize(context.Background(), testClip(t), "ru-RU")
	require.Equal(t, Recognized, res.Outcome)
	assert.Equal(t, "текст", res.Text)
}

func TestClientStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		want   Outcome
	}{
		{http.StatusInternalServerError, ServiceError},
		{http.StatusBadGateway, ServiceError},
		{http.StatusTooManyRequests, ServiceError},
		{http.StatusRequestTimeout, ServiceError},
		{http.StatusBadRequest, OtherError},
		{http.StatusUnauthorized, OtherError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			c, err := NewClient(Config{Endpoint: server.URL})
			require.NoError(t, err)

			res := c.Recognize(context.Background(), testClip(t), "ru-RU")
			assert.Equal(t, tt.want, res.Outcome)
			assert.Error(t, res.Err)
		})
	}
}

func TestClientConnectionRefusedIsServiceError(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()

	c, err := NewClient(Config{Endpoint: "http://" + addr + "/transcribe", Timeout: time.Second})
	require.NoError(t, err)

	res := c.Recognize(context.Background(), testClip(t), "ru-RU")
	assert.Equal(t, ServiceError, res.Outcome)
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, ServiceError, classifyError(context.DeadlineExceeded))
	assert.Equal(t, ServiceError, classifyError(fmt.Errorf("wrapped: %w", &statusError{StatusCode: 503})))
	assert.Equal(t, Unintelligible, classifyError(ErrUnintelligible))
	assert.Equal(t, OtherError, classifyError(errors.New("boom")))
}

func TestBaseLanguage(t *testing.T) {
	assert.Equal(t, "ru", baseLanguage("ru-RU"))
	assert.Equal(t, "en", baseLanguage("EN"))
}
