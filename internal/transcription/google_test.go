package transcription

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGoogleRequiresKey(t *testing.T) {
	_, err := NewGoogle(GoogleConfig{})
	assert.Error(t, err)

	g, err := NewGoogle(GoogleConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultGoogleEndpoint, g.config.Endpoint)
}

func TestGoogleRecognize(t *testing.T) {
	var gotBody int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ru-RU", r.URL.Query().Get("lang"))
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "audio/l16; rate=16000", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		gotBody = len(body)

		io.WriteString(w, "{\"result\":[]}\n")
		io.WriteString(w, `{"result":[{"alternative":[{"transcript":"добрый день","confidence":0.92},{"transcript":"добрый пень"}],"final":true}],"result_index":0}`+"\n")
	}))
	defer server.Close()

	g, err := NewGoogle(GoogleConfig{Endpoint: server.URL, APIKey: "secret"})
	require.NoError(t, err)

	clip := testClip(t)
	res := g.Recognize(context.Background(), clip, "ru-RU")
	require.Equal(t, Recognized, res.Outcome, "err: %v", res.Err)
	assert.Equal(t, "добрый день", res.Text)
	assert.Equal(t, len(clip.Samples)*2, gotBody)
}

func TestGoogleEmptyResultIsUnintelligible(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "{\"result\":[]}\n")
	}))
	defer server.Close()

	g, err := NewGoogle(GoogleConfig{Endpoint: server.URL, APIKey: "secret"})
	require.NoError(t, err)

	res := g.Recognize(context.Background(), testClip(t), "ru-RU")
	assert.Equal(t, Unintelligible, res.Outcome)
}

func TestGoogleServerErrorIsServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	g, err := NewGoogle(GoogleConfig{Endpoint: server.URL, APIKey: "secret"})
	require.NoError(t, err)

	res := g.Recognize(context.Background(), testClip(t), "ru-RU")
	assert.Equal(t, ServiceError, res.Outcome)
}

func TestGoogleMalformedResponseIsOtherError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>not json</html>")
	}))
	defer server.Close()

	g, err := NewGoogle(GoogleConfig{Endpoint: server.URL, APIKey: "secret"})
	require.NoError(t, err)

	res := g.Recognize(context.Background(), testClip(t), "ru-RU")
	assert.Equal(t, OtherError, res.Outcome)
}
