package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skypro1111/audio-transcriber/internal/audio"
	"github.com/skypro1111/audio-transcriber/internal/transcription"
)

const testRate = 1000 // one frame per millisecond

type span struct {
	ms        int
	amplitude int16
}

func tone(ms int) span    { return span{ms: ms, amplitude: 10000} }
func silence(ms int) span { return span{ms: ms} }

func samplesOf(spans ...span) []int16 {
	samples := make([]int16, 0)
	for _, s := range spans {
		for i := 0; i < s.ms; i++ {
			v := s.amplitude
			if i%2 == 1 {
				v = -v
			}
			samples = append(samples, v)
		}
	}
	return samples
}

// writeRecording writes a mono 1 kHz WAV built from spans and returns its path
func writeRecording(t *testing.T, dir, name string, spans ...span) string {
	t.Helper()
	clip, err := audio.NewClip(samplesOf(spans...), testRate, 1)
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, audio.WriteWAV(path, clip, audio.ExportOptions{}))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedRecognizer returns results in call order, then "fragment <n>"
type scriptedRecognizer struct {
	results   []transcription.Result
	calls     int
	languages []string
	durations []time.Duration
}

func (r *scriptedRecognizer) Recognize(_ context.Context, clip *audio.Clip, language string) transcription.Result {
	r.calls++
	r.languages = append(r.languages, language)
	r.durations = append(r.durations, clip.Duration())

	if r.calls <= len(r.results) {
		return r.results[r.calls-1]
	}
	return transcription.Text(fmt.Sprintf("fragment %d", r.calls-1))
}

func unintelligible() transcription.Result {
	return transcription.Result{Outcome: transcription.Unintelligible, Err: transcription.ErrUnintelligible}
}

func serviceError() transcription.Result {
	return transcription.Result{Outcome: transcription.ServiceError, Err: errors.New("HTTP error 503: unavailable")}
}

func otherError() transcription.Result {
	return transcription.Result{Outcome: transcription.OtherError, Err: errors.New("unexpected payload")}
}

type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.waits = append(s.waits, d)
}

type fakeTranslator struct {
	calls  int
	text   string
	source string
	target string
	out    string
	err    error
}

func (f *fakeTranslator) Translate(_ context.Context, text, source, target string) (string, error) {
	f.calls++
	f.text, f.source, f.target = text, source, target
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

// spySplitter records calls and delegates to a real splitter
type spySplitter struct {
	inner ChunkSplitter
	calls int
	dir   string
}

func (s *spySplitter) Split(path, dir string) (*ChunkSet, error) {
	s.calls++
	s.dir = dir
	return s.inner.Split(path, dir)
}
