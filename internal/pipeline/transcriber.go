package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/skypro1111/audio-transcriber/internal/audio"
	"github.com/skypro1111/audio-transcriber/internal/metrics"
	"github.com/skypro1111/audio-transcriber/internal/transcription"
)

// DefaultLanguage is the recognition language for every call
const DefaultLanguage = "ru-RU"

// RetryPolicy bounds recognition attempts for one file
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first
	MaxAttempts int
	Wait        time.Duration
	// RetryOther also retries OtherError outcomes; ServiceError is always retried
	RetryOther bool
}

// ChunkRetryPolicy is used for chunks: only service errors are retried
func ChunkRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Wait: 2 * time.Second}
}

// WholeFileRetryPolicy is used for direct runs: any failure except
// unintelligible speech is retried
func WholeFileRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Wait: 2 * time.Second, RetryOther: true}
}

// Sleeper blocks between attempts
type Sleeper func(time.Duration)

// Transcriber recognizes single audio files with retry
type Transcriber struct {
	recognizer transcription.Recognizer
	decoder    audio.Decoder
	language   string
	sleep      Sleeper
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewTranscriber creates a transcriber for DefaultLanguage using time.Sleep
func NewTranscriber(recognizer transcription.Recognizer, decoder audio.Decoder, logger *slog.Logger, m *metrics.Metrics) *Transcriber {
	return &Transcriber{
		recognizer: recognizer,
		decoder:    decoder,
		language:   DefaultLanguage,
		sleep:      time.Sleep,
		metrics:    m,
		logger:     logger,
	}
}

// WithSleeper replaces the wait between attempts
func (t *Transcriber) WithSleeper(sleep Sleeper) *Transcriber {
	t.sleep = sleep
	return t
}

// TranscribeFile loads path and recognizes it under policy. It reports false
// when the audio could not be decoded, was unintelligible or every allowed
// attempt failed.
func (t *Transcriber) TranscribeFile(ctx context.Context, path string, policy RetryPolicy) (string, bool) {
	clip, err := t.decoder.Decode(path)
	if err != nil {
		t.logger.Warn("Failed to load audio for recognition",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return "", false
	}

	return t.Transcribe(ctx, clip, policy)
}

// Transcribe recognizes clip under policy
func (t *Transcriber) Transcribe(ctx context.Context, clip *audio.Clip, policy RetryPolicy) (string, bool) {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		start := time.Now()
		res := t.recognizer.Recognize(ctx, clip, t.language)
		t.metrics.RecordRecognition(res.Outcome.String(), time.Since(start).Seconds())

		switch res.Outcome {
		case transcription.Recognized:
			t.metrics.RecordFragment()
			return res.Text, true

		case transcription.Unintelligible:
			t.logger.Info("Speech not recognized", slog.Int("attempt", attempt))
			return "", false

		case transcription.OtherError:
			if !policy.RetryOther {
				t.logger.Warn("Recognition failed",
					slog.Int("attempt", attempt),
					slog.String("error", errString(res.Err)))
				return "", false
			}
		}

		if attempt >= attempts {
			t.logger.Warn("Recognition failed after all attempts",
				slog.Int("attempts", attempt),
				slog.String("outcome", res.Outcome.String()),
				slog.String("error", errString(res.Err)))
			return "", false
		}

		if ctx.Err() != nil {
			t.logger.Warn("Recognition cancelled", slog.String("error", ctx.Err().Error()))
			return "", false
		}

		t.logger.Warn("Recognition attempt failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.String("outcome", res.Outcome.String()),
			slog.Duration("wait", policy.Wait),
			slog.String("error", errString(res.Err)))

		t.metrics.RecordRetry()
		t.sleep(policy.Wait)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
