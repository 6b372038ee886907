package transcription

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/skypro1111/audio-transcriber/internal/audio"
)

// Outcome classifies a recognition attempt
type Outcome int

const (
	// Recognized means speech was turned into text
	Recognized Outcome = iota
	// Unintelligible means the service understood the request but found no speech
	Unintelligible
	// ServiceError covers network failures, timeouts, throttling and 5xx responses
	ServiceError
	// OtherError is any other failure
	OtherError
)

// String returns the metric label for the outcome
func (o Outcome) String() string {
	switch o {
	case Recognized:
		return "recognized"
	case Unintelligible:
		return "unintelligible"
	case ServiceError:
		return "service_error"
	default:
		return "other_error"
	}
}

// ErrUnintelligible is attached to Unintelligible results
var ErrUnintelligible = errors.New("speech could not be understood")

// Result is the outcome of one recognition call
type Result struct {
	Outcome Outcome
	Text    string
	Err     error
}

// Text builds a Recognized result, or Unintelligible when text is blank
func Text(text string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Outcome: Unintelligible, Err: ErrUnintelligible}
	}
	return Result{Outcome: Recognized, Text: text}
}

// Failure classifies err into a ServiceError or OtherError result
func Failure(err error) Result {
	return Result{Outcome: classifyError(err), Err: err}
}

// Recognizer turns captured audio into text in the given language (BCP-47, e.g. "ru-RU")
type Recognizer interface {
	Recognize(ctx context.Context, clip *audio.Clip, language string) Result
}

// statusError is returned for non-2xx HTTP responses
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Body)
}

func classifyError(err error) Outcome {
	if err == nil {
		return Recognized
	}

	if errors.Is(err, ErrUnintelligible) {
		return Unintelligible
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ServiceError
	}

	var se *statusError
	if errors.As(err, &se) {
		return classifyStatus(se.StatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ServiceError
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ServiceError
	}

	return OtherError
}

// classifyStatus treats timeouts, throttling and server errors as service failures
func classifyStatus(code int) Outcome {
	switch {
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return ServiceError
	case code >= 500:
		return ServiceError
	default:
		return OtherError
	}
}

// baseLanguage reduces "ru-RU" to "ru"
func baseLanguage(language string) string {
	base, _, _ := strings.Cut(language, "-")
	return strings.ToLower(base)
}
