// Package transcription implements speech recognition backends.
// Every backend returns a Result whose Outcome tells callers whether a retry
// can help: service failures can be retried, unintelligible audio cannot.
package transcription
