// Package pipeline implements chunked speech transcription of audio files.
//
// A run probes the source file, and when it is at or above the size
// threshold splits it into silence-delimited or fixed-length chunks inside a
// per-run temporary directory. Each chunk is recognized in order with bounded
// retry, the fragments are joined by chunk index and the joined transcript is
// optionally translated. Smaller files are recognized in a single call.
//
// The temporary directory is always removed when Run returns.
package pipeline
