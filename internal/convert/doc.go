// Package convert transcodes audio files to WAV.
package convert
