// Package vad separates speech from silence using windowed RMS energy.
// It reports silent and non-silent frame ranges and the padded segments
// a recording should be cut into at silence boundaries.
package vad
