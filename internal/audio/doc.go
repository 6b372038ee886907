// Package audio decodes, probes, converts and writes audio files.
// Decoded audio is held as interleaved 16-bit PCM in a Clip; WAV, AIFF and
// OGG Vorbis are decoded natively and any other container goes through ffmpeg.
package audio
