package audio

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// FFmpeg runs the ffmpeg and ffprobe command line tools.
// Empty binary names fall back to the tools on PATH.
type FFmpeg struct {
	Bin      string
	ProbeBin string
}

func (f FFmpeg) bin() string {
	if f.Bin == "" {
		return "ffmpeg"
	}
	return f.Bin
}

func (f FFmpeg) probeBin() string {
	if f.ProbeBin == "" {
		return "ffprobe"
	}
	return f.ProbeBin
}

// ToWAV transcodes any input ffmpeg understands into a 16-bit PCM WAV file
func (f FFmpeg) ToWAV(input, output string) error {
	cmd := exec.Command(f.bin(),
		"-v", "error",
		"-y",
		"-i", input,
		"-acodec", "pcm_s16le",
		output,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg %s: %w: %s", input, err, strings.TrimSpace(stderr.String()))
	}

	return nil
}

// Duration asks ffprobe for the container duration
func (f FFmpeg) Duration(path string) (time.Duration, error) {
	out, err := exec.Command(f.probeBin(),
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: unexpected duration %q: %w", path, strings.TrimSpace(string(out)), err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}
