package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Source describes an audio file selected for transcription
type Source struct {
	Path string
	// Duration is nil when the file could not be probed
	Duration *time.Duration
	Size     int64
}

// DurationProber reads the playback length of an audio file
type DurationProber interface {
	Duration(path string) (time.Duration, error)
}

// Prober inspects audio files before transcription
type Prober struct {
	durations DurationProber
	logger    *slog.Logger
}

// NewProber creates a prober
func NewProber(durations DurationProber, logger *slog.Logger) *Prober {
	return &Prober{
		durations: durations,
		logger:    logger,
	}
}

// Probe returns the size and, when readable, the duration of the file at path.
// Duration failures are logged and leave Source.Duration nil.
func (p *Prober) Probe(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Source{}, fmt.Errorf("%s is a directory", path)
	}

	src := Source{
		Path: path,
		Size: info.Size(),
	}

	d, err := p.durations.Duration(path)
	if err != nil {
		p.logger.Warn("Could not determine audio duration",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return src, nil
	}

	src.Duration = &d
	return src, nil
}
