package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/skypro1111/audio-transcriber/internal/audio"
	"github.com/skypro1111/audio-transcriber/internal/metrics"
	"github.com/skypro1111/audio-transcriber/internal/vad"
)

// ErrNoSegments is returned when a source yields nothing to transcribe
var ErrNoSegments = errors.New("no audio segments to write")

// Strategy names how a source was segmented
type Strategy string

const (
	StrategySilence Strategy = "silence"
	StrategyFixed   Strategy = "fixed"
)

// Chunk is one segment of a source written to its own temporary file
type Chunk struct {
	Index    int
	Path     string
	Duration time.Duration
}

// ChunkSet is the output of a split: ordered chunks inside Dir
type ChunkSet struct {
	Dir      string
	Chunks   []Chunk
	Strategy Strategy
}

// ChunkSplitter splits a source file into chunk files inside dir
type ChunkSplitter interface {
	Split(path, dir string) (*ChunkSet, error)
}

// SplitterConfig holds chunking parameters
type SplitterConfig struct {
	MaxChunkLength   time.Duration
	MaxSilenceChunks int
	Silence          vad.DetectorConfig
	Export           audio.ExportOptions
}

// DefaultSplitterConfig returns 120 s windows, at most 10 silence chunks and
// the default silence detector settings
func DefaultSplitterConfig() SplitterConfig {
	return SplitterConfig{
		MaxChunkLength:   120 * time.Second,
		MaxSilenceChunks: 10,
		Silence:          vad.DefaultDetectorConfig(),
	}
}

// Splitter segments audio files on silence, falling back to fixed windows
type Splitter struct {
	config   SplitterConfig
	decoder  audio.Decoder
	detector *vad.Detector
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewSplitter creates a splitter
func NewSplitter(config SplitterConfig, decoder audio.Decoder, logger *slog.Logger, m *metrics.Metrics) (*Splitter, error) {
	if config.MaxChunkLength <= 0 {
		return nil, fmt.Errorf("max chunk length must be positive")
	}
	if config.MaxSilenceChunks <= 0 {
		return nil, fmt.Errorf("max silence chunks must be positive")
	}
	if err := config.Export.Validate(); err != nil {
		return nil, err
	}

	detector, err := vad.NewDetector(config.Silence)
	if err != nil {
		return nil, fmt.Errorf("failed to create silence detector: %w", err)
	}

	return &Splitter{
		config:   config,
		decoder:  decoder,
		detector: detector,
		metrics:  m,
		logger:   logger,
	}, nil
}

// Split decodes path and writes chunk_<index>.wav files into dir. Any existing
// dir is removed first. On failure dir is removed and no chunks are returned.
func (s *Splitter) Split(path, dir string) (*ChunkSet, error) {
	clip, err := s.decoder.Decode(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	ranges, strategy := s.plan(clip)
	if len(ranges) == 0 {
		return nil, ErrNoSegments
	}

	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("failed to clear chunk directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chunk directory: %w", err)
	}

	chunks, err := s.write(clip, ranges, dir, strategy)
	if err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			s.logger.Warn("Failed to remove partial chunk directory",
				slog.String("dir", dir),
				slog.String("error", rmErr.Error()))
		}
		return nil, err
	}

	s.logger.Info("Audio split into chunks",
		slog.String("path", path),
		slog.String("strategy", string(strategy)),
		slog.Int("chunks", len(chunks)))

	return &ChunkSet{
		Dir:      dir,
		Chunks:   chunks,
		Strategy: strategy,
	}, nil
}

// plan picks silence ranges when there are between 1 and MaxSilenceChunks of
// them, otherwise fixed windows of MaxChunkLength
func (s *Splitter) plan(clip *audio.Clip) ([]vad.Range, Strategy) {
	ranges := s.detector.Split(clip.Samples, clip.SampleRate, clip.Channels)
	if len(ranges) > 0 && len(ranges) <= s.config.MaxSilenceChunks {
		return ranges, StrategySilence
	}

	s.logger.Debug("Falling back to fixed-length chunks",
		slog.Int("silence_segments", len(ranges)),
		slog.Int("max_silence_chunks", s.config.MaxSilenceChunks))

	return FixedRanges(clip.Frames(), audio.DurationToFrames(s.config.MaxChunkLength, clip.SampleRate)), StrategyFixed
}

func (s *Splitter) write(clip *audio.Clip, ranges []vad.Range, dir string, strategy Strategy) ([]Chunk, error) {
	chunks := make([]Chunk, 0, len(ranges))
	for i, r := range ranges {
		segment := clip.SliceFrames(r.Start, r.End)
		chunkPath := filepath.Join(dir, fmt.Sprintf("chunk_%d.wav", i))

		if err := audio.WriteWAV(chunkPath, segment, s.config.Export); err != nil {
			return nil, fmt.Errorf("failed to write chunk %d: %w", i, err)
		}

		d := segment.Duration()
		chunks = append(chunks, Chunk{
			Index:    i,
			Path:     chunkPath,
			Duration: d,
		})
		s.metrics.RecordChunkGenerated(string(strategy), d.Seconds())
	}
	return chunks, nil
}

// FixedRanges partitions frames into consecutive windows; the last may be shorter
func FixedRanges(frames, window int) []vad.Range {
	if frames <= 0 || window <= 0 {
		return nil
	}

	ranges := make([]vad.Range, 0, (frames+window-1)/window)
	for start := 0; start < frames; start += window {
		end := start + window
		if end > frames {
			end = frames
		}
		ranges = append(ranges, vad.Range{Start: start, End: end})
	}
	return ranges
}
