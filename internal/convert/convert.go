package convert

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/skypro1111/audio-transcriber/internal/audio"
)

// DefaultOutputDir is where converted files are written
const DefaultOutputDir = "audio_files"

// Converter decodes any supported input and writes <OutputDir>/<basename>.wav
type Converter struct {
	decoder   audio.Decoder
	outputDir string
	options   audio.ExportOptions
	logger    *slog.Logger
}

// NewConverter creates a converter; an empty outputDir uses DefaultOutputDir
func NewConverter(decoder audio.Decoder, outputDir string, options audio.ExportOptions, logger *slog.Logger) (*Converter, error) {
	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid export options: %w", err)
	}

	if outputDir == "" {
		outputDir = DefaultOutputDir
	}

	return &Converter{
		decoder:   decoder,
		outputDir: outputDir,
		options:   options,
		logger:    logger,
	}, nil
}

// OutputPath returns the WAV path input converts to
func (c *Converter) OutputPath(input string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(c.outputDir, name+".wav")
}

// Convert writes input as WAV and returns the output path
func (c *Converter) Convert(input string) (string, error) {
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	output := c.OutputPath(input)

	c.logger.Debug("Loading audio", slog.String("input", input))
	clip, err := c.decoder.Decode(input)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", input, err)
	}

	c.logger.Debug("Writing WAV",
		slog.String("output", output),
		slog.Int("sample_rate", clip.SampleRate),
		slog.Int("channels", clip.Channels),
		slog.Duration("duration", clip.Duration()))

	if err := audio.WriteWAV(output, clip, c.options); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", output, err)
	}

	return output, nil
}
