package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/skypro1111/audio-transcriber/internal/metrics"
	"github.com/skypro1111/audio-transcriber/internal/translate"
)

// Route is the path a run took through the pipeline
type Route string

const (
	RouteDirect  Route = "direct"
	RouteChunked Route = "chunked"
)

// DefaultSizeThreshold is the file size at which runs are chunked (10 MiB)
const DefaultSizeThreshold int64 = 10 * 1024 * 1024

// Config holds orchestration settings
type Config struct {
	BaseDir  string
	ChunkDir string
	// SizeThreshold routes files of at least this many bytes through the splitter
	SizeThreshold   int64
	SourceLanguage  string
	ChunkPolicy     RetryPolicy
	WholeFilePolicy RetryPolicy
}

// DefaultConfig returns the standard orchestration settings
func DefaultConfig() Config {
	return Config{
		BaseDir:         ".",
		ChunkDir:        "temp_chunks",
		SizeThreshold:   DefaultSizeThreshold,
		SourceLanguage:  "ru",
		ChunkPolicy:     ChunkRetryPolicy(),
		WholeFilePolicy: WholeFileRetryPolicy(),
	}
}

// RunOptions are per-run choices made by the caller
type RunOptions struct {
	Translate bool
	// Target is the translation language; empty means "en"
	Target string
}

// Result is the outcome of one run
type Result struct {
	Source Source
	Text   string
	// Translation is nil when not requested, skipped or failed
	Translation *string
	Route       Route
	Strategy    Strategy
	Chunks      int
	// Failed lists chunk indices that produced no fragment
	Failed   []int
	Duration time.Duration
}

// Pipeline ties probing, splitting, recognition and translation together
type Pipeline struct {
	config      Config
	logger      *slog.Logger
	prober      *Prober
	splitter    ChunkSplitter
	transcriber *Transcriber
	translator  translate.Translator
	metrics     *metrics.Metrics
	newRunID    func() string
}

// New creates a pipeline. translator may be nil when translation is unavailable.
func New(config Config, logger *slog.Logger, prober *Prober, splitter ChunkSplitter,
	transcriber *Transcriber, translator translate.Translator, m *metrics.Metrics) *Pipeline {

	if config.SizeThreshold <= 0 {
		config.SizeThreshold = DefaultSizeThreshold
	}
	if config.ChunkDir == "" {
		config.ChunkDir = "temp_chunks"
	}
	if config.SourceLanguage == "" {
		config.SourceLanguage = "ru"
	}

	return &Pipeline{
		config:      config,
		logger:      logger,
		prober:      prober,
		splitter:    splitter,
		transcriber: transcriber,
		translator:  translator,
		metrics:     m,
		newRunID:    uuid.NewString,
	}
}

// Run transcribes the file at path. Per-chunk and translation failures are
// reported in the Result; an error is returned only when the file cannot be
// probed or split.
func (p *Pipeline) Run(ctx context.Context, path string, opts RunOptions) (*Result, error) {
	start := time.Now()

	src, err := p.prober.Probe(path)
	if err != nil {
		return nil, err
	}

	attrs := []any{
		slog.String("path", src.Path),
		slog.Int64("size_bytes", src.Size),
	}
	if src.Duration != nil {
		attrs = append(attrs, slog.Duration("duration", *src.Duration))
	}
	p.logger.Info("Starting transcription", attrs...)

	result := &Result{Source: src}

	if src.Size >= p.config.SizeThreshold {
		result.Route = RouteChunked
		if err := p.runChunked(ctx, src, result); err != nil {
			return nil, err
		}
	} else {
		result.Route = RouteDirect
		if text, ok := p.transcriber.TranscribeFile(ctx, src.Path, p.config.WholeFilePolicy); ok {
			result.Text = text
		}
	}
	p.metrics.RecordRun(string(result.Route))

	if opts.Translate {
		p.translate(ctx, opts.Target, result)
	}

	result.Duration = time.Since(start)
	p.logger.Info("Transcription finished",
		slog.String("route", string(result.Route)),
		slog.Int("chunks", result.Chunks),
		slog.Int("failed_chunks", len(result.Failed)),
		slog.Int("text_length", len(result.Text)),
		slog.Duration("elapsed", result.Duration))

	return result, nil
}

func (p *Pipeline) runChunked(ctx context.Context, src Source, result *Result) error {
	dir := filepath.Join(p.config.BaseDir, p.config.ChunkDir, p.newRunID())
	defer p.cleanup(dir)

	set, err := p.splitter.Split(src.Path, dir)
	if err != nil {
		return fmt.Errorf("failed to split %s: %w", src.Path, err)
	}

	result.Strategy = set.Strategy
	result.Chunks = len(set.Chunks)

	fragments := make([]Fragment, 0, len(set.Chunks))
	for _, chunk := range set.Chunks {
		p.logger.Debug("Transcribing chunk",
			slog.Int("index", chunk.Index),
			slog.Int("total", len(set.Chunks)),
			slog.Duration("duration", chunk.Duration))

		text, ok := p.transcriber.TranscribeFile(ctx, chunk.Path, p.config.ChunkPolicy)
		if !ok {
			result.Failed = append(result.Failed, chunk.Index)
			continue
		}
		fragments = append(fragments, Fragment{Index: chunk.Index, Text: text})
	}

	result.Text = Aggregate(fragments)
	return nil
}

func (p *Pipeline) translate(ctx context.Context, target string, result *Result) {
	if target == "" {
		target = "en"
	}

	if result.Text == "" {
		p.logger.Info("Nothing to translate")
		return
	}

	if p.translator == nil {
		p.logger.Warn("Translation requested but no translator is configured")
		p.metrics.RecordTranslation("failure")
		return
	}

	translated, err := p.translator.Translate(ctx, result.Text, p.config.SourceLanguage, target)
	if err != nil {
		p.logger.Warn("Translation failed",
			slog.String("target", target),
			slog.String("error", err.Error()))
		p.metrics.RecordTranslation("failure")
		return
	}

	p.metrics.RecordTranslation("success")
	result.Translation = &translated
}

// cleanup removes the run directory and then the chunk root if no other run is using it
func (p *Pipeline) cleanup(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn("Failed to remove chunk directory",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		p.metrics.RecordCleanupFailure()
		return
	}

	root := filepath.Dir(dir)
	if root == filepath.Clean(p.config.BaseDir) {
		return
	}
	// fails with ENOTEMPTY while other runs or files live there
	if err := os.Remove(root); err != nil && !errors.Is(err, fs.ErrNotExist) {
		p.logger.Debug("Chunk root kept",
			slog.String("dir", root),
			slog.String("reason", err.Error()))
	}
}
