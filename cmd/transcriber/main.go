package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/skypro1111/audio-transcriber/internal/audio"
	"github.com/skypro1111/audio-transcriber/internal/config"
	"github.com/skypro1111/audio-transcriber/internal/logging"
	"github.com/skypro1111/audio-transcriber/internal/metrics"
	"github.com/skypro1111/audio-transcriber/internal/pipeline"
	"github.com/skypro1111/audio-transcriber/internal/selector"
	"github.com/skypro1111/audio-transcriber/internal/translate"
	"github.com/skypro1111/audio-transcriber/internal/vad"
)

const (
	toolName    = "transcriber"
	toolVersion = "1.0.0"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to configuration file (defaults are used when empty)")
	envPath := flag.String("env", ".env", "Path to a .env file with API keys")
	filePath := flag.String("file", "", "Audio file to transcribe; skips the interactive menu")
	doTranslate := flag.Bool("translate", false, "Translate the transcript (with -file)")
	target := flag.String("target", "", "Translation target language (default from config)")
	flag.Parse()

	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", *envPath, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	logger, logCloser := logging.New(cfg.Logging)
	defer logCloser.Close()

	logger.Debug("Configuration loaded",
		slog.String("tool", toolName),
		slog.String("version", toolVersion),
		slog.String("config_path", *configPath),
		slog.String("transcription_backend", cfg.Transcription.Backend),
		slog.String("translation_backend", cfg.Translation.Backend),
		slog.String("base_dir", cfg.Paths.BaseDir),
		slog.Float64("size_threshold_mb", cfg.Chunking.SizeThresholdMB),
	)

	appMetrics := metrics.NewMetrics()
	if cfg.Metrics.Textfile != "" {
		defer func() {
			if err := appMetrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
				logger.Warn("Failed to write metrics", slog.String("error", err.Error()))
			}
		}()
	}

	if cfg.Metrics.ListenAddress != "" {
		metricsServer := metrics.NewServer(cfg.Metrics.ListenAddress, appMetrics, logger)
		if err := metricsServer.Start(); err != nil {
			logger.Warn("Metrics server disabled", slog.String("error", err.Error()))
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := metricsServer.Stop(shutdownCtx); err != nil {
					logger.Warn("Error stopping metrics server", slog.String("error", err.Error()))
				}
			}()
		}
	}

	p, err := buildPipeline(cfg, logger, appMetrics)
	if err != nil {
		logger.Error("Failed to initialize transcriber", slog.String("error", err.Error()))
		return 1
	}

	provider, err := fileProvider(cfg, *filePath, *doTranslate)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Println("Russian Audio to Text Converter")

	path, err := provider.SelectFile()
	if err != nil {
		if !errors.Is(err, selector.ErrNoFiles) {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}

	if _, err := os.Stat(path); err != nil {
		fmt.Println("File not found!")
		return 1
	}

	wantTranslation, err := provider.ConfirmTranslation()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	targetLang := *target
	if targetLang == "" {
		targetLang = cfg.Translation.Target
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Println("Processing...")
	result, err := p.Run(ctx, path, pipeline.RunOptions{Translate: wantTranslation, Target: targetLang})
	if err != nil {
		fmt.Printf("An error occurred: %v\n", err)
		return 1
	}

	printResult(result, wantTranslation, targetLang)
	return 0
}

func buildPipeline(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*pipeline.Pipeline, error) {
	decoder := &audio.FileDecoder{FFmpeg: audio.FFmpeg{
		Bin:      cfg.Audio.FFmpegPath,
		ProbeBin: cfg.Audio.FFprobePath,
	}}

	recognizer, err := newRecognizer(cfg.Transcription)
	if err != nil {
		return nil, fmt.Errorf("transcription backend: %w", err)
	}

	translator, err := newTranslator(cfg.Translation)
	if err != nil {
		return nil, fmt.Errorf("translation backend: %w", err)
	}

	splitter, err := pipeline.NewSplitter(pipeline.SplitterConfig{
		MaxChunkLength:   cfg.Chunking.GetMaxChunkLength(),
		MaxSilenceChunks: cfg.Chunking.MaxSilenceChunks,
		Silence: vad.DetectorConfig{
			ThresholdDB: cfg.Chunking.SilenceThreshold,
			MinSilence:  cfg.Chunking.GetMinSilenceDuration(),
			KeepSilence: cfg.Chunking.GetKeepSilenceDuration(),
			SeekStep:    cfg.Chunking.GetSeekStepDuration(),
		},
		Export: audio.ExportOptions{
			SampleRate: cfg.Audio.SampleRate,
			Channels:   cfg.Audio.Channels,
			BitDepth:   cfg.Audio.BitDepth,
		},
	}, decoder, logger, m)
	if err != nil {
		return nil, err
	}

	wholeFile := pipeline.WholeFileRetryPolicy()
	wholeFile.MaxAttempts = cfg.Transcription.MaxAttempts
	wholeFile.Wait = cfg.Transcription.GetRetryWaitDuration()

	chunk := pipeline.ChunkRetryPolicy()
	chunk.MaxAttempts = cfg.Transcription.MaxAttempts
	chunk.Wait = cfg.Transcription.GetRetryWaitDuration()

	return pipeline.New(pipeline.Config{
		BaseDir:         cfg.Paths.BaseDir,
		ChunkDir:        cfg.Paths.ChunkDir,
		SizeThreshold:   cfg.Chunking.GetSizeThresholdBytes(),
		SourceLanguage:  "ru",
		ChunkPolicy:     chunk,
		WholeFilePolicy: wholeFile,
	},
		logger,
		pipeline.NewProber(decoder, logger),
		splitter,
		pipeline.NewTranscriber(recognizer, decoder, logger, m),
		translator,
		m,
	), nil
}

func fileProvider(cfg *config.Config, path string, doTranslate bool) (selector.FileProvider, error) {
	if path != "" {
		return selector.Static{Path: path, Translate: doTranslate}, nil
	}

	if !selector.IsInteractive(os.Stdin) {
		return nil, errors.New("standard input is not a terminal; pass the audio file with -file")
	}

	audioDir := cfg.Paths.Resolve(cfg.Paths.AudioDir)
	console := selector.NewConsole(os.Stdin, os.Stdout, func() ([]string, error) {
		return selector.ListAudioFiles(audioDir, selector.AudioExtensions)
	})
	console.Target = translate.LanguageName(cfg.Translation.Target)
	return console, nil
}

func printResult(result *pipeline.Result, wantTranslation bool, target string) {
	if result.Route == pipeline.RouteChunked {
		fmt.Printf("Processed %d chunks (%s split)", result.Chunks, result.Strategy)
		if len(result.Failed) > 0 {
			fmt.Printf(", %d without text", len(result.Failed))
		}
		fmt.Println()
	}

	if result.Text == "" {
		fmt.Println("Could not understand audio")
		return
	}

	fmt.Println("\nTranscription:")
	fmt.Println(result.Text)

	if !wantTranslation {
		return
	}

	if result.Translation == nil {
		fmt.Println("\nTranslation failed; see the log for details.")
		return
	}

	fmt.Printf("\nTranslation (%s):\n", translate.LanguageName(target))
	fmt.Println(*result.Translation)
}
