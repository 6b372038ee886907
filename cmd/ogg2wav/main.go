package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/skypro1111/audio-transcriber/internal/audio"
	"github.com/skypro1111/audio-transcriber/internal/config"
	"github.com/skypro1111/audio-transcriber/internal/convert"
	"github.com/skypro1111/audio-transcriber/internal/logging"
	"github.com/skypro1111/audio-transcriber/internal/selector"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to configuration file (defaults are used when empty)")
	filePath := flag.String("file", "", "OGG file to convert; skips the interactive menu")
	outputDir := flag.String("out", "", "Output directory (default from config)")
	flag.Parse()

	// Conversion needs no API keys, so only the sections it uses are validated
	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	for _, v := range []interface{ Validate() error }{&cfg.Paths, &cfg.Audio, &cfg.Logging} {
		if err := v.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			return 1
		}
	}

	logger, logCloser := logging.New(cfg.Logging)
	defer logCloser.Close()

	dir := *outputDir
	if dir == "" {
		dir = cfg.Paths.Resolve(cfg.Paths.ConvertedDir)
	}

	converter, err := convert.NewConverter(
		&audio.FileDecoder{FFmpeg: audio.FFmpeg{Bin: cfg.Audio.FFmpegPath, ProbeBin: cfg.Audio.FFprobePath}},
		dir,
		audio.ExportOptions{
			SampleRate: cfg.Audio.SampleRate,
			Channels:   cfg.Audio.Channels,
			BitDepth:   cfg.Audio.BitDepth,
		},
		logger,
	)
	if err != nil {
		logger.Error("Failed to create converter", slog.String("error", err.Error()))
		return 1
	}

	fmt.Println("OGG to WAV Converter")
	fmt.Println("This tool converts OGG audio files to WAV format.")
	fmt.Printf("Converted files will be saved in the '%s' directory.\n", dir)

	var provider selector.FileProvider
	if *filePath != "" {
		provider = selector.Static{Path: *filePath}
	} else {
		if !selector.IsInteractive(os.Stdin) {
			fmt.Fprintln(os.Stderr, "standard input is not a terminal; pass the OGG file with -file")
			return 1
		}
		root := cfg.Paths.Resolve(cfg.Paths.SearchRoot)
		console := selector.NewConsole(os.Stdin, os.Stdout, func() ([]string, error) {
			return selector.FindFiles(root, ".ogg")
		})
		console.Kind = "OGG"
		provider = console
	}

	input, err := provider.SelectFile()
	if err != nil {
		if !errors.Is(err, selector.ErrNoFiles) {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}

	if _, err := os.Stat(input); err != nil {
		fmt.Println("File not found!")
		return 1
	}

	fmt.Printf("Loading %s...\n", input)
	fmt.Println("Converting to WAV...")

	output, err := converter.Convert(input)
	if err != nil {
		fmt.Printf("Error during conversion: %v\n", err)
		return 1
	}

	fmt.Println("\nConversion successful!")
	fmt.Printf("WAV file saved as: %s\n", output)
	return 0
}
