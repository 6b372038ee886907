package main

import (
	"fmt"

	"github.com/skypro1111/audio-transcriber/internal/config"
	"github.com/skypro1111/audio-transcriber/internal/transcription"
	"github.com/skypro1111/audio-transcriber/internal/translate"
)

// newRecognizer builds the speech recognition backend named in cfg
func newRecognizer(cfg config.TranscriptionConfig) (transcription.Recognizer, error) {
	switch cfg.Backend {
	case "google":
		g, err := transcription.NewGoogle(transcription.GoogleConfig{
			Endpoint: cfg.Endpoint,
			APIKey:   cfg.APIKey,
			Timeout:  cfg.GetTimeoutDuration(),
		})
		if err != nil {
			return nil, err
		}
		return g, nil

	case "openai":
		o, err := transcription.NewOpenAI(transcription.OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.Endpoint,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, err
		}
		return o, nil

	case "http":
		c, err := transcription.NewClient(transcription.Config{
			Endpoint:     cfg.Endpoint,
			APIKey:       cfg.APIKey,
			Model:        cfg.Model,
			Timeout:      cfg.GetTimeoutDuration(),
			OutputFormat: cfg.OutputFormat,
		})
		if err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unknown transcription backend %q", cfg.Backend)
	}
}

// newTranslator builds the translation backend named in cfg; "none" yields nil
func newTranslator(cfg config.TranslationConfig) (translate.Translator, error) {
	switch cfg.Backend {
	case "none":
		return nil, nil

	case "google":
		return translate.NewGoogle(cfg.Endpoint, cfg.GetTimeoutDuration()), nil

	case "openai":
		o, err := translate.NewOpenAI(translate.OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.Endpoint,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, err
		}
		return o, nil

	default:
		return nil, fmt.Errorf("unknown translation backend %q", cfg.Backend)
	}
}
