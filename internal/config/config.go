package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete tool configuration
type Config struct {
	Paths         PathsConfig         `yaml:"paths"`
	Audio         AudioConfig         `yaml:"audio"`
	Chunking      ChunkingConfig      `yaml:"chunking"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Translation   TranslationConfig   `yaml:"translation"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// PathsConfig contains the working directories. Relative directories are
// resolved against BaseDir.
type PathsConfig struct {
	BaseDir      string `yaml:"base_dir"`
	AudioDir     string `yaml:"audio_dir"`
	ChunkDir     string `yaml:"chunk_dir"`
	ConvertedDir string `yaml:"converted_dir"`
	SearchRoot   string `yaml:"search_root"`
}

// Resolve joins a relative dir onto BaseDir; absolute dirs are returned as is
func (p *PathsConfig) Resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(p.BaseDir, dir)
}

// AudioConfig contains codec settings
type AudioConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
	// Written WAV layout; 0 keeps the source value (16 bits for bit_depth)
	SampleRate int `yaml:"sample_rate"`
	Channels   int `yaml:"channels"`
	BitDepth   int `yaml:"bit_depth"`
}

// ChunkingConfig contains splitting parameters for large files
type ChunkingConfig struct {
	SizeThresholdMB  float64 `yaml:"size_threshold_mb"`
	MaxChunkLength   float64 `yaml:"max_chunk_length"`  // seconds
	SilenceThreshold float64 `yaml:"silence_threshold"` // dBFS
	MinSilence       int     `yaml:"min_silence"`       // milliseconds
	KeepSilence      int     `yaml:"keep_silence"`      // milliseconds
	SeekStep         int     `yaml:"seek_step"`         // milliseconds
	MaxSilenceChunks int     `yaml:"max_silence_chunks"`
}

// TranscriptionConfig contains speech recognition settings
type TranscriptionConfig struct {
	Backend      string  `yaml:"backend"` // google, openai or http
	Endpoint     string  `yaml:"endpoint"`
	APIKey       string  `yaml:"api_key"`
	Model        string  `yaml:"model"`
	Timeout      int     `yaml:"timeout"` // seconds
	MaxAttempts  int     `yaml:"max_attempts"`
	RetryWait    float64 `yaml:"retry_wait"` // seconds
	OutputFormat string  `yaml:"output_format"`
}

// TranslationConfig contains translation settings
type TranslationConfig struct {
	Backend  string `yaml:"backend"` // google, openai or none
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Target   string `yaml:"target"`
	Timeout  int    `yaml:"timeout"` // seconds
}

// MetricsConfig contains metrics export settings
type MetricsConfig struct {
	// Textfile is written in Prometheus text format on exit when set
	Textfile string `yaml:"textfile"`
	// ListenAddress serves /metrics for the duration of a run when set
	ListenAddress string `yaml:"listen_address"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			BaseDir:      ".",
			AudioDir:     "audio_files",
			ChunkDir:     "temp_chunks",
			ConvertedDir: "audio_files",
			SearchRoot:   ".",
		},
		Audio: AudioConfig{
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
		},
		Chunking: ChunkingConfig{
			SizeThresholdMB:  10,
			MaxChunkLength:   120,
			SilenceThreshold: -40,
			MinSilence:       1000,
			KeepSilence:      200,
			SeekStep:         10,
			MaxSilenceChunks: 10,
		},
		Transcription: TranscriptionConfig{
			Backend:      "google",
			Timeout:      30,
			MaxAttempts:  3,
			RetryWait:    2,
			OutputFormat: "json",
		},
		Translation: TranslationConfig{
			Backend: "google",
			Target:  "en",
			Timeout: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads the configuration file at path over the defaults, applies API
// keys from the environment and validates the result. An empty path uses the
// defaults alone.
func Load(path string) (*Config, error) {
	config, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// LoadFile is Load without validation, for tools that only use some sections
func LoadFile(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	config.ApplyEnv(os.LookupEnv)
	return config, nil
}

// Environment variables holding API keys
const (
	EnvOpenAIKey        = "OPENAI_API_KEY"
	EnvGoogleSpeechKey  = "GOOGLE_SPEECH_API_KEY"
	EnvTranscriptionKey = "TRANSCRIPTION_API_KEY"
)

// ApplyEnv overrides API keys from the Env*Key variables, each applied to the
// backends that use it
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if key, ok := lookup(EnvOpenAIKey); ok && key != "" {
		if c.Transcription.Backend == "openai" {
			c.Transcription.APIKey = key
		}
		if c.Translation.Backend == "openai" {
			c.Translation.APIKey = key
		}
	}

	if key, ok := lookup(EnvGoogleSpeechKey); ok && key != "" && c.Transcription.Backend == "google" {
		c.Transcription.APIKey = key
	}

	if key, ok := lookup(EnvTranscriptionKey); ok && key != "" && c.Transcription.Backend == "http" {
		c.Transcription.APIKey = key
	}
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if err := c.Paths.Validate(); err != nil {
		return fmt.Errorf("paths config: %w", err)
	}

	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Chunking.Validate(); err != nil {
		return fmt.Errorf("chunking config: %w", err)
	}

	if err := c.Transcription.Validate(); err != nil {
		return fmt.Errorf("transcription config: %w", err)
	}

	if err := c.Translation.Validate(); err != nil {
		return fmt.Errorf("translation config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates path configuration
func (p *PathsConfig) Validate() error {
	if p.BaseDir == "" {
		return fmt.Errorf("base_dir cannot be empty")
	}

	if p.AudioDir == "" {
		return fmt.Errorf("audio_dir cannot be empty")
	}

	if p.ChunkDir == "" {
		return fmt.Errorf("chunk_dir cannot be empty")
	}

	if p.ConvertedDir == "" {
		return fmt.Errorf("converted_dir cannot be empty")
	}

	return nil
}

// Validate validates audio configuration
func (a *AudioConfig) Validate() error {
	if a.SampleRate < 0 {
		return fmt.Errorf("sample_rate cannot be negative, got %d", a.SampleRate)
	}

	if a.Channels < 0 || a.Channels > 2 {
		return fmt.Errorf("channels must be 0 (keep), 1 or 2, got %d", a.Channels)
	}

	switch a.BitDepth {
	case 0, 8, 16, 24, 32:
	default:
		return fmt.Errorf("bit_depth must be one of 8, 16, 24, 32, got %d", a.BitDepth)
	}

	return nil
}

// Validate validates chunking configuration
func (ch *ChunkingConfig) Validate() error {
	if ch.SizeThresholdMB <= 0 {
		return fmt.Errorf("size_threshold_mb must be positive, got %f", ch.SizeThresholdMB)
	}

	if ch.MaxChunkLength <= 0 {
		return fmt.Errorf("max_chunk_length must be positive, got %f", ch.MaxChunkLength)
	}

	if ch.SilenceThreshold > 0 {
		return fmt.Errorf("silence_threshold must be at most 0 dBFS, got %f", ch.SilenceThreshold)
	}

	if ch.MinSilence < 1 {
		return fmt.Errorf("min_silence must be at least 1 ms, got %d", ch.MinSilence)
	}

	if ch.KeepSilence < 0 {
		return fmt.Errorf("keep_silence cannot be negative, got %d", ch.KeepSilence)
	}

	if ch.SeekStep < 1 {
		return fmt.Errorf("seek_step must be at least 1 ms, got %d", ch.SeekStep)
	}

	if ch.MaxSilenceChunks < 1 {
		return fmt.Errorf("max_silence_chunks must be at least 1, got %d", ch.MaxSilenceChunks)
	}

	return nil
}

// Validate validates transcription configuration
func (t *TranscriptionConfig) Validate() error {
	switch t.Backend {
	case "google":
		if t.APIKey == "" {
			return fmt.Errorf("api_key cannot be empty for the google backend; set %s or transcription.api_key", EnvGoogleSpeechKey)
		}
	case "openai":
		if t.APIKey == "" {
			return fmt.Errorf("api_key cannot be empty for the openai backend; set %s or transcription.api_key", EnvOpenAIKey)
		}
	case "http":
		if t.Endpoint == "" {
			return fmt.Errorf("endpoint cannot be empty for the http backend")
		}
	default:
		return fmt.Errorf("backend must be one of [google, openai, http], got '%s'", t.Backend)
	}

	if t.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", t.Timeout)
	}

	if t.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", t.MaxAttempts)
	}

	if t.RetryWait < 0 {
		return fmt.Errorf("retry_wait cannot be negative, got %f", t.RetryWait)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[t.OutputFormat] {
		return fmt.Errorf("output_format must be 'json' or 'text', got '%s'", t.OutputFormat)
	}

	return nil
}

// Validate validates translation configuration
func (t *TranslationConfig) Validate() error {
	switch t.Backend {
	case "none", "google":
	case "openai":
		if t.APIKey == "" {
			return fmt.Errorf("api_key cannot be empty for the openai backend; set %s or translation.api_key", EnvOpenAIKey)
		}
	default:
		return fmt.Errorf("backend must be one of [google, openai, none], got '%s'", t.Backend)
	}

	if t.Target == "" {
		return fmt.Errorf("target cannot be empty")
	}

	if t.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", t.Timeout)
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	// Output is stdout, stderr or a file path
	return nil
}

// GetSizeThresholdBytes returns the chunking threshold in bytes
func (ch *ChunkingConfig) GetSizeThresholdBytes() int64 {
	return int64(ch.SizeThresholdMB * 1024 * 1024)
}

// GetMaxChunkLength returns the fixed window length as a time.Duration
func (ch *ChunkingConfig) GetMaxChunkLength() time.Duration {
	return time.Duration(ch.MaxChunkLength * float64(time.Second))
}

// GetMinSilenceDuration returns the minimum silence length as a time.Duration
func (ch *ChunkingConfig) GetMinSilenceDuration() time.Duration {
	return time.Duration(ch.MinSilence) * time.Millisecond
}

// GetKeepSilenceDuration returns the boundary padding as a time.Duration
func (ch *ChunkingConfig) GetKeepSilenceDuration() time.Duration {
	return time.Duration(ch.KeepSilence) * time.Millisecond
}

// GetSeekStepDuration returns the detector step as a time.Duration
func (ch *ChunkingConfig) GetSeekStepDuration() time.Duration {
	return time.Duration(ch.SeekStep) * time.Millisecond
}

// GetTimeoutDuration returns the transcription timeout as a time.Duration
func (t *TranscriptionConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(t.Timeout) * time.Second
}

// GetRetryWaitDuration returns the wait between attempts as a time.Duration
func (t *TranscriptionConfig) GetRetryWaitDuration() time.Duration {
	return time.Duration(t.RetryWait * float64(time.Second))
}

// GetTimeoutDuration returns the translation timeout as a time.Duration
func (t *TranslationConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(t.Timeout) * time.Second
}
