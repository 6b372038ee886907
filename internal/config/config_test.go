package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// validConfig returns defaults with a recognition key set
func validConfig() *Config {
	c := Default()
	c.Transcription.APIKey = "test-key"
	return c
}

func clearKeys(t *testing.T) {
	t.Helper()
	for _, k := range []string{"OPENAI_API_KEY", "GOOGLE_SPEECH_API_KEY", "TRANSCRIPTION_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid configuration",
			modify: func(c *Config) {},
		},
		{
			name:        "missing google key",
			modify:      func(c *Config) { c.Transcription.APIKey = "" },
			expectError: true,
			errorMsg:    "api_key cannot be empty for the google backend; set GOOGLE_SPEECH_API_KEY",
		},
		{
			name: "missing openai key names env var",
			modify: func(c *Config) {
				c.Transcription.Backend = "openai"
				c.Transcription.APIKey = ""
			},
			expectError: true,
			errorMsg:    "set OPENAI_API_KEY or transcription.api_key",
		},
		{
			name: "http backend needs endpoint not key",
			modify: func(c *Config) {
				c.Transcription.Backend = "http"
				c.Transcription.APIKey = ""
				c.Transcription.Endpoint = "http://localhost:8000/v1/audio/transcriptions"
			},
		},
		{
			name: "http backend without endpoint",
			modify: func(c *Config) {
				c.Transcription.Backend = "http"
			},
			expectError: true,
			errorMsg:    "endpoint cannot be empty",
		},
		{
			name:        "unknown transcription backend",
			modify:      func(c *Config) { c.Transcription.Backend = "vosk" },
			expectError: true,
			errorMsg:    "backend must be one of [google, openai, http]",
		},
		{
			name:        "zero attempts",
			modify:      func(c *Config) { c.Transcription.MaxAttempts = 0 },
			expectError: true,
			errorMsg:    "max_attempts must be at least 1",
		},
		{
			name:        "positive silence threshold",
			modify:      func(c *Config) { c.Chunking.SilenceThreshold = 6 },
			expectError: true,
			errorMsg:    "silence_threshold must be at most 0 dBFS",
		},
		{
			name:        "zero size threshold",
			modify:      func(c *Config) { c.Chunking.SizeThresholdMB = 0 },
			expectError: true,
			errorMsg:    "size_threshold_mb must be positive",
		},
		{
			name:        "zero max silence chunks",
			modify:      func(c *Config) { c.Chunking.MaxSilenceChunks = 0 },
			expectError: true,
			errorMsg:    "max_silence_chunks",
		},
		{
			name:        "openai translation without key",
			modify:      func(c *Config) { c.Translation.Backend = "openai" },
			expectError: true,
			errorMsg:    "translation config",
		},
		{
			name:   "translation disabled",
			modify: func(c *Config) { c.Translation.Backend = "none" },
		},
		{
			name:        "bad bit depth",
			modify:      func(c *Config) { c.Audio.BitDepth = 12 },
			expectError: true,
			errorMsg:    "bit_depth",
		},
		{
			name:        "empty chunk dir",
			modify:      func(c *Config) { c.Paths.ChunkDir = "" },
			expectError: true,
			errorMsg:    "chunk_dir cannot be empty",
		},
		{
			name:        "bad log level",
			modify:      func(c *Config) { c.Logging.Level = "verbose" },
			expectError: true,
			errorMsg:    "level must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modify(config)

			err := config.Validate()
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error to contain '%s', got '%s'", tt.errorMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				}
			}
		})
	}
}

func TestConfigLoad(t *testing.T) {
	clearKeys(t)
	tempDir := t.TempDir()

	tests := []struct {
		name        string
		configYAML  string
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid config file",
			configYAML: `
paths:
  base_dir: "/srv/transcriber"
chunking:
  size_threshold_mb: 25
  max_chunk_length: 60
transcription:
  backend: "openai"
  api_key: "sk-file"
  model: "whisper-1"
translation:
  backend: "none"
logging:
  level: "debug"
  format: "json"
  output: "stdout"
`,
		},
		{
			name: "invalid YAML syntax",
			configYAML: `
chunking:
  size_threshold_mb: [not a number
`,
			expectError: true,
			errorMsg:    "failed to parse",
		},
		{
			name: "defaults without key",
			configYAML: `
logging:
  level: "warn"
`,
			expectError: true,
			errorMsg:    "api_key cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(tempDir, "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.configYAML), 0644); err != nil {
				t.Fatalf("Failed to create test config file: %v", err)
			}

			config, err := Load(configPath)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error to contain '%s', got '%s'", tt.errorMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				} else if config == nil {
					t.Errorf("Expected config to be loaded but got nil")
				}
			}
		})
	}
}

func TestConfigLoadOverlaysDefaults(t *testing.T) {
	clearKeys(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
chunking:
  max_chunk_length: 60
transcription:
  api_key: "google-key"
`
	if err := os.WriteFile(configPath, []byte(yaml), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	config, err := Load(configPath)
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}

	if config.Chunking.MaxChunkLength != 60 {
		t.Errorf("Expected max_chunk_length 60, got %f", config.Chunking.MaxChunkLength)
	}
	if config.Chunking.MinSilence != 1000 {
		t.Errorf("Expected default min_silence 1000, got %d", config.Chunking.MinSilence)
	}
	if config.Paths.AudioDir != "audio_files" {
		t.Errorf("Expected default audio_dir, got %s", config.Paths.AudioDir)
	}
	if config.Translation.Target != "en" {
		t.Errorf("Expected default target en, got %s", config.Translation.Target)
	}
}

func TestConfigLoadFromEnvironment(t *testing.T) {
	clearKeys(t)
	t.Setenv("GOOGLE_SPEECH_API_KEY", "env-key")

	config, err := Load("")
	if err != nil {
		t.Fatalf("Expected defaults plus env key to be valid, got: %v", err)
	}

	if config.Transcription.APIKey != "env-key" {
		t.Errorf("Expected api key from environment, got '%s'", config.Transcription.APIKey)
	}
}

func TestConfigLoadNonexistentFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Errorf("Expected error for nonexistent file but got none")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Expected error to contain 'failed to read config file', got '%s'", err.Error())
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"OPENAI_API_KEY":        "sk-env",
		"GOOGLE_SPEECH_API_KEY": "g-env",
		"TRANSCRIPTION_API_KEY": "t-env",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	tests := []struct {
		name            string
		transcription   string
		translation     string
		wantTranscribe  string
		wantTranslation string
	}{
		{"google recognition", "google", "google", "g-env", ""},
		{"openai everywhere", "openai", "openai", "sk-env", "sk-env"},
		{"http recognition", "http", "none", "t-env", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			c.Transcription.Backend = tt.transcription
			c.Translation.Backend = tt.translation

			c.ApplyEnv(lookup)

			if c.Transcription.APIKey != tt.wantTranscribe {
				t.Errorf("Expected transcription key '%s', got '%s'", tt.wantTranscribe, c.Transcription.APIKey)
			}
			if c.Translation.APIKey != tt.wantTranslation {
				t.Errorf("Expected translation key '%s', got '%s'", tt.wantTranslation, c.Translation.APIKey)
			}
		})
	}
}

func TestPathsResolve(t *testing.T) {
	paths := PathsConfig{BaseDir: "/srv/transcriber"}

	tests := []struct {
		dir  string
		want string
	}{
		{"audio_files", filepath.Join("/srv/transcriber", "audio_files")},
		{".", "/srv/transcriber"},
		{"../shared/ogg", filepath.Join("/srv", "shared", "ogg")},
		{"/data/ogg", "/data/ogg"},
	}

	for _, tt := range tests {
		if got := paths.Resolve(tt.dir); got != tt.want {
			t.Errorf("Resolve(%q): expected '%s', got '%s'", tt.dir, tt.want, got)
		}
	}
}

func TestDurationHelpers(t *testing.T) {
	c := Default()

	if got := c.Chunking.GetSizeThresholdBytes(); got != 10*1024*1024 {
		t.Errorf("Expected 10 MiB threshold, got %d", got)
	}
	if got := c.Chunking.GetMaxChunkLength(); got != 120*time.Second {
		t.Errorf("Expected 120s max chunk, got %v", got)
	}
	if got := c.Chunking.GetMinSilenceDuration(); got != time.Second {
		t.Errorf("Expected 1s min silence, got %v", got)
	}
	if got := c.Chunking.GetKeepSilenceDuration(); got != 200*time.Millisecond {
		t.Errorf("Expected 200ms keep silence, got %v", got)
	}
	if got := c.Chunking.GetSeekStepDuration(); got != 10*time.Millisecond {
		t.Errorf("Expected 10ms seek step, got %v", got)
	}
	if got := c.Transcription.GetRetryWaitDuration(); got != 2*time.Second {
		t.Errorf("Expected 2s retry wait, got %v", got)
	}
	if got := c.Transcription.GetTimeoutDuration(); got != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", got)
	}
	if got := c.Translation.GetTimeoutDuration(); got != 30*time.Second {
		t.Errorf("Expected 30s translation timeout, got %v", got)
	}
}
