package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"anemone/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantCache := filepath.Join(tempHome, ".cache", "anemone", "fetch")
	if cfg.Paths.CacheDir != wantCache {
		t.Fatalf("unexpected cache dir: got %q want %q", cfg.Paths.CacheDir, wantCache)
	}
	if cfg.DAISY.Version != 2 {
		t.Fatalf("expected DAISY 2 by default, got %d", cfg.DAISY.Version)
	}
	if cfg.DAISY.MarkerAttribute != "data-pid" {
		t.Fatalf("unexpected marker attribute: %q", cfg.DAISY.MarkerAttribute)
	}
	if !cfg.DAISY.NormalizeDepth {
		t.Fatal("expected depth normalization enabled by default")
	}
	if cfg.Audio.BitrateKbps != 64 || cfg.Audio.Channels != 1 || cfg.Audio.SampleRate != 44100 {
		t.Fatalf("unexpected audio profile: %+v", cfg.Audio)
	}
	if cfg.ASR.VADMethod != "silero" {
		t.Fatalf("expected VAD default to silero, got %q", cfg.ASR.VADMethod)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
}

func TestLoadCustomPathNormalizesValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
cache_dir = "~/books-cache"

[daisy]
version = 3
language = " sv "
marker_attribute = "DATA-ID"

[audio]
bitrate_kbps = 32

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.CacheDir != filepath.Join(tempHome, "books-cache") {
		t.Fatalf("unexpected cache dir: %q", cfg.Paths.CacheDir)
	}
	if cfg.DAISY.Version != 3 || cfg.DAISY.Language != "sv" {
		t.Fatalf("unexpected daisy config: %+v", cfg.DAISY)
	}
	if cfg.DAISY.MarkerAttribute != "data-id" {
		t.Fatalf("expected lowercased marker attribute, got %q", cfg.DAISY.MarkerAttribute)
	}
	if cfg.Audio.BitrateKbps != 32 {
		t.Fatalf("unexpected bitrate: %d", cfg.Audio.BitrateKbps)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[daisy]\nflavour = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to fail")
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing file error, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"version", func(c *config.Config) { c.DAISY.Version = 4 }, "daisy.version"},
		{"bitrate", func(c *config.Config) { c.Audio.BitrateKbps = 2 }, "audio.bitrate_kbps"},
		{"channels", func(c *config.Config) { c.Audio.Channels = 6 }, "audio.channels"},
		{"workers", func(c *config.Config) { c.Transcode.Workers = -1 }, "transcode.workers"},
		{"attributes", func(c *config.Config) { c.DAISY.PageAttribute = c.DAISY.MarkerAttribute }, "daisy.marker_attribute"},
		{"vad", func(c *config.Config) { c.ASR.VADMethod = "webrtc" }, "asr.vad_method"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %s error, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample failed to load: %v", err)
	}
}

func TestEnsureDirectoriesCreatesWorkAndCache(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.CacheDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s", dir)
		}
	}
}
