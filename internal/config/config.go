package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
	WorkDir  string `toml:"work_dir"`
}

// DAISY contains output format settings and the HTML attribute conventions
// used to find marked fragments, page numbers and images.
type DAISY struct {
	Version            int    `toml:"version"`
	Language           string `toml:"language"`
	MarkerAttribute    string `toml:"marker_attribute"`
	PageAttribute      string `toml:"page_attribute"`
	ImageAttribute     string `toml:"image_attribute"`
	NormalizeDepth     bool   `toml:"normalize_depth"`
	IgnoreChapterSkips bool   `toml:"ignore_chapter_skips"`
	WarningsAreErrors  bool   `toml:"warnings_are_errors"`
	CapacitySectors    int64  `toml:"capacity_sectors"`
}

// Audio describes the audio profile every packaged recording must match.
type Audio struct {
	BitrateKbps   int    `toml:"bitrate_kbps"`
	Channels      int    `toml:"channels"`
	SampleRate    int    `toml:"sample_rate"`
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Transcode controls the re-encode worker pool. Zero workers selects the
// process-wide shared pool.
type Transcode struct {
	Workers int `toml:"workers"`
}

// Fetch controls remote input retrieval.
type Fetch struct {
	CacheEnabled    bool   `toml:"cache_enabled"`
	MinIntervalMs   int    `toml:"min_interval_ms"`
	MaxRetries      int    `toml:"max_retries"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	RevalidateHours int    `toml:"revalidate_hours"`
	UserAgent       string `toml:"user_agent"`
}

// ASR contains speech-recognition settings used to recover missing timestamps.
type ASR struct {
	Enabled     bool   `toml:"enabled"`
	Model       string `toml:"model"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
	VADMethod   string `toml:"vad_method"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for anemone.
type Config struct {
	Paths     Paths     `toml:"paths"`
	DAISY     DAISY     `toml:"daisy"`
	Audio     Audio     `toml:"audio"`
	Transcode Transcode `toml:"transcode"`
	Fetch     Fetch     `toml:"fetch"`
	ASR       ASR       `toml:"asr"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/anemone/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("anemone.toml")
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{defaultPath, projectPath} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the cache and work directories when configured.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.WorkDir}
	if c.Fetch.CacheEnabled {
		dirs = append(dirs, c.Paths.CacheDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
