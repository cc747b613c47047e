package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDAISY()
	c.normalizeAudio()
	c.normalizeFetch()
	c.ASR.Model = strings.TrimSpace(c.ASR.Model)
	c.ASR.VADMethod = strings.ToLower(strings.TrimSpace(c.ASR.VADMethod))
	if c.ASR.VADMethod == "" {
		c.ASR.VADMethod = defaultVADMethod
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeDAISY() {
	c.DAISY.Language = strings.TrimSpace(c.DAISY.Language)
	if c.DAISY.Language == "" {
		c.DAISY.Language = defaultLanguage
	}
	c.DAISY.MarkerAttribute = strings.ToLower(strings.TrimSpace(c.DAISY.MarkerAttribute))
	if c.DAISY.MarkerAttribute == "" {
		c.DAISY.MarkerAttribute = defaultMarkerAttribute
	}
	c.DAISY.PageAttribute = strings.ToLower(strings.TrimSpace(c.DAISY.PageAttribute))
	c.DAISY.ImageAttribute = strings.ToLower(strings.TrimSpace(c.DAISY.ImageAttribute))
	if c.DAISY.CapacitySectors == 0 {
		c.DAISY.CapacitySectors = defaultCapacitySectors
	}
}

func (c *Config) normalizeAudio() {
	c.Audio.FFmpegBinary = strings.TrimSpace(c.Audio.FFmpegBinary)
	if c.Audio.FFmpegBinary == "" {
		c.Audio.FFmpegBinary = defaultFFmpegBinary
	}
	c.Audio.FFprobeBinary = strings.TrimSpace(c.Audio.FFprobeBinary)
	if c.Audio.FFprobeBinary == "" {
		c.Audio.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeFetch() {
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = defaultUserAgent
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = defaultFetchTimeout
	}
}
