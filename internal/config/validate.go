package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.DAISY.Version != 2 && c.DAISY.Version != 3 {
		return fmt.Errorf("daisy.version must be 2 or 3, got %d", c.DAISY.Version)
	}
	if c.DAISY.CapacitySectors < 0 {
		return errors.New("daisy.capacity_sectors must be positive")
	}
	if c.DAISY.MarkerAttribute == c.DAISY.PageAttribute || c.DAISY.MarkerAttribute == c.DAISY.ImageAttribute {
		return errors.New("daisy.marker_attribute must differ from the page and image attributes")
	}
	if c.Audio.BitrateKbps < 8 || c.Audio.BitrateKbps > 320 {
		return fmt.Errorf("audio.bitrate_kbps must be between 8 and 320, got %d", c.Audio.BitrateKbps)
	}
	if c.Audio.Channels != 1 && c.Audio.Channels != 2 {
		return fmt.Errorf("audio.channels must be 1 or 2, got %d", c.Audio.Channels)
	}
	if c.Audio.SampleRate <= 0 {
		return errors.New("audio.sample_rate must be positive")
	}
	if c.Transcode.Workers < 0 {
		return errors.New("transcode.workers must be zero (shared pool) or positive")
	}
	if c.Fetch.MinIntervalMs < 0 {
		return errors.New("fetch.min_interval_ms must not be negative")
	}
	if c.Fetch.MaxRetries < 0 {
		return errors.New("fetch.max_retries must not be negative")
	}
	if c.Fetch.RevalidateHours < 0 {
		return errors.New("fetch.revalidate_hours must not be negative")
	}
	switch c.ASR.VADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("asr.vad_method must be silero or pyannote, got %q", c.ASR.VADMethod)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
