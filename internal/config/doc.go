// Package config loads, normalizes, and validates anemone configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the builder and CLI need: DAISY output flavour, HTML attribute conventions,
// the audio profile and transcode pool size, fetch cache behaviour, and
// speech-recognition settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
