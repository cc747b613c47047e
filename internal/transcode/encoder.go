package transcode

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"anemone/internal/media/audio"
)

var commandContext = exec.CommandContext

// Encoder re-encodes one recording into the target profile.
type Encoder interface {
	Encode(ctx context.Context, inputPath, outputPath string, profile audio.Profile) error
}

// Option configures the ffmpeg encoder.
type Option func(*FFmpeg)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(f *FFmpeg) {
		if binary != "" {
			f.binary = binary
		}
	}
}

// FFmpeg encodes with the ffmpeg command-line tool and libmp3lame.
type FFmpeg struct {
	binary string
}

// NewFFmpeg constructs an encoder using defaults.
func NewFFmpeg(opts ...Option) *FFmpeg {
	f := &FFmpeg{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Encode writes outputPath as constant-bitrate MP3 in profile.
func (f *FFmpeg) Encode(ctx context.Context, inputPath, outputPath string, profile audio.Profile) error {
	if strings.TrimSpace(inputPath) == "" {
		return errors.New("input path required")
	}
	if strings.TrimSpace(outputPath) == "" {
		return errors.New("output path required")
	}
	cmd := commandContext(ctx, f.binary, f.args(inputPath, outputPath, profile)...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg encode: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (f *FFmpeg) args(inputPath, outputPath string, profile audio.Profile) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", inputPath,
		"-vn",
		"-map_metadata", "-1",
		"-codec:a", "libmp3lame",
	}
	if profile.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(profile.Channels))
	}
	if profile.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(profile.SampleRate))
	}
	if profile.BitrateKbps > 0 {
		args = append(args, "-b:a", fmt.Sprintf("%dk", profile.BitrateKbps))
	}
	return append(args, outputPath)
}

var _ Encoder = (*FFmpeg)(nil)
