package config

const (
	defaultCacheDir        = "~/.cache/anemone/fetch"
	defaultLogDir          = ""
	defaultWorkDir         = "~/.cache/anemone/work"
	defaultDAISYVersion    = 2
	defaultLanguage        = "en"
	defaultMarkerAttribute = "data-pid"
	defaultPageAttribute   = "data-no"
	defaultImageAttribute  = "data-zoom"
	// 80-minute CD-R: 359,849 sectors of 2048 bytes.
	defaultCapacitySectors = 359849
	defaultBitrateKbps     = 64
	defaultChannels        = 1
	defaultSampleRate      = 44100
	defaultFFmpegBinary    = "ffmpeg"
	defaultFFprobeBinary   = "ffprobe"
	defaultFetchRetries    = 3
	defaultFetchTimeout    = 60
	defaultRevalidateHours = 24
	defaultUserAgent       = "anemone/dev"
	defaultVADMethod       = "silero"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
			WorkDir:  defaultWorkDir,
		},
		DAISY: DAISY{
			Version:         defaultDAISYVersion,
			Language:        defaultLanguage,
			MarkerAttribute: defaultMarkerAttribute,
			PageAttribute:   defaultPageAttribute,
			ImageAttribute:  defaultImageAttribute,
			NormalizeDepth:  true,
			CapacitySectors: defaultCapacitySectors,
		},
		Audio: Audio{
			BitrateKbps:   defaultBitrateKbps,
			Channels:      defaultChannels,
			SampleRate:    defaultSampleRate,
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Fetch: Fetch{
			CacheEnabled:    true,
			MaxRetries:      defaultFetchRetries,
			TimeoutSeconds:  defaultFetchTimeout,
			RevalidateHours: defaultRevalidateHours,
			UserAgent:       defaultUserAgent,
		},
		ASR: ASR{
			Enabled:   true,
			VADMethod: defaultVADMethod,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
