package whisperx

import "fmt"

// extractArgs converts the first audio stream of source to mono 16kHz PCM,
// the input format WhisperX expects.
func extractArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", "0:a:0",
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}

func extractError(err error) error {
	return fmt.Errorf("ffmpeg extract: %w", err)
}
