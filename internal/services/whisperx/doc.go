// Package whisperx runs WhisperX speech recognition through uvx.
//
// The recording is first converted to mono 16kHz WAV with ffmpeg, then
// transcribed with word-level timestamps. The resulting words feed the
// text-to-audio aligner when a section has text but no time markers.
//
// Configuration options (model, CUDA, VAD method) are passed via Config.
package whisperx
