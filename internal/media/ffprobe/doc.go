// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties (codec, channels, sample rate)
//   - Format: container-level metadata (duration, size, bitrate)
//   - Inspector: a reusable prober bound to one ffprobe binary
//
// Helper methods on Result provide duration parsing, bitrate extraction
// and access to the first audio stream.
package ffprobe
