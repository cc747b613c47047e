// Package services defines shared utilities consumed by the book builder and
// its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp build IDs, section numbers, and component
//     names for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (input shape, timestamps, transcoding, fetching) for callers and logs.
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform across the build.
package services
