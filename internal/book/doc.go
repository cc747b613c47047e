// Package book drives one talking-book build from input files to a
// finished archive.
//
// A build runs in fixed phases on the calling goroutine: inputs are
// classified and loaded (fetching remote ones), section timelines are
// reconciled or speech-aligned, the table of contents is derived, audio is
// submitted for transcoding, and finally sections are written in order.
// Transcoding is the only concurrent phase.
//
// Key types:
//   - Request: inputs, metadata and callbacks for one build
//   - Builder: holds the collaborators (fetcher, encoder, prober, ASR)
//   - Warnings: accumulates non-fatal problems, optionally promoting them
//
// Primary entry point:
//   - Builder.Build
package book
