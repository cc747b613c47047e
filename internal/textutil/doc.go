// Package textutil provides the text helpers shared by the timeline, TOC and
// alignment code.
//
// The primary use cases are:
//   - Extracting integer runs from fragment text for chapter and verse detection
//   - Stripping and escaping XHTML markup carried inside fragment text
//   - Tokenizing known text and transcripts for speech alignment
//   - Sanitizing filenames derived from titles
package textutil
