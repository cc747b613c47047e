// Package preflight provides readiness checks for the external tools and
// filesystem paths anemone depends on.
//
// These checks back the "anemone doctor" command and run before a build
// so that a missing ffmpeg or an unwritable output directory fails fast
// instead of after the inputs have been fetched and aligned.
//
// Each check is gated by its config toggle; disabled features are skipped.
package preflight
