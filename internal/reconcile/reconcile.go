// Package reconcile repairs zero-duration fragments in a section timeline.
//
// A fragment whose start equals its end is merged into its successor when
// both share a tag, and otherwise the successor's timestamp is nudged to
// start one millisecond later. The repair is a single local pass; it never
// re-times the section globally.
package reconcile

import (
	"log/slog"

	"anemone/internal/logging"
	"anemone/internal/timeline"
)

// Epsilon is the smallest timestamp step written to a package.
const Epsilon = 0.001

// Result counts the repairs applied to a timeline.
type Result struct {
	Merged int
	Nudged int
}

// Changed reports whether any repair was made.
func (r Result) Changed() bool {
	return r.Merged > 0 || r.Nudged > 0
}

// Timeline repairs tl in place so that every fragment except possibly a
// blank trailing one has positive duration and start times never decrease.
// Untimed timelines are left alone.
func Timeline(tl *timeline.Timeline, logger *slog.Logger) Result {
	var result Result
	if tl == nil || !tl.Timed() {
		return result
	}
	i := 0
	for i < tl.Len() {
		start, end := tl.Start(i), tl.End(i)
		if end > start {
			i++
			continue
		}
		if i+1 >= tl.Len() {
			result = repairLast(tl, i, result)
			break
		}
		if tl.At(i).Kind == tl.At(i+1).Kind {
			_ = tl.MergeNext(i)
			result.Merged++
			continue
		}
		tl.SetStart(i+1, start+Epsilon)
		result.Nudged++
		i++
	}
	if logger != nil && result.Changed() {
		logger.Debug("timeline reconciled",
			logging.Int("merged", result.Merged),
			logging.Int("nudged", result.Nudged),
			logging.Int("fragments", tl.Len()),
		)
	}
	return result
}

// repairLast handles a final fragment that starts at or after the section
// end, which happens when a marker sits on the last audio sample or past
// it. Same-tag tails are merged; what remains is pulled back so each
// trailing fragment keeps at least Epsilon before the end.
func repairLast(tl *timeline.Timeline, i int, result Result) Result {
	if tl.Duration() <= 0 {
		return result
	}
	for i > 0 && tl.Start(i) >= tl.Duration() && tl.At(i-1).Kind == tl.At(i).Kind {
		_ = tl.MergeNext(i - 1)
		result.Merged++
		i--
	}
	limit := tl.Duration() - Epsilon
	for j := i; j > 0 && limit > 0 && tl.Start(j) > limit; j-- {
		tl.SetStart(j, limit)
		result.Nudged++
		limit -= Epsilon
	}
	return result
}
