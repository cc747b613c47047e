// Package align recovers fragment timestamps for sections that have text
// but no time markers, by aligning the known text against a speech
// recognizer's word-level transcript.
//
// Known text and transcript are tokenized the same way (see
// textutil.DetectTokenMode), matched with a longest-matching-blocks diff,
// and each fragment boundary is mapped through the best enclosing match to
// the nearest transcript word that carries a start time. Boundaries that
// cannot be resolved keep the previous boundary's time and are left for
// reconcile to merge away.
package align
