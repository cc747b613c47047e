package align

import (
	"log/slog"
	"strings"

	"anemone/internal/logging"
	"anemone/internal/services"
	"anemone/internal/textutil"
	"anemone/internal/timeline"
)

// Word is one recognized word. Timed is false when the recognizer could not
// place the word (some engines omit times for numerals and symbols).
type Word struct {
	Text  string
	Start float64
	Timed bool
}

// Result summarizes an alignment.
type Result struct {
	Boundaries int
	Resolved   int
	Mode       textutil.TokenMode
}

// Unresolved returns the number of boundaries left at a placeholder time.
func (r Result) Unresolved() int {
	return r.Boundaries - r.Resolved
}

type transcriptToken struct {
	text  string
	start float64
	timed bool
}

// Timeline sets the start time of every fragment after the first from the
// transcript. It fails with services.ErrNoTranscription when the transcript
// yields no tokens at all.
func Timeline(tl *timeline.Timeline, words []Word, logger *slog.Logger) (Result, error) {
	var result Result
	if tl == nil || tl.Len() == 0 {
		return result, nil
	}

	var all strings.Builder
	for _, frag := range tl.Fragments() {
		all.WriteString(frag.Text)
		all.WriteByte('\n')
	}
	mode := textutil.DetectTokenMode(all.String())
	result.Mode = mode

	var known []string
	offsets := make([]int, tl.Len())
	for i, frag := range tl.Fragments() {
		offsets[i] = len(known)
		known = append(known, textutil.AlignTokens(frag.Text, mode)...)
	}

	var heard []transcriptToken
	for _, w := range words {
		for _, tok := range textutil.AlignTokens(w.Text, mode) {
			heard = append(heard, transcriptToken{text: tok, start: w.Start, timed: w.Timed})
		}
	}
	if len(heard) == 0 {
		return result, services.Wrap(services.ErrNoTranscription, "align", "transcript", "speech recognizer returned no words", nil)
	}
	heardText := make([]string, len(heard))
	for i, tok := range heard {
		heardText[i] = tok.text
	}

	blocks := MatchingBlocks(known, heardText)
	previous := 0.0
	for i := 1; i < tl.Len(); i++ {
		result.Boundaries++
		at, ok := boundaryTime(offsets[i], len(known), blocks, heard)
		if ok && at >= previous {
			previous = at
			result.Resolved++
		}
		tl.SetStart(i, previous)
	}
	if logger != nil {
		logger.Debug("transcript aligned",
			logging.Int("known_tokens", len(known)),
			logging.Int("heard_tokens", len(heard)),
			logging.Int("matching_blocks", len(blocks)),
			logging.Int("boundaries", result.Boundaries),
			logging.Int("resolved", result.Resolved),
		)
	}
	return result, nil
}

// boundaryTime maps known-token offset k through the matching blocks to a
// transcript position, then walks forward to the first timed word.
func boundaryTime(k, knownLen int, blocks []Match, heard []transcriptToken) (float64, bool) {
	if k >= knownLen {
		return 0, false
	}
	pos := -1
	for _, block := range blocks {
		if block.A <= k && k < block.A+block.Size {
			pos = block.B + (k - block.A)
			break
		}
		if block.A > k {
			pos = block.B
			break
		}
	}
	if pos < 0 {
		return 0, false
	}
	for ; pos < len(heard); pos++ {
		if heard[pos].timed {
			return heard[pos].start, true
		}
	}
	return 0, false
}
