package align

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"anemone/internal/services"
	"anemone/internal/timeline"
)

func chars(s string) []string {
	return strings.Split(s, "")
}

func TestMatchingBlocks(t *testing.T) {
	got := MatchingBlocks(chars("abxcd"), chars("abcd"))
	require.Equal(t, []Match{{A: 0, B: 0, Size: 2}, {A: 3, B: 2, Size: 2}}, got)

	require.Empty(t, MatchingBlocks(chars("abc"), chars("xyz")))
	require.Equal(t, []Match{{A: 0, B: 0, Size: 3}}, MatchingBlocks(chars("abc"), chars("abc")))
}

func TestMatchingBlocksPrefersLongestRun(t *testing.T) {
	a := strings.Fields("the cat sat on the mat")
	b := strings.Fields("a cat sat on a mat")
	got := MatchingBlocks(a, b)
	require.Equal(t, []Match{{A: 1, B: 1, Size: 3}, {A: 5, B: 5, Size: 1}}, got)
}

func words(pairs ...any) []Word {
	var out []Word
	for i := 0; i < len(pairs); i += 2 {
		w := Word{Text: pairs[i].(string)}
		if at, ok := pairs[i+1].(float64); ok {
			w.Start, w.Timed = at, true
		}
		out = append(out, w)
	}
	return out
}

func sectionTimeline(texts ...string) *timeline.Timeline {
	tl := timeline.New(true)
	for _, text := range texts {
		tl.Append(timeline.KindParagraph, text, 0)
	}
	tl.SetDuration(3)
	return tl
}

func TestTimelineAssignsBoundaries(t *testing.T) {
	tl := sectionTimeline("Hello world.", "This is a <em>test</em>.", "Goodbye now")
	transcript := words("Hello", 0.0, "world", 0.5, "this", 1.0, "is", 1.2, "a", 1.3, "test", 1.5, "goodbye", 2.0, "now", 2.4)

	res, err := Timeline(tl, transcript, nil)
	require.NoError(t, err)
	require.Equal(t, 2, res.Boundaries)
	require.Equal(t, 2, res.Resolved)
	require.Equal(t, 1.0, tl.Start(1))
	require.Equal(t, 2.0, tl.Start(2))
}

func TestTimelineWalksForwardToTimedWord(t *testing.T) {
	tl := sectionTimeline("hello world", "1914 began", "the end")
	transcript := words("hello", 0.0, "world", 0.4, "1914", nil, "began", 1.1, "the", 2.0, "end", 2.2)

	_, err := Timeline(tl, transcript, nil)
	require.NoError(t, err)
	require.Equal(t, 1.1, tl.Start(1))
}

func TestTimelineUsesNextMatchForMisheardBoundary(t *testing.T) {
	tl := sectionTimeline("hello world", "this is a test")
	transcript := words("hello", 0.0, "word", 0.4, "thus", 1.0, "is", 1.2, "a", 1.3, "test", 1.5)

	res, err := Timeline(tl, transcript, nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.Resolved)
	require.Equal(t, 1.2, tl.Start(1))
}

func TestTimelineLeavesUnresolvedAtPreviousTime(t *testing.T) {
	tl := sectionTimeline("hello world", "never spoken")
	transcript := words("hello", 0.2, "world", 0.6)

	res, err := Timeline(tl, transcript, nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.Unresolved())
	require.Equal(t, 0.0, tl.Start(1))
}

func TestTimelineFailsWithoutTranscription(t *testing.T) {
	tl := sectionTimeline("hello", "world")
	_, err := Timeline(tl, words("...", 0.1), nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, services.ErrNoTranscription))
}
