package toc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"anemone/internal/section"
	"anemone/internal/timeline"
)

type frag struct {
	kind  timeline.Kind
	text  string
	start float64
}

func textSection(number int, frags ...frag) *section.Section {
	tl := timeline.New(true)
	for _, f := range frags {
		tl.Append(f.kind, f.text, f.start)
	}
	tl.SetDuration(10)
	return &section.Section{Number: number, Audio: "a.mp3", Duration: 10, Body: &section.TextBody{Timeline: tl}}
}

func p(text string, start float64) frag  { return frag{timeline.KindParagraph, text, start} }
func h(level int, text string, start float64) frag {
	return frag{timeline.HeadingKind(level), text, start}
}

func collectWarnings(list *[]string) func(string) error {
	return func(msg string) error {
		*list = append(*list, msg)
		return nil
	}
}

func TestMarkupHeadingsBecomeEntries(t *testing.T) {
	sec := textSection(1, h(1, "Title", 0), p("intro", 1), h(2, "Part", 2), p("body", 3))
	entries, err := NewBuilder(Options{NormalizeDepth: true}, nil).Build([]*section.Section{sec})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "Title", entries[0].Label)
	require.Equal(t, 1, entries[0].Level)
	require.Equal(t, 2, entries[1].Level)
}

func TestChapterNumberAbsorbedIntoHeading(t *testing.T) {
	sec := textSection(1, p("47 one", 0), h(1, "one", 1), p("text", 2), p("more", 3))
	before := sec.Text().Timeline
	pages := []timeline.PageMarker{
		{Fragment: before.At(0).ID, Page: "12"},
		{Fragment: before.At(3).ID, Page: "13"},
	}
	sec.Text().Pages = pages

	var warnings []string
	entries, err := NewBuilder(Options{IgnoreChapterSkips: true, Warn: collectWarnings(&warnings)}, nil).Build([]*section.Section{sec})
	require.NoError(t, err)
	require.Empty(t, warnings)

	tl := sec.Text().Timeline
	require.Len(t, entries, 1)
	require.Equal(t, "47: one", entries[0].Label)
	require.Equal(t, 3, tl.Len(), "leading number fragment is spliced out")
	require.Equal(t, "47: one", tl.At(0).Text)
	require.Equal(t, timeline.KindH1, tl.At(0).Kind)
	require.Equal(t, 0.0, tl.Start(0))

	idx, ok := tl.Index(pages[0].Fragment)
	require.True(t, ok)
	require.Equal(t, 0, idx, "page marker follows the heading")

	idx, ok = tl.Index(pages[1].Fragment)
	require.True(t, ok)
	require.Equal(t, 2, idx, "later page marker shifts with the splice")
	require.Equal(t, "more", tl.At(idx).Text)
	require.Equal(t, 3.0, tl.Start(idx))
}

func TestSynthesizedHeadingWithVerses(t *testing.T) {
	sec := textSection(1, p("47 one", 0), p("2 two", 1), p("3 three", 2))
	entries, err := NewBuilder(Options{IgnoreChapterSkips: true}, nil).Build([]*section.Section{sec})
	require.NoError(t, err)

	tl := sec.Text().Timeline
	require.Equal(t, 4, tl.Len())
	require.Equal(t, timeline.KindH1, tl.At(0).Kind)
	require.Equal(t, "47", tl.At(0).Text)
	require.Equal(t, "one", tl.At(1).Text)
	require.InDelta(t, HeadingOffset, tl.Start(1), 1e-12)

	require.Len(t, entries, 3)
	require.Equal(t, "47", entries[0].Label)
	require.Equal(t, "47:2", entries[1].Label)
	require.True(t, entries[1].Secondary)
	require.Equal(t, 2, entries[1].Level)
	idx, _ := tl.Index(entries[1].Fragment)
	require.Equal(t, 2, idx)
	require.Equal(t, 1.0, tl.Start(idx))
	require.Equal(t, 2.0, tl.End(idx))
	require.Equal(t, "47:3", entries[2].Label)
}

func TestMergedVersesProduceRange(t *testing.T) {
	sec := textSection(1, h(1, "Psalm 3", 0), p("1 a", 1), p("2 b<br />3 c", 2), p("4 d", 3))
	entries, err := NewBuilder(Options{}, nil).Build([]*section.Section{sec})
	require.NoError(t, err)
	labels := []string{}
	for _, entry := range Secondary(entries) {
		labels = append(labels, entry.Label)
	}
	require.Equal(t, []string{"3:1", "3:2-3", "3:4"}, labels)
}

func TestNonConsecutiveNumbersAreNotVerses(t *testing.T) {
	sec := textSection(1, h(1, "Chapter 1", 0), p("1 a", 1), p("5 b", 2))
	entries, err := NewBuilder(Options{}, nil).Build([]*section.Section{sec})
	require.NoError(t, err)
	require.Empty(t, Secondary(entries))
}

func TestAutomaticNumberingWithTitleWarning(t *testing.T) {
	tl := timeline.New(false)
	tl.Append(timeline.KindParagraph, "one", 0)
	tl.Append(timeline.KindParagraph, "two", 0)
	sec := &section.Section{Number: 1, Body: &section.TextBody{Timeline: tl}}

	var warnings []string
	entries, err := NewBuilder(Options{ChapterTitles: []string{"Chapter 74"}, Warn: collectWarnings(&warnings)}, nil).Build([]*section.Section{sec})
	require.NoError(t, err)
	require.Equal(t, []string{"Title for chapter 1 is 'Chapter 74' which does not contain the expected '1' (from automatic numbering as nothing was extracted from 'one')"}, warnings)
	require.Equal(t, "Chapter 74", entries[0].Label)
	require.Equal(t, "Chapter 74", tl.At(0).Text)
}

func TestExtractedNumberTitleWarningIsFatalWhenPromoted(t *testing.T) {
	sec := textSection(1, p("47 one", 0), p("2 two", 1), p("3 three", 2))
	promoted := errors.New("promoted")
	var got string
	_, err := NewBuilder(Options{
		IgnoreChapterSkips: true,
		ChapterTitles:      []string{"Chapter 74"},
		Warn: func(msg string) error {
			got = msg
			return promoted
		},
	}, nil).Build([]*section.Section{sec})
	require.ErrorIs(t, err, promoted)
	require.Equal(t, "Title for chapter 47 is 'Chapter 74' which does not contain the expected '47' (extracted from '47 one')", got)
}

func TestChapterSkipWarning(t *testing.T) {
	s1 := textSection(1, p("1 first", 0), p("more", 1))
	s2 := textSection(2, p("4 fourth", 0), p("more", 1))
	var warnings []string
	_, err := NewBuilder(Options{Warn: collectWarnings(&warnings)}, nil).Build([]*section.Section{s1, s2})
	require.NoError(t, err)
	require.Equal(t, []string{"Chapters 2 to 3 appear to be missing (went from 1 to 4)"}, warnings)
}

func TestNumberInsideProseIsNotAChapter(t *testing.T) {
	sec := textSection(1, p("Testing 123", 0), p("another voice", 1.5))
	entries, err := NewBuilder(Options{ChapterTitles: []string{"Script 1"}}, nil).Build([]*section.Section{sec})
	require.NoError(t, err)
	require.Equal(t, "Script 1", entries[0].Label)
	require.Equal(t, "Testing 123", sec.Text().Timeline.At(1).Text)
}

func TestTitleOnlySection(t *testing.T) {
	sec := &section.Section{Number: 1, Audio: "test.wav", Body: section.TitleBody{Title: "test"}}
	entries, err := NewBuilder(Options{}, nil).Build([]*section.Section{sec})
	require.NoError(t, err)
	require.Equal(t, []Entry{{Section: 1, Level: 1, Label: "test"}}, entries)
}

func TestDepthNormalization(t *testing.T) {
	sec := textSection(1, h(1, "A", 0), h(4, "B", 1), h(6, "C", 2), h(2, "D", 3))
	entries, err := NewBuilder(Options{NormalizeDepth: true}, nil).Build([]*section.Section{sec})
	require.NoError(t, err)
	levels := []int{}
	for _, entry := range entries {
		levels = append(levels, entry.Level)
	}
	require.Equal(t, []int{1, 2, 3, 2}, levels)
	require.Equal(t, timeline.KindH2, sec.Text().Timeline.At(1).Kind)
	require.Equal(t, timeline.KindH3, sec.Text().Timeline.At(2).Kind)
}

func TestDepthNormalizationAcrossSections(t *testing.T) {
	s1 := textSection(1, h(2, "A", 0), p("x", 1))
	s2 := textSection(2, h(5, "B", 0), p("y", 1))
	entries, err := NewBuilder(Options{NormalizeDepth: true}, nil).Build([]*section.Section{s1, s2})
	require.NoError(t, err)
	previous := 0
	for _, entry := range Primary(entries) {
		require.LessOrEqual(t, entry.Level, previous+1)
		previous = entry.Level
	}
}

func TestMergeBooksShiftsLevels(t *testing.T) {
	s1 := textSection(1, h(1, "Genesis 1", 0), p("text", 1))
	s2 := textSection(2, h(1, "Exodus 1", 0), p("text", 1))
	opts := Options{
		NormalizeDepth: true,
		Books:          []section.Book{{Title: "Genesis", Sections: 1}, {Title: "Exodus", Sections: 1}},
	}
	entries, err := NewBuilder(opts, nil).Build([]*section.Section{s1, s2})
	require.NoError(t, err)

	require.Len(t, entries, 4)
	require.Equal(t, "Genesis", entries[0].Label)
	require.Equal(t, 1, entries[0].Level)
	require.Equal(t, 2, entries[1].Level)
	require.Equal(t, "Exodus", entries[2].Label)

	tl := s1.Text().Timeline
	require.Equal(t, timeline.KindH1, tl.At(0).Kind)
	require.Equal(t, "Genesis", tl.At(0).Text)
	require.Equal(t, timeline.KindH2, tl.At(1).Kind)
	require.InDelta(t, HeadingOffset, tl.Start(1), 1e-12)
}

func TestEveryTextSectionGetsAnEntry(t *testing.T) {
	sections := []*section.Section{
		textSection(1, p("alpha", 0), p("beta", 1)),
		textSection(2, p("", 0)),
	}
	entries, err := NewBuilder(Options{}, nil).Build(sections)
	require.NoError(t, err)
	seen := map[int]bool{}
	for _, entry := range entries {
		seen[entry.Section] = true
	}
	require.True(t, seen[1])
	require.True(t, seen[2])
}
