package toc

import (
	"fmt"
	"strings"

	"anemone/internal/textutil"
	"anemone/internal/timeline"
)

type verseRun struct {
	id          timeline.FragmentID
	first, last int
}

// verses finds paragraphs after the heading at primary that open with
// consecutive numbers and returns one secondary entry per fragment. A
// fragment holding several merged verses gets a range label. At least two
// numbered verses are required, numbering must rise by exactly one, and the
// scan stops at the next heading.
func verses(sectionNumber int, tl *timeline.Timeline, primary, chapter, parentLevel int) []Entry {
	var runs []verseRun
	expected := 0
	total := 0
	for i := primary + 1; i < tl.Len(); i++ {
		frag := tl.At(i)
		if frag.Kind.IsHeading() {
			break
		}
		run := verseRun{id: frag.ID}
		for _, line := range strings.Split(frag.Text, textutil.LineBreak) {
			n, ok := textutil.LeadingInteger(line)
			if !ok {
				continue
			}
			if expected != 0 && n != expected {
				return nil
			}
			if run.first == 0 {
				run.first = n
			}
			run.last = n
			expected = n + 1
			total++
		}
		if run.first != 0 {
			runs = append(runs, run)
		}
	}
	if total < 2 {
		return nil
	}
	entries := make([]Entry, 0, len(runs))
	for _, run := range runs {
		label := fmt.Sprintf("%d:%d", chapter, run.first)
		if run.last != run.first {
			label = fmt.Sprintf("%s-%d", label, run.last)
		}
		entries = append(entries, Entry{
			Section:   sectionNumber,
			Fragment:  run.id,
			Level:     min(parentLevel+1, 6),
			Label:     label,
			Secondary: true,
		})
	}
	return entries
}
