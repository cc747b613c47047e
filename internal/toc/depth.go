package toc

import "anemone/internal/section"

// normalizeDepth clamps each primary entry to at most one level below its
// predecessor, re-tagging the heading fragment to match. Verse entries are
// kept one level below the heading they follow.
func normalizeDepth(sections []*section.Section, entries []Entry) {
	bySection := make(map[int]*section.Section, len(sections))
	for _, sec := range sections {
		bySection[sec.Number] = sec
	}
	previous := 0
	for i := range entries {
		entry := &entries[i]
		if entry.Secondary {
			entry.Level = min(previous+1, 6)
			continue
		}
		if entry.Level > previous+1 {
			entry.Level = previous + 1
			if sec := bySection[entry.Section]; sec != nil && entry.Fragment != 0 {
				relevel(sec, *entry)
			}
		}
		previous = entry.Level
	}
}
