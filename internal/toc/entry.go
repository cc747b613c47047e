package toc

import "anemone/internal/timeline"

// Entry is one navigation point. Fragment is zero for title-only sections,
// which have a single implicit fragment. Secondary entries (verses) are
// listed separately from the heading hierarchy by DAISY 3 readers.
type Entry struct {
	Section   int
	Fragment  timeline.FragmentID
	Level     int
	Label     string
	Secondary bool
}

// MaxDepth returns the deepest level among primary entries.
func MaxDepth(entries []Entry) int {
	depth := 0
	for _, entry := range entries {
		if !entry.Secondary && entry.Level > depth {
			depth = entry.Level
		}
	}
	return depth
}

// Primary returns the entries that are part of the heading hierarchy.
func Primary(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Secondary {
			out = append(out, entry)
		}
	}
	return out
}

// Secondary returns the verse entries.
func Secondary(entries []Entry) []Entry {
	var out []Entry
	for _, entry := range entries {
		if entry.Secondary {
			out = append(out, entry)
		}
	}
	return out
}
