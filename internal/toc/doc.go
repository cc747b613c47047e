// Package toc derives the navigable table of contents from section
// timelines.
//
// For each section it collects heading fragments, folds a lone chapter
// number that precedes the first heading into that heading, and when the
// markup has no headings at all synthesizes one from a detected or running
// chapter number. Paragraphs that open with consecutive numbers after the
// chapter heading become secondary verse entries ("47:2", "47:3-5").
// Across the whole book, heading depth is clamped so no entry is more than
// one level deeper than the entry before it. In merge mode every sub-book
// gets a synthetic top-level heading and its own headings move down a level.
package toc
