// Package section defines the per-recording unit a book is assembled from.
package section

import (
	"anemone/internal/timeline"
)

// Body is the content carried by a section: either a bare title or a full
// timeline of fragments.
type Body interface {
	isBody()
}

// TitleBody is a section with no text beyond its title.
type TitleBody struct {
	Title string
}

// TextBody is a section with a fragment timeline and optional page markers.
type TextBody struct {
	Timeline *timeline.Timeline
	Pages    []timeline.PageMarker
}

func (TitleBody) isBody() {}
func (*TextBody) isBody() {}

// Section is one recording with its text. Number is 1-based and fixes the
// output file names; Audio is empty for text-only books.
type Section struct {
	Number   int
	Audio    string
	Duration float64
	Body     Body
}

// Text returns the section's timeline body, or nil for title-only sections.
func (s *Section) Text() *TextBody {
	if body, ok := s.Body.(*TextBody); ok {
		return body
	}
	return nil
}

// HasAudio reports whether the section carries a recording.
func (s *Section) HasAudio() bool {
	return s.Audio != ""
}

// Book groups consecutive sections that form one sub-book when several
// books are merged into a single package.
type Book struct {
	Title    string
	Sections int
}
