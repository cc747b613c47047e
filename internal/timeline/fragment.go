package timeline

import (
	"fmt"
	"strings"
)

// Kind is the element type of a fragment.
type Kind uint8

const (
	KindH1 Kind = iota + 1
	KindH2
	KindH3
	KindH4
	KindH5
	KindH6
	KindParagraph
	KindSpan
)

// HeadingKind returns the heading kind for level, clamped to 1..6.
func HeadingKind(level int) Kind {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return Kind(level)
}

// KindFromTag maps an HTML element name to a fragment kind. Heading tags
// keep their level, span stays inline, anything else is a paragraph.
func KindFromTag(tag string) Kind {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return Kind(tag[1] - '0')
	}
	if tag == "span" {
		return KindSpan
	}
	return KindParagraph
}

// IsHeading reports whether k is h1..h6.
func (k Kind) IsHeading() bool {
	return k >= KindH1 && k <= KindH6
}

// Level returns the heading depth, or 0 for non-headings.
func (k Kind) Level() int {
	if !k.IsHeading() {
		return 0
	}
	return int(k)
}

// Tag returns the XHTML element name for the kind.
func (k Kind) Tag() string {
	switch {
	case k.IsHeading():
		return fmt.Sprintf("h%d", k)
	case k == KindSpan:
		return "span"
	default:
		return "p"
	}
}

func (k Kind) String() string {
	return k.Tag()
}

// FragmentID identifies a fragment for the lifetime of its timeline.
type FragmentID int

// Fragment is one piece of markup-bearing text with its element kind.
// Images lists package-relative image files displayed before the text.
type Fragment struct {
	ID     FragmentID
	Kind   Kind
	Text   string
	Images []string
}

// PageMarker records that printed page Page begins at Fragment.
type PageMarker struct {
	Fragment FragmentID
	Page     string
}
