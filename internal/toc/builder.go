package toc

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"anemone/internal/logging"
	"anemone/internal/section"
	"anemone/internal/textutil"
	"anemone/internal/timeline"
)

// HeadingOffset separates a synthesized heading from the content it
// precedes. Some readers mishandle a clip that ends at exactly zero.
const HeadingOffset = 0.001

// Options controls TOC derivation.
type Options struct {
	// NormalizeDepth clamps heading levels so depth never jumps by more than one.
	NormalizeDepth bool
	// IgnoreChapterSkips silences the warning raised when detected chapter
	// numbers jump forward.
	IgnoreChapterSkips bool
	// ChapterTitles supplies synthesized heading text per section (index 0
	// is section 1). Empty strings fall back to the chapter number.
	ChapterTitles []string
	// Books enables merge mode when more than one sub-book is listed.
	Books []section.Book
	// Warn records a non-fatal problem. A non-nil return aborts the build.
	Warn func(message string) error
}

// Builder walks sections in order, carrying the chapter counter between them.
type Builder struct {
	opts    Options
	logger  *slog.Logger
	counter int
}

// NewBuilder returns a builder for one book.
func NewBuilder(opts Options, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Builder{opts: opts, logger: logger}
}

// Build derives entries for every section, mutating section timelines where
// headings are absorbed, synthesized or re-levelled. Every section yields at
// least one entry.
func (b *Builder) Build(sections []*section.Section) ([]Entry, error) {
	starts := b.bookStarts(len(sections))
	var entries []Entry
	for i, sec := range sections {
		title, startsBook := starts[i]
		if startsBook {
			b.counter = 0
		}
		sectionEntries, err := b.buildSection(sec)
		if err != nil {
			return nil, err
		}
		if b.merging() {
			for j := range sectionEntries {
				sectionEntries[j].Level = min(sectionEntries[j].Level+1, 6)
				if !sectionEntries[j].Secondary && sectionEntries[j].Fragment != 0 {
					relevel(sec, sectionEntries[j])
				}
			}
		}
		if startsBook {
			entries = append(entries, b.insertBookHeading(sec, title))
		}
		entries = append(entries, sectionEntries...)
	}
	if b.opts.NormalizeDepth {
		normalizeDepth(sections, entries)
	}
	b.logger.Debug("table of contents built",
		logging.Int("entries", len(entries)),
		logging.Int("depth", MaxDepth(entries)),
		logging.Int("verses", len(Secondary(entries))),
	)
	return entries, nil
}

func (b *Builder) merging() bool {
	return len(b.opts.Books) > 1
}

// bookStarts maps the index of each sub-book's first section to its title.
func (b *Builder) bookStarts(total int) map[int]string {
	starts := map[int]string{}
	if !b.merging() {
		return starts
	}
	index := 0
	for _, book := range b.opts.Books {
		if index >= total {
			break
		}
		starts[index] = book.Title
		index += book.Sections
	}
	return starts
}

// insertBookHeading adds the sub-book's h1 in front of its first section.
func (b *Builder) insertBookHeading(sec *section.Section, title string) Entry {
	entry := Entry{Section: sec.Number, Level: 1, Label: textutil.EscapeText(title)}
	body := sec.Text()
	if body == nil {
		return entry
	}
	tl := body.Timeline
	at := max(tl.FirstContent(), 0)
	start := tl.Start(at)
	entry.Fragment = tl.InsertAt(at, timeline.KindH1, entry.Label, start)
	if tl.Len() > at+1 && tl.Timed() {
		tl.SetStart(at+1, start+HeadingOffset)
	}
	return entry
}

func (b *Builder) buildSection(sec *section.Section) ([]Entry, error) {
	switch body := sec.Body.(type) {
	case section.TitleBody:
		b.counter++
		return []Entry{{Section: sec.Number, Level: 1, Label: textutil.EscapeText(body.Title)}}, nil
	case *section.TextBody:
		return b.buildText(sec, body.Timeline)
	default:
		return nil, fmt.Errorf("section %d: unsupported body %T", sec.Number, sec.Body)
	}
}

func (b *Builder) buildText(sec *section.Section, tl *timeline.Timeline) ([]Entry, error) {
	chapter, err := b.absorbChapterNumber(tl)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	primary := -1
	for i, frag := range tl.Fragments() {
		if !frag.Kind.IsHeading() {
			continue
		}
		if primary < 0 {
			primary = i
		}
		entries = append(entries, Entry{
			Section:  sec.Number,
			Fragment: frag.ID,
			Level:    frag.Kind.Level(),
			Label:    frag.Text,
		})
	}

	if primary < 0 {
		primary, chapter, err = b.synthesizeHeading(sec, tl)
		if err != nil {
			return nil, err
		}
		frag := tl.At(primary)
		entries = append(entries, Entry{Section: sec.Number, Fragment: frag.ID, Level: 1, Label: frag.Text})
	} else if chapter == 0 {
		if n, ok := textutil.SingleInteger(tl.At(primary).Text); ok {
			chapter = n
			b.counter = n
		} else {
			b.counter++
		}
	}

	if chapter > 0 {
		parentLevel := tl.At(primary).Kind.Level()
		entries = append(entries, verses(sec.Number, tl, primary, chapter, parentLevel)...)
	}
	return entries, nil
}

// absorbChapterNumber folds a lone number in the first content fragment
// into an immediately following heading ("47" + "One" => "47: One") and
// splices the number fragment out. It returns the absorbed number or zero.
func (b *Builder) absorbChapterNumber(tl *timeline.Timeline) (int, error) {
	first := tl.FirstContent()
	if first < 0 || first+1 >= tl.Len() {
		return 0, nil
	}
	lead, next := tl.At(first), tl.At(first+1)
	if lead.Kind.IsHeading() || !next.Kind.IsHeading() {
		return 0, nil
	}
	number, ok := textutil.SingleInteger(lead.Text)
	if !ok {
		return 0, nil
	}
	if err := b.advanceCounter(number); err != nil {
		return 0, err
	}
	tl.SetText(first+1, fmt.Sprintf("%d: %s", number, next.Text))
	if err := tl.Remove(first); err != nil {
		return 0, err
	}
	return number, nil
}

// synthesizeHeading creates an h1 for a section whose markup has none. The
// chapter number comes from a number opening the first content fragment,
// or from the running counter.
func (b *Builder) synthesizeHeading(sec *section.Section, tl *timeline.Timeline) (int, int, error) {
	first := tl.FirstContent()
	if first < 0 {
		first = 0
	}
	source := ""
	if tl.Len() > 0 {
		source = textutil.PlainText(tl.At(first).Text)
	}

	number, detected := 0, false
	if tl.Len() > 0 {
		number, detected = textutil.LeadingInteger(tl.At(first).Text)
	}
	if detected {
		if err := b.advanceCounter(number); err != nil {
			return 0, 0, err
		}
	} else {
		b.counter++
		number = b.counter
	}

	title := strconv.Itoa(number)
	if custom := b.chapterTitle(sec.Number); custom != "" {
		if !strings.Contains(custom, title) {
			var msg string
			if detected {
				msg = fmt.Sprintf("Title for chapter %d is '%s' which does not contain the expected '%d' (extracted from '%s')", number, custom, number, source)
			} else {
				msg = fmt.Sprintf("Title for chapter %d is '%s' which does not contain the expected '%d' (from automatic numbering as nothing was extracted from '%s')", number, custom, number, source)
			}
			if err := b.warn(msg); err != nil {
				return 0, 0, err
			}
		}
		title = custom
	}
	title = textutil.EscapeText(title)

	if tl.Len() == 0 {
		tl.Append(timeline.KindH1, title, 0)
		return 0, number, nil
	}

	if detected {
		stripped := textutil.StripLeadingInteger(tl.At(first).Text)
		if textutil.PlainText(stripped) == "" && len(tl.At(first).Images) == 0 {
			tl.SetKind(first, timeline.KindH1)
			tl.SetText(first, title)
			return first, number, nil
		}
		tl.SetText(first, stripped)
	}

	start := tl.Start(first)
	tl.InsertAt(first, timeline.KindH1, title, start)
	if tl.Timed() {
		tl.SetStart(first+1, start+HeadingOffset)
	}
	b.logger.Debug("heading synthesized",
		logging.Int("section", sec.Number),
		logging.Int("chapter", number),
		logging.Bool("detected", detected),
	)
	return first, number, nil
}

func (b *Builder) chapterTitle(number int) string {
	if number < 1 || number > len(b.opts.ChapterTitles) {
		return ""
	}
	return strings.TrimSpace(b.opts.ChapterTitles[number-1])
}

// advanceCounter moves the running chapter counter to a detected number,
// warning when the jump implies chapters are missing.
func (b *Builder) advanceCounter(number int) error {
	previous := b.counter
	b.counter = number
	if number > previous+1 && !b.opts.IgnoreChapterSkips {
		var msg string
		if number == previous+2 {
			msg = fmt.Sprintf("Chapter %d appears to be missing (went from %d to %d)", previous+1, previous, number)
		} else {
			msg = fmt.Sprintf("Chapters %d to %d appear to be missing (went from %d to %d)", previous+1, number-1, previous, number)
		}
		return b.warn(msg)
	}
	return nil
}

func (b *Builder) warn(message string) error {
	b.logger.Warn("table of contents warning",
		logging.String("reason", message),
		logging.String(logging.FieldEventType, "toc_warning"),
		logging.String(logging.FieldErrorHint, "check chapter numbering or supply chapter titles"),
	)
	if b.opts.Warn != nil {
		return b.opts.Warn(message)
	}
	return nil
}

// relevel shifts a heading fragment to match its entry level.
func relevel(sec *section.Section, entry Entry) {
	body := sec.Text()
	if body == nil {
		return
	}
	if idx, ok := body.Timeline.Index(entry.Fragment); ok {
		body.Timeline.SetKind(idx, timeline.HeadingKind(entry.Level))
	}
}
