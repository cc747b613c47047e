package daisy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"anemone/internal/images"
	"anemone/internal/section"
	"anemone/internal/textutil"
	"anemone/internal/timeline"
	"anemone/internal/toc"
)

// DAISY variants.
const (
	Version2 = 2
	Version3 = 3
)

// Generator is written into every file's generator metadata.
const Generator = "anemone (https://github.com/ssb22/anemone)"

// ErrNoSections is returned by Finish when nothing was added.
var ErrNoSections = errors.New("package has no sections")

// Metadata describes the publication.
type Metadata struct {
	Title     string
	Creator   string
	Publisher string
	Narrator  string
	Date      string
	Language  string
	UID       string
}

// File is one rendered package member.
type File struct {
	Name string
	Data []byte
}

// AudioName returns the archive name of a section's recording.
func AudioName(number int) string {
	return fmt.Sprintf("%04d.mp3", number)
}

// SMILName returns the archive name of a section's sync file.
func SMILName(number int) string {
	return fmt.Sprintf("%04d.smil", number)
}

// ContentName returns the archive name of a section's text file.
func ContentName(version, number int) string {
	if version == Version3 {
		return fmt.Sprintf("%04d.xml", number)
	}
	return fmt.Sprintf("%04d.htm", number)
}

// Options configures a Package.
type Options struct {
	Version int
	Meta    Metadata
	Entries []toc.Entry
}

type imageRef struct {
	src string
	id  string
}

// par is one text/audio pair of a section's SMIL file.
type par struct {
	k      int
	textID string
	kind   timeline.Kind
	text   string
	images []imageRef
	pages  []string
	begin  float64
	end    float64
}

type sectionLayout struct {
	number   int
	audio    bool
	fullText bool
	duration float64
	elapsed  float64
	pars     []par
	tl       *timeline.Timeline
}

// parFor returns the position of the par showing fragment id.
func (l *sectionLayout) parFor(id timeline.FragmentID) int {
	if l.tl == nil || id == 0 {
		return 0
	}
	if i, ok := l.tl.Index(id); ok {
		return i
	}
	return 0
}

func (l *sectionLayout) title() string {
	for _, p := range l.pars {
		if p.kind.IsHeading() {
			return textutil.PlainText(p.text)
		}
	}
	if len(l.pars) > 0 {
		return textutil.PlainText(l.pars[0].text)
	}
	return ""
}

// Package accumulates sections and renders the book.
type Package struct {
	opts      Options
	sections  []*sectionLayout
	byNumber  map[int]*sectionLayout
	nextText  int
	nextImage int
	elapsed   float64
	images    []images.File
}

// New returns an empty package.
func New(opts Options) *Package {
	if opts.Version != Version3 {
		opts.Version = Version2
	}
	return &Package{opts: opts, byNumber: make(map[int]*sectionLayout)}
}

// Version returns the DAISY variant being produced.
func (p *Package) Version() int { return p.opts.Version }

// TotalDuration returns the audio length of the sections added so far.
func (p *Package) TotalDuration() float64 { return p.elapsed }

// AddSection lays out sec, whose Duration must be final, and returns its
// sync and content files. The caller stores the audio itself under
// AudioName.
func (p *Package) AddSection(sec *section.Section) ([]File, error) {
	if _, dup := p.byNumber[sec.Number]; dup {
		return nil, fmt.Errorf("section %d added twice", sec.Number)
	}
	l := &sectionLayout{
		number:   sec.Number,
		audio:    sec.HasAudio(),
		duration: sec.Duration,
		elapsed:  p.elapsed,
	}
	switch body := sec.Body.(type) {
	case section.TitleBody:
		l.pars = []par{{
			textID: p.textID(),
			kind:   timeline.KindH1,
			text:   textutil.EscapeText(body.Title),
			end:    sec.Duration,
		}}
	case *section.TextBody:
		l.fullText = true
		l.tl = body.Timeline
		if l.audio {
			l.tl.SetDuration(sec.Duration)
		}
		pages := make(map[timeline.FragmentID][]string)
		for _, marker := range body.Pages {
			id := l.tl.Resolve(marker.Fragment)
			pages[id] = append(pages[id], marker.Page)
		}
		for i, frag := range l.tl.Fragments() {
			item := par{
				k:      i,
				textID: p.textID(),
				kind:   frag.Kind,
				text:   frag.Text,
				pages:  pages[frag.ID],
				images: p.imageRefs(frag.Images),
			}
			if l.audio {
				item.begin, item.end = l.tl.Start(i), l.tl.End(i)
			}
			l.pars = append(l.pars, item)
		}
	default:
		return nil, fmt.Errorf("section %d: unsupported body %T", sec.Number, sec.Body)
	}
	if len(l.pars) == 0 {
		return nil, fmt.Errorf("section %d has no text", sec.Number)
	}
	p.sections = append(p.sections, l)
	p.byNumber[sec.Number] = l
	if l.audio {
		p.elapsed += sec.Duration
	}
	return []File{
		{Name: SMILName(sec.Number), Data: p.sectionSMIL(l)},
		{Name: ContentName(p.opts.Version, sec.Number), Data: p.content(l)},
	}, nil
}

func (p *Package) textID() string {
	p.nextText++
	return "p" + strconv.Itoa(p.nextText)
}

func (p *Package) imageRefs(srcs []string) []imageRef {
	if len(srcs) == 0 {
		return nil
	}
	refs := make([]imageRef, 0, len(srcs))
	for _, src := range srcs {
		refs = append(refs, imageRef{src: src, id: "i" + strconv.Itoa(p.nextImage)})
		p.nextImage++
	}
	return refs
}

// Finish renders the navigation, manifest and info files. imgs lists the
// image files stored in the package.
func (p *Package) Finish(imgs []images.File) ([]File, error) {
	if len(p.sections) == 0 {
		return nil, ErrNoSections
	}
	p.images = imgs
	var files []File
	if p.opts.Version == Version3 {
		opf, err := p.packageOPF()
		if err != nil {
			return nil, err
		}
		files = append(files,
			File{Name: "navigation.ncx", Data: p.ncx()},
			File{Name: "package.opf", Data: opf},
		)
	} else {
		files = append(files,
			File{Name: "ncc.html", Data: p.ncc()},
			File{Name: "master.smil", Data: p.masterSMIL()},
		)
	}
	if p.hasAudio() {
		info, err := p.bookInfo()
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: "er_book_info.xml", Data: info})
	}
	return files, nil
}

func (p *Package) hasAudio() bool {
	for _, l := range p.sections {
		if l.audio {
			return true
		}
	}
	return false
}

func (p *Package) hasFullText() bool {
	for _, l := range p.sections {
		if l.fullText {
			return true
		}
	}
	return false
}

// multimediaType returns the dtb/ncc multimedia type for the variant.
func (p *Package) multimediaType() string {
	nav := "NCC"
	if p.opts.Version == Version3 {
		nav = "NCX"
	}
	switch {
	case !p.hasAudio():
		return "text" + nav
	case p.hasFullText():
		return "audioFullText"
	default:
		return "audio" + nav
	}
}

// memberNames lists every package member in archive order.
func (p *Package) memberNames() []string {
	var names []string
	for _, l := range p.sections {
		if l.audio {
			names = append(names, AudioName(l.number))
		}
		names = append(names, SMILName(l.number), ContentName(p.opts.Version, l.number))
	}
	for _, img := range p.images {
		names = append(names, img.Name)
	}
	return names
}

// navItem is a navigation target: a TOC entry or a page marker.
type navItem struct {
	sec   *sectionLayout
	k     int
	level int
	label string
	page  string
	verse bool
}

func (n navItem) par() par { return n.sec.pars[n.k] }

// navItems returns headings, verses and pages in reading order. Pages
// come before the entries that point at the same fragment.
func (p *Package) navItems() []navItem {
	bySection := make(map[int][]toc.Entry)
	for _, entry := range p.opts.Entries {
		bySection[entry.Section] = append(bySection[entry.Section], entry)
	}
	var items []navItem
	for _, l := range p.sections {
		entriesAt := make(map[int][]toc.Entry)
		for _, entry := range bySection[l.number] {
			k := l.parFor(entry.Fragment)
			entriesAt[k] = append(entriesAt[k], entry)
		}
		for k, pr := range l.pars {
			for _, page := range pr.pages {
				items = append(items, navItem{sec: l, k: k, page: page})
			}
			for _, entry := range entriesAt[k] {
				items = append(items, navItem{
					sec:   l,
					k:     k,
					level: entry.Level,
					label: entry.Label,
					verse: entry.Secondary,
				})
			}
		}
	}
	return items
}

type pageCounts struct {
	front, normal, special, maxNormal int
}

func pageClass(page string) string {
	if _, err := strconv.Atoi(page); err == nil {
		return "normal"
	}
	if strings.Trim(strings.ToLower(page), "ivxlcdm") == "" {
		return "front"
	}
	return "special"
}

func (p *Package) pageCounts() pageCounts {
	var counts pageCounts
	for _, l := range p.sections {
		for _, pr := range l.pars {
			for _, page := range pr.pages {
				switch pageClass(page) {
				case "normal":
					counts.normal++
					if n, _ := strconv.Atoi(page); n > counts.maxNormal {
						counts.maxNormal = n
					}
				case "front":
					counts.front++
				default:
					counts.special++
				}
			}
		}
	}
	return counts
}

func (p *Package) depth() int {
	depth := 0
	for _, entry := range p.opts.Entries {
		if entry.Level > depth {
			depth = entry.Level
		}
	}
	return max(depth, 1)
}

func (p *Package) lang() string {
	if p.opts.Meta.Language == "" {
		return "en"
	}
	return p.opts.Meta.Language
}

func attr(s string) string { return textutil.EscapeAttr(s) }

func text(s string) string { return textutil.EscapeText(s) }

// labelText turns an entry label (XHTML) into escaped plain text.
func labelText(label string) string { return textutil.EscapeText(textutil.PlainText(label)) }
