package extract

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"anemone/internal/textutil"
	"anemone/internal/timeline"
)

// Options names the attributes the walk looks for.
type Options struct {
	MarkerAttribute string
	PageAttribute   string
	ImageAttribute  string
}

// Element is one marker-carrying element. Text is XHTML with only the
// allowed inline tags kept. Images are attribute values (paths or URLs)
// met before or inside the element; Page is set when a page boundary
// precedes it.
type Element struct {
	ID     string
	Kind   timeline.Kind
	Text   string
	Images []string
	Page   string
}

// Document is the ordered element list of one input file.
type Document struct {
	Elements []Element
	index    map[string]int
}

// Lookup returns the element whose marker attribute equals id.
func (d *Document) Lookup(id string) (Element, bool) {
	i, ok := d.index[id]
	if !ok {
		return Element{}, false
	}
	return d.Elements[i], true
}

var inlineTags = map[string]bool{"em": true, "i": true, "b": true, "strong": true}

var blockTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "li": true,
}

// HTML extracts elements from r. When no element carries the marker
// attribute, every heading, paragraph and list item becomes an element
// with a generated ID.
func HTML(r io.Reader, opts Options) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	w := &walker{opts: opts}
	w.walk(root)
	if len(w.elements) == 0 {
		w = &walker{opts: opts, blocks: true}
		w.walk(root)
	}
	return w.document(), nil
}

// HTMLString is HTML for in-memory markup.
func HTMLString(markup string, opts Options) (*Document, error) {
	return HTML(strings.NewReader(markup), opts)
}

type walker struct {
	opts     Options
	blocks   bool
	elements []Element
	images   []string
	page     string
}

func (w *walker) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "head", "template":
			return
		}
		if src := attr(n, w.opts.ImageAttribute); src != "" {
			w.images = append(w.images, src)
		}
		if page := attr(n, w.opts.PageAttribute); page != "" {
			w.page = page
		}
		if id, ok := w.elementID(n); ok {
			w.capture(n, id)
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *walker) elementID(n *html.Node) (string, bool) {
	if w.blocks {
		if blockTags[n.Data] {
			return fmt.Sprintf("b%d", len(w.elements)+1), true
		}
		return "", false
	}
	if w.opts.MarkerAttribute == "" {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == w.opts.MarkerAttribute {
			return a.Val, true
		}
	}
	return "", false
}

func (w *walker) capture(n *html.Node, id string) {
	el := Element{ID: id, Kind: timeline.KindFromTag(n.Data), Page: w.page}
	w.page = ""
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.inline(c, &buf)
	}
	el.Images = w.images
	w.images = nil
	el.Text = collapseSpace(buf.String())
	w.elements = append(w.elements, el)
}

func (w *walker) inline(n *html.Node, buf *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(textutil.EscapeText(n.Data))
		return
	case html.ElementNode:
	default:
		return
	}
	if src := attr(n, w.opts.ImageAttribute); src != "" {
		w.images = append(w.images, src)
	}
	if page := attr(n, w.opts.PageAttribute); page != "" && w.page == "" {
		w.page = page
	}
	if n.Data == "br" {
		buf.WriteString(textutil.LineBreak)
		return
	}
	keep := inlineTags[n.Data]
	if keep {
		buf.WriteString("<" + n.Data + ">")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.inline(c, buf)
	}
	if keep {
		buf.WriteString("</" + n.Data + ">")
	}
}

// document attaches trailing images to the last element and indexes IDs.
// The first element wins when an ID repeats.
func (w *walker) document() *Document {
	if len(w.images) > 0 && len(w.elements) > 0 {
		last := &w.elements[len(w.elements)-1]
		last.Images = append(last.Images, w.images...)
	}
	doc := &Document{Elements: w.elements, index: make(map[string]int, len(w.elements))}
	for i, el := range w.elements {
		if _, seen := doc.index[el.ID]; !seen {
			doc.index[el.ID] = i
		}
	}
	return doc
}

func attr(n *html.Node, key string) string {
	if key == "" {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func collapseSpace(s string) string {
	parts := strings.Split(s, textutil.LineBreak)
	for i, part := range parts {
		parts[i] = strings.Join(strings.Fields(part), " ")
	}
	return strings.TrimSpace(strings.Join(parts, textutil.LineBreak))
}
