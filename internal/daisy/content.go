package daisy

import (
	"fmt"
	"strings"

	"anemone/internal/timeline"
)

func (p *Package) content(l *sectionLayout) []byte {
	if p.opts.Version == Version3 {
		return p.dtbook(l)
	}
	return p.xhtml(l)
}

// xhtml renders a DAISY 2.02 content document.
func (p *Package) xhtml(l *sectionLayout) []byte {
	var b strings.Builder
	lang := attr(p.lang())
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
`)
	fmt.Fprintf(&b, "<html lang=\"%s\" xml:lang=\"%s\" xmlns=\"http://www.w3.org/1999/xhtml\">\n", lang, lang)
	b.WriteString("<head>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", text(p.opts.Meta.Title))
	b.WriteString("<meta content=\"text/html; charset=utf-8\" http-equiv=\"content-type\" />\n")
	fmt.Fprintf(&b, "<meta name=\"generator\" content=\"%s\" />\n", attr(Generator))
	b.WriteString("</head>\n<body>\n")
	inSpans := false
	for _, pr := range l.pars {
		if inSpans && (pr.kind != timeline.KindSpan || len(pr.pages) > 0 || len(pr.images) > 0) {
			b.WriteString("</p>\n")
			inSpans = false
		}
		for _, page := range pr.pages {
			fmt.Fprintf(&b, "<span class=\"page-%s\" id=\"page%s\">%s</span>\n", pageClass(page), attr(page), text(page))
		}
		for _, img := range pr.images {
			fmt.Fprintf(&b, "<p><img src=\"%s\" id=\"%s\" alt=\"\" /></p>\n", attr(img.src), img.id)
		}
		switch {
		case pr.kind == timeline.KindSpan:
			if !inSpans {
				b.WriteString("<p>")
				inSpans = true
			} else {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "<span class=\"sentence\" id=\"%s\">%s</span>", pr.textID, pr.text)
		default:
			tag := pr.kind.Tag()
			fmt.Fprintf(&b, "<%s id=\"%s\">%s</%s>\n", tag, pr.textID, pr.text, tag)
		}
	}
	if inSpans {
		b.WriteString("</p>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}

// dtbook renders a DAISY 3 content document. Headings open nested level
// elements; text before the first heading sits in a level1.
func (p *Package) dtbook(l *sectionLayout) []byte {
	var b strings.Builder
	meta := p.opts.Meta
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE dtbook PUBLIC "-//NISO//DTD dtbook 2005-3//EN" "http://www.daisy.org/z3986/2005/dtbook-2005-3.dtd">
`)
	fmt.Fprintf(&b, "<dtbook xmlns=\"http://www.daisy.org/z3986/2005/dtbook/\" version=\"2005-3\" xml:lang=\"%s\">\n", attr(p.lang()))
	b.WriteString("<head>\n")
	fmt.Fprintf(&b, "<meta name=\"dtb:uid\" content=\"%s\" />\n", attr(meta.UID))
	fmt.Fprintf(&b, "<meta name=\"dc:Title\" content=\"%s\" />\n", attr(meta.Title))
	if meta.Creator != "" {
		fmt.Fprintf(&b, "<meta name=\"dc:Creator\" content=\"%s\" />\n", attr(meta.Creator))
	}
	fmt.Fprintf(&b, "<meta name=\"dc:Date\" content=\"%s\" />\n", attr(meta.Date))
	if meta.Publisher != "" {
		fmt.Fprintf(&b, "<meta name=\"dc:Publisher\" content=\"%s\" />\n", attr(meta.Publisher))
	}
	fmt.Fprintf(&b, "<meta name=\"dc:Identifier\" content=\"%s\" />\n", attr(meta.UID))
	fmt.Fprintf(&b, "<meta name=\"dc:Language\" content=\"%s\" />\n", attr(p.lang()))
	b.WriteString("</head>\n<book>\n")
	fmt.Fprintf(&b, "<frontmatter><doctitle>%s</doctitle></frontmatter>\n", text(meta.Title))
	b.WriteString("<bodymatter>\n")

	depth := 0
	open := func(level int) {
		for depth >= level {
			fmt.Fprintf(&b, "</level%d>\n", depth)
			depth--
		}
		for depth < level {
			depth++
			fmt.Fprintf(&b, "<level%d>", depth)
		}
	}
	inSpans := false
	for _, pr := range l.pars {
		if inSpans && (pr.kind != timeline.KindSpan || len(pr.pages) > 0 || len(pr.images) > 0) {
			b.WriteString("</p>")
			inSpans = false
		}
		if pr.kind.IsHeading() {
			open(pr.kind.Level())
		} else if depth == 0 {
			open(1)
		}
		for _, page := range pr.pages {
			fmt.Fprintf(&b, "<pagenum id=\"page%s\" page=\"%s\">%s</pagenum>", attr(page), pageClass(page), text(page))
		}
		switch {
		case pr.kind.IsHeading():
			writeImages3(&b, pr.images)
			tag := pr.kind.Tag()
			fmt.Fprintf(&b, "<%s id=\"%s\">%s</%s>", tag, pr.textID, pr.text, tag)
		case pr.kind == timeline.KindSpan:
			writeImages3(&b, pr.images)
			if !inSpans {
				b.WriteString("<p>")
				inSpans = true
			} else {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "<sent id=\"%s\">%s</sent>", pr.textID, pr.text)
		default:
			writeImages3(&b, pr.images)
			fmt.Fprintf(&b, "<p id=\"%s\">%s</p>", pr.textID, pr.text)
		}
	}
	if inSpans {
		b.WriteString("</p>")
	}
	for depth > 0 {
		fmt.Fprintf(&b, "</level%d>", depth)
		depth--
	}
	b.WriteString("\n</bodymatter>\n</book>\n</dtbook>\n")
	return []byte(b.String())
}

func writeImages3(b *strings.Builder, imgs []imageRef) {
	for _, img := range imgs {
		fmt.Fprintf(b, "<p><imggroup><img src=\"%s\" id=\"%s\" /></imggroup></p>", attr(img.src), img.id)
	}
}
