package daisy

import (
	"fmt"
	"strings"

	"anemone/internal/timecode"
)

// ncc renders the DAISY 2.02 navigation control centre. Verse entries
// become headings one level below their chapter, since 2.02 has no
// separate navigation lists.
func (p *Package) ncc() []byte {
	meta := p.opts.Meta
	items := p.navItems()
	pages := p.pageCounts()
	files := len(p.memberNames()) + 2 // ncc.html and master.smil

	var b strings.Builder
	lang := attr(p.lang())
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
`)
	fmt.Fprintf(&b, "<html lang=\"%s\" xml:lang=\"%s\" xmlns=\"http://www.w3.org/1999/xhtml\">\n", lang, lang)
	b.WriteString("  <head>\n")
	b.WriteString("    <meta content=\"text/html; charset=utf-8\" http-equiv=\"Content-type\" />\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", text(meta.Title))
	metas := [][2]string{
		{"dc:creator", meta.Creator},
		{"dc:date", meta.Date},
		{"dc:identifier", meta.UID},
		{"dc:language", p.lang()},
		{"dc:publisher", meta.Publisher},
		{"dc:title", meta.Title},
		{"ncc:narrator", meta.Narrator},
		{"ncc:producedDate", meta.Date},
		{"ncc:generator", Generator},
		{"dc:format", "Daisy 2.02"},
		{"ncc:charset", "utf-8"},
		{"ncc:pageFront", fmt.Sprint(pages.front)},
		{"ncc:maxPageNormal", fmt.Sprint(pages.maxNormal)},
		{"ncc:pageNormal", fmt.Sprint(pages.normal)},
		{"ncc:pageSpecial", fmt.Sprint(pages.special)},
		{"ncc:tocItems", fmt.Sprint(len(items))},
		{"ncc:totalTime", timecode.Format(p.elapsed)},
		{"ncc:multimediaType", p.multimediaType()},
		{"ncc:depth", fmt.Sprint(p.depth())},
		{"ncc:files", fmt.Sprint(files)},
	}
	for _, m := range metas {
		switch m[0] {
		case "dc:date", "ncc:producedDate":
			fmt.Fprintf(&b, "    <meta name=\"%s\" content=\"%s\" scheme=\"yyyy-mm-dd\" />\n", m[0], attr(m[1]))
		case "dc:language":
			fmt.Fprintf(&b, "    <meta name=\"%s\" content=\"%s\" scheme=\"ISO 639\" />\n", m[0], attr(m[1]))
		default:
			fmt.Fprintf(&b, "    <meta name=\"%s\" content=\"%s\" />\n", m[0], attr(m[1]))
		}
	}
	b.WriteString("  </head>\n  <body>\n")
	heading, page := 0, 0
	for _, item := range items {
		href := fmt.Sprintf("%s#t%d.%d", SMILName(item.sec.number), item.sec.number, item.k)
		if item.page != "" {
			page++
			fmt.Fprintf(&b, "    <span class=\"page-%s\" id=\"page%d\"><a href=\"%s\">%s</a></span>\n",
				pageClass(item.page), page, href, text(item.page))
			continue
		}
		heading++
		level := min(max(item.level, 1), 6)
		class := ""
		if level == 1 {
			class = " class=\"section\""
		}
		fmt.Fprintf(&b, "    <h%d%s id=\"s%d\"><a href=\"%s\">%s</a></h%d>\n",
			level, class, heading, href, labelText(item.label), level)
	}
	b.WriteString("  </body>\n</html>\n")
	return []byte(b.String())
}
