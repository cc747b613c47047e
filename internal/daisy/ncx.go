package daisy

import (
	"fmt"
	"sort"
	"strings"

	"anemone/internal/timecode"
	"anemone/internal/toc"
)

type target struct {
	section int
	k       int
}

// playOrders numbers distinct targets in reading order. Items pointing at
// the same par share a play order.
func playOrders(items []navItem) map[target]int {
	var targets []target
	seen := make(map[target]bool)
	for _, item := range items {
		t := target{item.sec.number, item.k}
		if !seen[t] {
			seen[t] = true
			targets = append(targets, t)
		}
	}
	sort.Slice(targets, func(i, j int) bool {
		if targets[i].section != targets[j].section {
			return targets[i].section < targets[j].section
		}
		return targets[i].k < targets[j].k
	})
	orders := make(map[target]int, len(targets))
	for i, t := range targets {
		orders[t] = i + 1
	}
	return orders
}

func navLabel(item navItem, label string) string {
	if !item.sec.audio {
		return fmt.Sprintf("<navLabel><text>%s</text></navLabel>", label)
	}
	pr := item.par()
	return fmt.Sprintf("<navLabel><text>%s</text><audio src=\"%s\" clipBegin=\"%s\" clipEnd=\"%s\"/></navLabel>",
		label, AudioName(item.sec.number), timecode.Format(pr.begin), timecode.Format(pr.end))
}

func navContent(item navItem) string {
	return fmt.Sprintf("<content src=\"%s#pr%d.%d\"/>", SMILName(item.sec.number), item.sec.number, item.k)
}

// ncx renders the DAISY 3 navigation file: headings nest in the navMap,
// pages go in the pageList and verses in a separate navList.
func (p *Package) ncx() []byte {
	meta := p.opts.Meta
	items := p.navItems()
	orders := playOrders(items)
	pages := p.pageCounts()

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE ncx PUBLIC "-//NISO//DTD ncx 2005-1//EN" "http://www.daisy.org/z3986/2005/ncx-2005-1.dtd">
`)
	fmt.Fprintf(&b, "<ncx xmlns=\"http://www.daisy.org/z3986/2005/ncx/\" version=\"2005-1\" xml:lang=\"%s\">\n", attr(p.lang()))
	b.WriteString("  <head>\n")
	fmt.Fprintf(&b, "    <meta name=\"dtb:uid\" content=\"%s\" />\n", attr(meta.UID))
	fmt.Fprintf(&b, "    <meta name=\"dtb:depth\" content=\"%d\" />\n", max(toc.MaxDepth(p.opts.Entries), 1))
	fmt.Fprintf(&b, "    <meta name=\"dtb:generator\" content=\"%s\" />\n", attr(Generator))
	fmt.Fprintf(&b, "    <meta name=\"dtb:totalPageCount\" content=\"%d\" />\n", pages.front+pages.normal+pages.special)
	fmt.Fprintf(&b, "    <meta name=\"dtb:maxPageNumber\" content=\"%d\" />\n", pages.maxNormal)
	b.WriteString("  </head>\n")
	fmt.Fprintf(&b, "  <docTitle><text>%s</text></docTitle>\n", text(meta.Title))
	if meta.Creator != "" {
		fmt.Fprintf(&b, "  <docAuthor><text>%s</text></docAuthor>\n", text(meta.Creator))
	}

	b.WriteString("  <navMap id=\"navMap\">\n")
	var stack []int
	n := 0
	for _, item := range items {
		if item.page != "" || item.verse {
			continue
		}
		for len(stack) > 0 && stack[len(stack)-1] >= item.level {
			stack = stack[:len(stack)-1]
			fmt.Fprintf(&b, "%s</navPoint>\n", indent(len(stack)))
		}
		n++
		pad := indent(len(stack))
		fmt.Fprintf(&b, "%s<navPoint id=\"nav%d\" class=\"h%d\" playOrder=\"%d\">\n", pad, n, item.level, orders[target{item.sec.number, item.k}])
		fmt.Fprintf(&b, "%s  %s\n", pad, navLabel(item, labelText(item.label)))
		fmt.Fprintf(&b, "%s  %s\n", pad, navContent(item))
		stack = append(stack, item.level)
	}
	for len(stack) > 0 {
		stack = stack[:len(stack)-1]
		fmt.Fprintf(&b, "%s</navPoint>\n", indent(len(stack)))
	}
	b.WriteString("  </navMap>\n")

	var pageList, verseList strings.Builder
	pageN, verseN := 0, 0
	for _, item := range items {
		order := orders[target{item.sec.number, item.k}]
		switch {
		case item.page != "":
			pageN++
			fmt.Fprintf(&pageList, "    <pageTarget id=\"page%d\" type=\"%s\" value=\"%s\" playOrder=\"%d\">\n",
				pageN, pageClass(item.page), attr(item.page), order)
			fmt.Fprintf(&pageList, "      %s\n      %s\n    </pageTarget>\n", navLabel(item, text(item.page)), navContent(item))
		case item.verse:
			verseN++
			fmt.Fprintf(&verseList, "    <navTarget id=\"verse%d\" playOrder=\"%d\">\n", verseN, order)
			fmt.Fprintf(&verseList, "      %s\n      %s\n    </navTarget>\n", navLabel(item, labelText(item.label)), navContent(item))
		}
	}
	if pageN > 0 {
		b.WriteString("  <pageList id=\"pageList\">\n")
		b.WriteString(pageList.String())
		b.WriteString("  </pageList>\n")
	}
	if verseN > 0 {
		b.WriteString("  <navList id=\"verses\" class=\"verse\">\n")
		b.WriteString("    <navLabel><text>Verses</text></navLabel>\n")
		b.WriteString(verseList.String())
		b.WriteString("  </navList>\n")
	}
	b.WriteString("</ncx>\n")
	return []byte(b.String())
}

func indent(depth int) string {
	return strings.Repeat("  ", depth+2)
}
