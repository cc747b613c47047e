package daisy

import (
	"fmt"
	"strings"

	"anemone/internal/timecode"
)

func (p *Package) sectionSMIL(l *sectionLayout) []byte {
	if p.opts.Version == Version3 {
		return p.smil3(l)
	}
	return p.smil2(l)
}

func (p *Package) smil2(l *sectionLayout) []byte {
	var b strings.Builder
	title := attr(l.title())
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE smil PUBLIC "-//W3C//DTD SMIL 1.0//EN" "http://www.w3.org/TR/REC-smil/SMIL10.dtd">
<smil>
  <head>
`)
	fmt.Fprintf(&b, "    <meta name=\"ncc:generator\" content=\"%s\" />\n", attr(Generator))
	b.WriteString("    <meta name=\"dc:format\" content=\"Daisy 2.02\" />\n")
	fmt.Fprintf(&b, "    <meta name=\"dc:identifier\" content=\"%s\" />\n", attr(p.opts.Meta.UID))
	fmt.Fprintf(&b, "    <meta name=\"ncc:totalElapsedTime\" content=\"%s\" />\n", timecode.Format(l.elapsed))
	fmt.Fprintf(&b, "    <meta name=\"ncc:timeInThisSmil\" content=\"%s\" />\n", timecode.Format(l.duration))
	fmt.Fprintf(&b, "    <meta name=\"title\" content=\"%s\" />\n", title)
	fmt.Fprintf(&b, "    <meta name=\"dc:title\" content=\"%s\" />\n", title)
	b.WriteString(`    <layout>
      <region id="textView" />
    </layout>
  </head>
  <body>
`)
	fmt.Fprintf(&b, "    <seq id=\"sq%d\" dur=\"%ss\">\n", l.number, timecode.Seconds(l.duration))
	content := ContentName(Version2, l.number)
	for _, pr := range l.pars {
		fmt.Fprintf(&b, "      <par endsync=\"last\" id=\"pr%d.%d\">\n", l.number, pr.k)
		fmt.Fprintf(&b, "        <text id=\"t%d.%d\" src=\"%s#%s\" />\n", l.number, pr.k, content, pr.textID)
		if l.audio {
			fmt.Fprintf(&b, "        <seq id=\"sq%d.%da\">\n", l.number, pr.k)
			fmt.Fprintf(&b, "          <audio src=\"%s\" clip-begin=\"npt=%ss\" clip-end=\"npt=%ss\" id=\"aud%d.%d\" />\n",
				AudioName(l.number), timecode.Seconds(pr.begin), timecode.Seconds(pr.end), l.number, pr.k)
			b.WriteString("        </seq>\n")
		}
		b.WriteString("      </par>\n")
	}
	b.WriteString("    </seq>\n  </body>\n</smil>\n")
	return []byte(b.String())
}

func (p *Package) smil3(l *sectionLayout) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE smil PUBLIC "-//NISO//DTD dtbsmil 2005-2//EN" "http://www.daisy.org/z3986/2005/dtbsmil-2005-2.dtd">
<smil xmlns="http://www.w3.org/2001/SMIL20/">
  <head>
`)
	fmt.Fprintf(&b, "    <meta name=\"dtb:uid\" content=\"%s\" />\n", attr(p.opts.Meta.UID))
	fmt.Fprintf(&b, "    <meta name=\"dtb:totalElapsedTime\" content=\"%s\" />\n", timecode.Format(l.elapsed))
	fmt.Fprintf(&b, "    <meta name=\"dtb:generator\" content=\"%s\" />\n", attr(Generator))
	b.WriteString("  </head>\n  <body>\n")
	fmt.Fprintf(&b, "    <seq id=\"sq%d\" dur=\"%s\" fill=\"remove\">\n", l.number, timecode.Format(l.duration))
	content := ContentName(Version3, l.number)
	for _, pr := range l.pars {
		fmt.Fprintf(&b, "      <par id=\"pr%d.%d\">\n", l.number, pr.k)
		fmt.Fprintf(&b, "        <text id=\"t%d.%d\" src=\"%s#%s\" />\n", l.number, pr.k, content, pr.textID)
		if l.audio {
			fmt.Fprintf(&b, "        <audio src=\"%s\" clipBegin=\"%s\" clipEnd=\"%s\" id=\"aud%d.%d\" />\n",
				AudioName(l.number), timecode.Format(pr.begin), timecode.Format(pr.end), l.number, pr.k)
		}
		b.WriteString("      </par>\n")
	}
	b.WriteString("    </seq>\n  </body>\n</smil>\n")
	return []byte(b.String())
}

// masterSMIL lists every section's sync file (DAISY 2.02).
func (p *Package) masterSMIL() []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE smil PUBLIC "-//W3C//DTD SMIL 1.0//EN" "http://www.w3.org/TR/REC-smil/SMIL10.dtd">
<smil>
  <head>
`)
	fmt.Fprintf(&b, "    <meta name=\"dc:title\" content=\"%s\" />\n", attr(p.opts.Meta.Title))
	fmt.Fprintf(&b, "    <meta name=\"dc:identifier\" content=\"%s\" />\n", attr(p.opts.Meta.UID))
	fmt.Fprintf(&b, "    <meta name=\"ncc:generator\" content=\"%s\" />\n", attr(Generator))
	b.WriteString("    <meta name=\"dc:format\" content=\"Daisy 2.02\" />\n")
	fmt.Fprintf(&b, "    <meta name=\"ncc:timeInThisSmil\" content=\"%s\" />\n", timecode.Format(p.elapsed))
	b.WriteString(`    <layout>
      <region id="textView" />
    </layout>
  </head>
  <body>
`)
	for _, l := range p.sections {
		fmt.Fprintf(&b, "    <ref title=\"%s\" src=\"%s\" id=\"ms_%04d\" />\n", attr(l.title()), SMILName(l.number), l.number)
	}
	b.WriteString("  </body>\n</smil>\n")
	return []byte(b.String())
}
