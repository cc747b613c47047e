package daisy

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"anemone/internal/timecode"
)

type opfPackage struct {
	XMLName          xml.Name     `xml:"package"`
	Xmlns            string       `xml:"xmlns,attr"`
	UniqueIdentifier string       `xml:"unique-identifier,attr"`
	Metadata         opfMetadata  `xml:"metadata"`
	Manifest         []opfItem    `xml:"manifest>item"`
	Spine            []opfItemRef `xml:"spine>itemref"`
}

type opfMetadata struct {
	DC dcMetadata `xml:"dc-metadata"`
	X  []opfMeta  `xml:"x-metadata>meta"`
}

type dcMetadata struct {
	XmlnsDC    string       `xml:"xmlns:dc,attr"`
	XmlnsOEB   string       `xml:"xmlns:oebpackage,attr"`
	Format     string       `xml:"dc:Format"`
	Language   string       `xml:"dc:Language"`
	Date       string       `xml:"dc:Date"`
	Publisher  string       `xml:"dc:Publisher,omitempty"`
	Title      string       `xml:"dc:Title"`
	Identifier dcIdentifier `xml:"dc:Identifier"`
	Creator    string       `xml:"dc:Creator,omitempty"`
	Type       string       `xml:"dc:Type"`
}

type dcIdentifier struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

type opfMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type opfItem struct {
	Href      string `xml:"href,attr"`
	ID        string `xml:"id,attr"`
	MediaType string `xml:"media-type,attr"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

const opfDoctype = `<!DOCTYPE package PUBLIC "+//ISBN 0-9673008-1-9//DTD OEB 1.2 Package//EN" "http://openebook.org/dtds/oeb-1.2/oebpkg12.dtd">` + "\n"

// packageOPF renders the DAISY 3 package file.
func (p *Package) packageOPF() ([]byte, error) {
	meta := p.opts.Meta
	content := []string{"text"}
	if p.hasAudio() {
		content = append([]string{"audio"}, content...)
	}
	if len(p.images) > 0 {
		content = append(content, "image")
	}
	pkg := opfPackage{
		Xmlns:            "http://openebook.org/namespaces/oeb-package/1.0/",
		UniqueIdentifier: "uid",
		Metadata: opfMetadata{
			DC: dcMetadata{
				XmlnsDC:    "http://purl.org/dc/elements/1.1/",
				XmlnsOEB:   "http://openebook.org/namespaces/oeb-package/1.0/",
				Format:     "ANSI/NISO Z39.86-2005",
				Language:   p.lang(),
				Date:       meta.Date,
				Publisher:  meta.Publisher,
				Title:      meta.Title,
				Identifier: dcIdentifier{ID: "uid", Value: meta.UID},
				Creator:    meta.Creator,
				Type:       "text",
			},
			X: []opfMeta{
				{Name: "dtb:multimediaType", Content: p.multimediaType()},
				{Name: "dtb:totalTime", Content: timecode.Format(p.elapsed)},
				{Name: "dtb:multimediaContent", Content: strings.Join(content, ",")},
				{Name: "dtb:producedDate", Content: meta.Date},
			},
		},
	}
	if meta.Narrator != "" {
		pkg.Metadata.X = append(pkg.Metadata.X, opfMeta{Name: "dtb:narrator", Content: meta.Narrator})
	}

	pkg.Manifest = append(pkg.Manifest, opfItem{Href: "package.opf", ID: "opf", MediaType: "text/xml"})
	for _, l := range p.sections {
		n := strconv.Itoa(l.number)
		if l.audio {
			pkg.Manifest = append(pkg.Manifest, opfItem{Href: AudioName(l.number), ID: "aud" + n, MediaType: "audio/mpeg"})
		}
		pkg.Manifest = append(pkg.Manifest,
			opfItem{Href: SMILName(l.number), ID: "smil" + n, MediaType: "application/smil"},
			opfItem{Href: ContentName(Version3, l.number), ID: "txt" + n, MediaType: "application/x-dtbook+xml"},
		)
		pkg.Spine = append(pkg.Spine, opfItemRef{IDRef: "smil" + n})
	}
	for i, img := range p.images {
		pkg.Manifest = append(pkg.Manifest, opfItem{Href: img.Name, ID: fmt.Sprintf("img%d", i+1), MediaType: img.MediaType})
	}
	pkg.Manifest = append(pkg.Manifest, opfItem{Href: "navigation.ncx", ID: "ncx", MediaType: "application/x-dtbncx+xml"})

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(opfDoctype)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(pkg); err != nil {
		return nil, fmt.Errorf("encode package.opf: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

type bookInfo struct {
	XMLName xml.Name   `xml:"book_info"`
	Smils   []smilInfo `xml:"smil_info>smil"`
}

type smilInfo struct {
	Nr   int    `xml:"nr,attr"`
	Name string `xml:"Name,attr"`
	Dur  string `xml:"dur,attr"`
}

// bookInfo renders er_book_info.xml, which EasyReader uses to show section
// lengths before loading each SMIL file.
func (p *Package) bookInfo() ([]byte, error) {
	info := bookInfo{}
	for i, l := range p.sections {
		info.Smils = append(info.Smils, smilInfo{
			Nr:   i,
			Name: SMILName(l.number),
			Dur:  strconv.FormatFloat(l.duration, 'f', 6, 64),
		})
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "    ")
	if err := enc.Encode(info); err != nil {
		return nil, fmt.Errorf("encode er_book_info.xml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
