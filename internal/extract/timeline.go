package extract

import (
	"fmt"

	"anemone/internal/timecode"
	"anemone/internal/timeline"
)

// Built is a section timeline with its page markers.
type Built struct {
	Timeline *timeline.Timeline
	Pages    []timeline.PageMarker
}

// BuildTimeline lays out doc's elements in marker order with the marker
// times. The first marker's time is ignored since the first fragment
// always starts at zero. A marker without a matching element, or with an
// unparsable time, yields a blank fragment and a warning; warn returning
// an error aborts.
//
// An empty marker list stands in for one zero-duration marker per element,
// so the section still has structure but reconciles into one block.
func BuildTimeline(doc *Document, markers []Marker, markerAttribute string, warn func(string) error) (Built, error) {
	if len(markers) == 0 {
		for _, el := range doc.Elements {
			markers = append(markers, Marker{ID: el.ID, Time: "0"})
		}
	}
	if warn == nil {
		warn = func(string) error { return nil }
	}
	tl := timeline.New(true)
	var built Built
	previous := 0.0
	for i, marker := range markers {
		start := previous
		blank := false
		if i > 0 {
			parsed, err := timecode.Parse(marker.Time)
			if err != nil {
				if werr := warn(fmt.Sprintf("Marker %s has unparsable time %q", marker.ID, marker.Time)); werr != nil {
					return Built{}, werr
				}
				blank = true
			} else {
				start = parsed
				previous = start
			}
		}
		el, ok := doc.Lookup(marker.ID)
		if !ok && !blank {
			if werr := warn(fmt.Sprintf("Could not find %s=%q in the HTML", markerAttribute, marker.ID)); werr != nil {
				return Built{}, werr
			}
			blank = true
		}
		if blank {
			tl.Append(timeline.KindParagraph, "", start)
			continue
		}
		appendElement(tl, &built, el, start)
	}
	built.Timeline = tl
	return built, nil
}

// UntimedTimeline lays out every element in document order without times,
// for text-only books and for sections awaiting speech alignment.
func UntimedTimeline(doc *Document, timed bool) Built {
	tl := timeline.New(timed)
	var built Built
	for _, el := range doc.Elements {
		appendElement(tl, &built, el, 0)
	}
	built.Timeline = tl
	return built
}

func appendElement(tl *timeline.Timeline, built *Built, el Element, start float64) {
	id := tl.Append(el.Kind, el.Text, start)
	if len(el.Images) > 0 {
		tl.AddImages(tl.Len()-1, el.Images...)
	}
	if el.Page != "" {
		built.Pages = append(built.Pages, timeline.PageMarker{Fragment: id, Page: el.Page})
	}
}
