package extract

import (
	"encoding/json"
	"fmt"

	"anemone/internal/services"
	"anemone/internal/textutil"
	"anemone/internal/timecode"
	"anemone/internal/timeline"
)

// Segment is one utterance of a JSON transcript.
type Segment struct {
	Start   float64
	End     float64
	Body    string
	Speaker string
}

type rawSegment struct {
	StartTime json.RawMessage `json:"startTime"`
	EndTime   json.RawMessage `json:"endTime"`
	Body      string          `json:"body"`
	Speaker   string          `json:"speaker"`
}

// ParseTranscript decodes {"segments":[{"startTime","endTime","body"}]}.
// Times may be seconds or timestamp strings.
func ParseTranscript(data []byte) ([]Segment, error) {
	var doc struct {
		Segments []rawSegment `json:"segments"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, services.Wrap(services.ErrInput, "extract", "parse transcript", "malformed transcript JSON", err)
	}
	segments := make([]Segment, 0, len(doc.Segments))
	for i, raw := range doc.Segments {
		start, err := segmentTime(raw.StartTime)
		if err != nil {
			return nil, services.Wrap(services.ErrInput, "extract", "parse transcript",
				fmt.Sprintf("segment %d startTime", i+1), err)
		}
		end, err := segmentTime(raw.EndTime)
		if err != nil {
			end = start
		}
		segments = append(segments, Segment{Start: start, End: end, Body: raw.Body, Speaker: raw.Speaker})
	}
	return segments, nil
}

func segmentTime(raw json.RawMessage) (float64, error) {
	text, err := scalar(raw)
	if err != nil {
		return 0, err
	}
	return timecode.Parse(text)
}

// TranscriptTimeline makes one paragraph per segment, starting when the
// segment starts.
func TranscriptTimeline(segments []Segment) *timeline.Timeline {
	tl := timeline.New(true)
	for _, seg := range segments {
		tl.Append(timeline.KindParagraph, textutil.EscapeText(seg.Body), seg.Start)
	}
	return tl
}
