package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"anemone/internal/services"
)

// Marker ties an element ID to the time its audio starts. Time is kept as
// text so a bad value can be reported against its marker.
type Marker struct {
	ID   string
	Time string
}

// JSONKind says what a JSON input holds.
type JSONKind int

const (
	JSONMarkers JSONKind = iota + 1
	JSONTranscript
)

// DetectJSON reports whether data is a marker list or a transcript.
func DetectJSON(data []byte) (JSONKind, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, services.Wrap(services.ErrInput, "extract", "detect json", "malformed JSON", err)
	}
	if _, ok := probe["markers"]; ok {
		return JSONMarkers, nil
	}
	if _, ok := probe["segments"]; ok {
		return JSONTranscript, nil
	}
	return 0, services.Wrap(services.ErrInput, "extract", "detect json",
		"JSON has neither a 'markers' nor a 'segments' list", nil)
}

// ParseMarkers decodes {"markers":[{"id":..,"time":..}]}. The ID is taken
// from the first key ending in "id" (any case); the time from "time" or
// "startTime". Numbers and strings are both accepted.
func ParseMarkers(data []byte) ([]Marker, error) {
	var doc struct {
		Markers []map[string]json.RawMessage `json:"markers"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, services.Wrap(services.ErrInput, "extract", "parse markers", "malformed marker JSON", err)
	}
	markers := make([]Marker, 0, len(doc.Markers))
	for i, raw := range doc.Markers {
		idKey, ok := idKey(raw)
		if !ok {
			return nil, services.Wrap(services.ErrInput, "extract", "parse markers",
				fmt.Sprintf("marker %d has no id field", i+1), nil)
		}
		id, err := scalar(raw[idKey])
		if err != nil {
			return nil, services.Wrap(services.ErrInput, "extract", "parse markers",
				fmt.Sprintf("marker %d id", i+1), err)
		}
		marker := Marker{ID: id}
		for key, value := range raw {
			lower := strings.ToLower(key)
			if lower == "time" || lower == "starttime" {
				marker.Time, _ = scalar(value)
				break
			}
		}
		markers = append(markers, marker)
	}
	return markers, nil
}

func idKey(raw map[string]json.RawMessage) (string, bool) {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		if strings.HasSuffix(strings.ToLower(key), "id") {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return "", false
	}
	sort.Strings(keys)
	return keys[0], true
}

func scalar(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", fmt.Errorf("empty value")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", raw)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return "", err
	}
	return n.String(), nil
}
