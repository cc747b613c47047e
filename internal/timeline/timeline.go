package timeline

import (
	"errors"
	"fmt"

	"anemone/internal/textutil"
)

// ErrUnknownFragment is returned when an ID does not resolve to a live fragment.
var ErrUnknownFragment = errors.New("unknown fragment")

// Timeline holds fragments in document order with the start time of each.
// The first fragment always starts at zero and the last ends at Duration.
type Timeline struct {
	frags    []Fragment
	starts   []float64
	duration float64
	timed    bool
	next     FragmentID
	alias    map[FragmentID]FragmentID
}

// New returns an empty timeline. Untimed timelines carry text only and are
// used for books without audio.
func New(timed bool) *Timeline {
	return &Timeline{timed: timed, next: 1, alias: make(map[FragmentID]FragmentID)}
}

// Timed reports whether the timeline carries audio timestamps.
func (t *Timeline) Timed() bool { return t.timed }

// Len returns the number of live fragments.
func (t *Timeline) Len() int { return len(t.frags) }

// Duration returns the section's audio length.
func (t *Timeline) Duration() float64 { return t.duration }

// SetDuration records the section's audio length, which closes the last fragment.
func (t *Timeline) SetDuration(seconds float64) { t.duration = seconds }

// Append adds a fragment starting at start. The start of the first fragment
// is always zero regardless of the value given.
func (t *Timeline) Append(kind Kind, text string, start float64) FragmentID {
	return t.InsertAt(len(t.frags), kind, text, start)
}

// InsertAt inserts a fragment at position i and returns its ID.
func (t *Timeline) InsertAt(i int, kind Kind, text string, start float64) FragmentID {
	if i < 0 {
		i = 0
	}
	if i > len(t.frags) {
		i = len(t.frags)
	}
	id := t.next
	t.next++
	frag := Fragment{ID: id, Kind: kind, Text: text}
	t.frags = append(t.frags, Fragment{})
	copy(t.frags[i+1:], t.frags[i:])
	t.frags[i] = frag
	t.starts = append(t.starts, 0)
	copy(t.starts[i+1:], t.starts[i:])
	t.starts[i] = start
	t.starts[0] = 0
	return id
}

// At returns the fragment at position i.
func (t *Timeline) At(i int) Fragment {
	return t.frags[i]
}

// Fragments returns a copy of the live fragments in order.
func (t *Timeline) Fragments() []Fragment {
	out := make([]Fragment, len(t.frags))
	copy(out, t.frags)
	return out
}

// Start returns the start time of fragment i.
func (t *Timeline) Start(i int) float64 {
	if i <= 0 {
		return 0
	}
	return t.starts[i]
}

// End returns the end time of fragment i: the next fragment's start, or the
// section duration for the last fragment.
func (t *Timeline) End(i int) float64 {
	if i+1 < len(t.frags) {
		return t.starts[i+1]
	}
	return t.duration
}

// SetStart moves the timestamp that opens fragment i. Position zero is fixed.
func (t *Timeline) SetStart(i int, start float64) {
	if i <= 0 || i >= len(t.frags) {
		return
	}
	t.starts[i] = start
}

// SetText replaces the text of fragment i.
func (t *Timeline) SetText(i int, text string) {
	t.frags[i].Text = text
}

// SetKind replaces the kind of fragment i.
func (t *Timeline) SetKind(i int, kind Kind) {
	t.frags[i].Kind = kind
}

// AddImages attaches images displayed before fragment i.
func (t *Timeline) AddImages(i int, images ...string) {
	t.frags[i].Images = append(t.frags[i].Images, images...)
}

// SetImages replaces the images attached to fragment i.
func (t *Timeline) SetImages(i int, images []string) {
	t.frags[i].Images = images
}

// Resolve follows merge and removal aliases to the live fragment ID.
func (t *Timeline) Resolve(id FragmentID) FragmentID {
	for {
		target, ok := t.alias[id]
		if !ok {
			return id
		}
		id = target
	}
}

// Index returns the current position of the fragment identified by id.
func (t *Timeline) Index(id FragmentID) (int, bool) {
	id = t.Resolve(id)
	for i := range t.frags {
		if t.frags[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// MergeNext folds fragment i+1 into fragment i. Span text is joined with a
// space, everything else with a line break. The timestamp between the two
// is dropped and references to the absorbed fragment now resolve to i.
func (t *Timeline) MergeNext(i int) error {
	if i < 0 || i+1 >= len(t.frags) {
		return fmt.Errorf("merge fragment %d: %w", i, ErrUnknownFragment)
	}
	keep, drop := t.frags[i], t.frags[i+1]
	join := textutil.LineBreak
	if keep.Kind == KindSpan {
		join = " "
	}
	switch {
	case keep.Text == "":
		keep.Text = drop.Text
	case drop.Text != "":
		keep.Text = keep.Text + join + drop.Text
	}
	keep.Images = append(keep.Images, drop.Images...)
	t.frags[i] = keep
	t.alias[drop.ID] = keep.ID
	t.removeAt(i + 1)
	return nil
}

// Remove splices fragment i out of the timeline. References to it resolve
// to the fragment that now occupies position i (or the new last fragment),
// which also inherits the removed fragment's start time.
func (t *Timeline) Remove(i int) error {
	if i < 0 || i >= len(t.frags) || len(t.frags) < 2 {
		return fmt.Errorf("remove fragment %d: %w", i, ErrUnknownFragment)
	}
	removed := t.frags[i]
	successor := i + 1
	if successor >= len(t.frags) {
		successor = i - 1
	} else {
		t.starts[successor] = t.starts[i]
	}
	t.alias[removed.ID] = t.frags[successor].ID
	if len(removed.Images) > 0 {
		t.frags[successor].Images = append(append([]string(nil), removed.Images...), t.frags[successor].Images...)
	}
	t.removeAt(i)
	return nil
}

func (t *Timeline) removeAt(i int) {
	t.frags = append(t.frags[:i], t.frags[i+1:]...)
	t.starts = append(t.starts[:i], t.starts[i+1:]...)
	if len(t.starts) > 0 {
		t.starts[0] = 0
	}
}

// FirstContent returns the position of the first fragment with visible text
// or images, or -1 when every fragment is blank.
func (t *Timeline) FirstContent() int {
	for i, frag := range t.frags {
		if len(frag.Images) > 0 || textutil.PlainText(frag.Text) != "" {
			return i
		}
	}
	return -1
}

// Monotonic reports whether start times never decrease.
func (t *Timeline) Monotonic() bool {
	for i := 1; i < len(t.starts); i++ {
		if t.starts[i] < t.starts[i-1] {
			return false
		}
	}
	return true
}
