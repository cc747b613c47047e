package textutil

import (
	"reflect"
	"testing"
)

func TestIntegerRunsIgnoresMarkup(t *testing.T) {
	got := IntegerRuns(`<span class="x2">Chapter 12</span> of 30`)
	want := []int{12, 30}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("IntegerRuns() = %v, want %v", got, want)
	}
}

func TestSingleInteger(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"47", 47, true},
		{"Chapter <em>3</em>", 3, true},
		{"no digits", 0, false},
		{"1 and 2", 0, false},
	}
	for _, tt := range tests {
		got, ok := SingleInteger(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("SingleInteger(%q) = %d,%v want %d,%v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLeadingInteger(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"47 one", 47, true},
		{"<b>2</b> two", 2, true},
		{"3. three", 3, true},
		{"12", 12, true},
		{"Testing 123", 0, false},
		{"3rd time", 0, false},
	}
	for _, tt := range tests {
		got, ok := LeadingInteger(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("LeadingInteger(%q) = %d,%v want %d,%v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestStripLeadingInteger(t *testing.T) {
	tests := map[string]string{
		"47 one":         "one",
		"<b>2 </b>two":   "<b></b>two",
		"3: three":       "three",
		"Testing 123":    "Testing 123",
		"  9\tnine  ":    "nine  ",
		"<em>unnumbered": "<em>unnumbered",
	}
	for in, want := range tests {
		if got := StripLeadingInteger(in); got != want {
			t.Errorf("StripLeadingInteger(%q) = %q want %q", in, got, want)
		}
	}
}

func TestPlainTextAndEscaping(t *testing.T) {
	if got := PlainText("a <em>b</em><br />c &amp; d"); got != "a b c & d" {
		t.Fatalf("PlainText = %q", got)
	}
	if got := EscapeAttr(`say "hi"`); got != "say &quot;hi&quot;" {
		t.Fatalf("EscapeAttr = %q", got)
	}
	if got := EscapeText("a<b & c"); got != "a&lt;b &amp; c" {
		t.Fatalf("EscapeText = %q", got)
	}
}

func TestDetectTokenMode(t *testing.T) {
	if mode := DetectTokenMode("The quick brown fox"); mode != TokenWords {
		t.Fatalf("latin text mode = %v", mode)
	}
	if mode := DetectTokenMode("天地玄黃\n宇宙洪荒"); mode != TokenChars {
		t.Fatalf("han text mode = %v", mode)
	}
	if mode := DetectTokenMode("ก ข ค ฆ ง จ ฉ"); mode != TokenFields {
		t.Fatalf("spaced uncased text mode = %v", mode)
	}
}

func TestAlignTokens(t *testing.T) {
	got := AlignTokens("Hello, <em>WORLD</em>! It's ＡＢＣ.", TokenWords)
	want := []string{"hello", "world", "it", "s", "abc"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AlignTokens words = %v want %v", got, want)
	}
	chars := AlignTokens("天地、玄黃", TokenChars)
	if !reflect.DeepEqual(chars, []string{"天", "地", "玄", "黃"}) {
		t.Fatalf("AlignTokens chars = %v", chars)
	}
}

func TestTitleFromFileName(t *testing.T) {
	tests := map[string]string{
		"/tmp/test.wav":      "test",
		"book_daisy.zip":     "book",
		`C:\audio\ch 1.mp3`: "ch 1",
	}
	for in, want := range tests {
		if got := TitleFromFileName(in); got != want {
			t.Errorf("TitleFromFileName(%q) = %q want %q", in, got, want)
		}
	}
}
