package timecode

import (
	"errors"
	"math"
	"testing"

	"anemone/internal/services"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1", 1},
		{"2.5", 2.5},
		{"01:30", 90},
		{"1:02:03.250", 3723.25},
		{" 0:00:00.001 ", 0.001},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tt.in, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseRejectsNonNumeric(t *testing.T) {
	for _, in := range []string{"", "1:xx", "abc", "1::2", "-3"} {
		_, err := Parse(in)
		if err == nil {
			t.Fatalf("Parse(%q) expected error", in)
		}
		if !errors.Is(err, services.ErrTimestamp) {
			t.Fatalf("Parse(%q) error %v is not ErrTimestamp", in, err)
		}
	}
}

func TestFormatTruncates(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00:00.000"},
		{2, "0:00:02.000"},
		{1.5, "0:00:01.500"},
		{0.0019, "0:00:00.001"},
		{3723.2509, "1:02:03.250"},
		{59.9999, "0:00:59.999"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, x := range []float64{0, 0.001, 0.5, 1.2345, 59.9999, 61.01, 3599.9995, 7322.123456} {
		back, err := Parse(Format(x))
		if err != nil {
			t.Fatalf("Parse(Format(%v)): %v", x, err)
		}
		if math.Abs(back-x) > 0.001 {
			t.Fatalf("round trip of %v gave %v", x, back)
		}
	}
}

func TestSeconds(t *testing.T) {
	if got := Seconds(3.0456); got != "3.045" {
		t.Fatalf("Seconds = %q", got)
	}
}
