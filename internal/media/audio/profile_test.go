package audio

import (
	"testing"

	"anemone/internal/media/ffprobe"
)

func probe(codec string, channels int, bitrate string) ffprobe.Result {
	return ffprobe.Result{Streams: []ffprobe.Stream{{CodecType: "audio", CodecName: codec, Channels: channels, BitRate: bitrate}}}
}

func TestProfileCheck(t *testing.T) {
	profile := Profile{BitrateKbps: 64, Channels: 1, SampleRate: 44100}
	tests := []struct {
		name  string
		probe ffprobe.Result
		want  bool
	}{
		{"in profile", probe("mp3", 1, "64000"), true},
		{"lower bitrate", probe("mp3", 1, "32000"), true},
		{"slight overshoot", probe("mp3", 1, "64500"), true},
		{"stereo", probe("mp3", 2, "64000"), false},
		{"high bitrate", probe("mp3", 1, "128000"), false},
		{"wav", probe("pcm_s16le", 1, "705600"), false},
		{"no audio", ffprobe.Result{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := profile.Matches(tt.probe); got != tt.want {
				t.Fatalf("Matches() = %v, want %v (%v)", got, tt.want, profile.Check(tt.probe))
			}
		})
	}
}

func TestProfileString(t *testing.T) {
	if got := (Profile{BitrateKbps: 64, Channels: 1, SampleRate: 44100}).String(); got != "mp3 64k 1ch 44100Hz" {
		t.Fatalf("String() = %q", got)
	}
}
