package audio

import (
	"fmt"
	"strings"

	"anemone/internal/media/ffprobe"
)

// Codec is the only codec packaged; DAISY readers universally play MP3.
const Codec = "mp3"

// bitrateSlack tolerates encoder overshoot when comparing bitrates.
const bitrateSlack = 1000

// Profile is the audio format every packaged recording must have.
type Profile struct {
	BitrateKbps int
	Channels    int
	SampleRate  int
}

// Check returns nil when probe describes audio already in profile, or an
// error naming the first mismatch. Lower bitrates and fewer channels than
// the target are accepted as-is; sample rate is not compared because MP3
// players handle every standard rate.
func (p Profile) Check(probe ffprobe.Result) error {
	stream, ok := probe.AudioStream()
	if !ok {
		return fmt.Errorf("no audio stream")
	}
	codec := strings.ToLower(strings.TrimSpace(stream.CodecName))
	if codec != Codec {
		return fmt.Errorf("codec %s is not %s", codec, Codec)
	}
	if p.Channels > 0 && stream.Channels > p.Channels {
		return fmt.Errorf("%d channels exceeds %d", stream.Channels, p.Channels)
	}
	if p.BitrateKbps > 0 {
		if rate := probe.BitRate(); rate > int64(p.BitrateKbps)*1000+bitrateSlack {
			return fmt.Errorf("bitrate %dk exceeds %dk", rate/1000, p.BitrateKbps)
		}
	}
	return nil
}

// Matches reports whether probe is already in profile.
func (p Profile) Matches(probe ffprobe.Result) bool {
	return p.Check(probe) == nil
}

// String renders the profile for logs.
func (p Profile) String() string {
	return fmt.Sprintf("%s %dk %dch %dHz", Codec, p.BitrateKbps, p.Channels, p.SampleRate)
}
