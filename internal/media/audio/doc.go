// Package audio describes the audio profile a talking book is packaged in
// and decides whether a probed recording already matches it.
//
// Key types:
//   - Profile: target codec, bitrate ceiling, channel count and sample rate
//
// Primary entry point:
//   - Profile.Check: compares ffprobe output against the profile
package audio
