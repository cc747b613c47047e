package ffprobe

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio", CodecName: "mp3", BitRate: "64000", SampleRate: "44100", Channels: 1},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
			BitRate:  "72000",
		},
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	stream, ok := result.AudioStream()
	if !ok || stream.CodecName != "mp3" {
		t.Fatalf("unexpected audio stream: %+v", stream)
	}
	if stream.SampleRateHz() != 44100 {
		t.Fatalf("unexpected sample rate: %d", stream.SampleRateHz())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.BitRate() != 64000 {
		t.Fatalf("expected stream bitrate, got %d", result.BitRate())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
}

func TestDurationFallsBackToStream(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio", Duration: "3.000000"}}}
	if result.DurationSeconds() != 3 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestInspectParsesOutput(t *testing.T) {
	setHelperCommand(t, "success")
	result, err := Inspector{Binary: "ffprobe"}.Inspect(context.Background(), "/tmp/test.wav")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	stream, ok := result.AudioStream()
	if !ok || stream.CodecName != "pcm_s16le" || stream.Channels != 1 {
		t.Fatalf("unexpected stream: %+v", stream)
	}
	if result.DurationSeconds() != 3 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestInspectReportsFailure(t *testing.T) {
	setHelperCommand(t, "failure")
	if _, err := Inspect(context.Background(), "", "/tmp/missing.wav"); err == nil {
		t.Fatal("expected error from failing ffprobe")
	}
}

func TestInspectRequiresPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func setHelperCommand(t *testing.T, mode string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("FFPROBE_HELPER_MODE=%s", mode))
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("FFPROBE_HELPER_MODE") {
	case "success":
		fmt.Println(`{"streams":[{"index":0,"codec_name":"pcm_s16le","codec_type":"audio","sample_rate":"48000","channels":1,"duration":"3.000000"}],"format":{"duration":"3.000000","size":"288078","format_name":"wav"}}`)
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "No such file or directory")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}
