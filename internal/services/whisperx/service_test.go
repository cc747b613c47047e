package whisperx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestTranscribeRunsExtractThenWhisperX(t *testing.T) {
	workDir := t.TempDir()
	svc := NewService(Config{Model: "small"}, "/opt/ffmpeg")
	var calls []string
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		calls = append(calls, name)
		if name == UVXCommand {
			payload := `{"segments":[{"text":"Hello world","start":0.5,"end":1.5,"words":[{"word":"Hello","start":0.5,"end":0.9},{"word":"world"}]}]}`
			return os.WriteFile(filepath.Join(workDir, "0001.json"), []byte(payload), 0o644)
		}
		return nil
	})

	segments, err := svc.Transcribe(context.Background(), "/in/0001.mp3", workDir, "en-GB")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if !slices.Equal(calls, []string{"/opt/ffmpeg", UVXCommand}) {
		t.Fatalf("calls = %v", calls)
	}
	words := Words(segments)
	if len(words) != 2 {
		t.Fatalf("words = %d", len(words))
	}
	if words[0].Start == nil || *words[0].Start != 0.5 {
		t.Fatalf("first word start = %v", words[0].Start)
	}
	if words[1].Start != nil {
		t.Fatalf("second word should be untimed")
	}
}

func TestTranscribeReportsExtractFailure(t *testing.T) {
	svc := NewService(Config{}, "")
	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("boom")
	})
	_, err := svc.Transcribe(context.Background(), "a.mp3", t.TempDir(), "")
	if err == nil || !strings.Contains(err.Error(), "ffmpeg extract") {
		t.Fatalf("err = %v", err)
	}
}

func TestBuildArgs(t *testing.T) {
	svc := NewService(Config{VADMethod: VADMethodPyannote, HFToken: "tok"}, "")
	args := strings.Join(svc.buildArgs("a.wav", "/out", "fr-CA"), " ")
	for _, want := range []string{
		"--index-url " + PypiIndexURL,
		"whisperx a.wav --model " + DefaultModel,
		"--output_format json",
		"--vad_method pyannote --hf_token tok",
		"--language fr",
		"--device cpu --compute_type float32",
	} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}

	cuda := NewService(Config{CUDAEnabled: true}, "")
	args = strings.Join(cuda.buildArgs("a.wav", "/out", ""), " ")
	if !strings.Contains(args, "--device cuda") || strings.Contains(args, "--language") {
		t.Errorf("cuda args = %q", args)
	}
}

func TestWordsFallsBackToSegmentText(t *testing.T) {
	words := Words([]Segment{{Text: "one two", Start: 3}})
	if len(words) != 2 || words[0].Start == nil || *words[0].Start != 3 || words[1].Start != nil {
		t.Fatalf("words = %+v", words)
	}
}
