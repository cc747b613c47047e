package transcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"anemone/internal/media/audio"
	"anemone/internal/media/ffprobe"
	"anemone/internal/services"
)

func TestPoolBoundsConcurrency(t *testing.T) {
	pool := NewPool(2)
	var running, peak int32
	var futures []*Future
	for i := 0; i < 8; i++ {
		futures = append(futures, pool.Submit(context.Background(), func(ctx context.Context) (string, error) {
			now := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if now <= old || atomic.CompareAndSwapInt32(&peak, old, now) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return "ok", nil
		}))
	}
	for _, f := range futures {
		path, err := f.Wait(context.Background())
		require.NoError(t, err)
		require.Equal(t, "ok", path)
	}
	require.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestPoolDefaultsToCPUCount(t *testing.T) {
	require.Positive(t, NewPool(0).Size())
}

func TestPoolSkipsJobsAfterCancel(t *testing.T) {
	pool := NewPool(1)
	release := make(chan struct{})
	started := make(chan struct{})
	blocker := pool.Submit(context.Background(), func(ctx context.Context) (string, error) {
		close(started)
		<-release
		return "first", nil
	})
	<-started
	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Bool
	queued := pool.Submit(ctx, func(ctx context.Context) (string, error) {
		ran.Store(true)
		return "second", nil
	})
	cancel()
	close(release)
	_, err := queued.Wait(context.Background())
	require.ErrorIs(t, err, context.Canceled)
	_, err = blocker.Wait(context.Background())
	require.NoError(t, err)
	pool.Wait()
	require.False(t, ran.Load())
}

func TestConfigureSharedResizesWithoutReplacing(t *testing.T) {
	first := ConfigureShared(3)
	require.Equal(t, 3, first.Size())
	second := ConfigureShared(5)
	require.Same(t, first, second)
	require.Same(t, first, Shared())
	require.Equal(t, 5, Shared().Size())
}

type fakeProber struct {
	results map[string]ffprobe.Result
}

func (f fakeProber) Inspect(_ context.Context, path string) (ffprobe.Result, error) {
	result, ok := f.results[path]
	if !ok {
		return ffprobe.Result{}, fmt.Errorf("no such file %s", path)
	}
	return result, nil
}

type fakeEncoder struct {
	mu     sync.Mutex
	calls  []string
	delays map[string]time.Duration
	fail   string
}

func (f *fakeEncoder) Encode(ctx context.Context, input, output string, _ audio.Profile) error {
	f.mu.Lock()
	f.calls = append(f.calls, input)
	delay := f.delays[input]
	f.mu.Unlock()
	time.Sleep(delay)
	if input == f.fail {
		return errors.New("encoder exploded")
	}
	return os.WriteFile(output, []byte("mp3:"+input), 0o644)
}

func stream(codec string, channels int, bitrate string) ffprobe.Result {
	return ffprobe.Result{Streams: []ffprobe.Stream{{CodecType: "audio", CodecName: codec, Channels: channels, BitRate: bitrate}}}
}

var testProfile = audio.Profile{BitrateKbps: 64, Channels: 1, SampleRate: 44100}

func TestSchedulerShortCircuitsInProfileAudio(t *testing.T) {
	prober := fakeProber{results: map[string]ffprobe.Result{"good.mp3": stream("mp3", 1, "64000")}}
	enc := &fakeEncoder{}
	s := NewScheduler(context.Background(), NewPool(1), enc, prober, testProfile, t.TempDir(), nil)

	f, err := s.Submit(1, "good.mp3")
	require.NoError(t, err)
	path, err := f.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, "good.mp3", path)
	require.Empty(t, enc.calls)
	require.NoError(t, s.Close())
}

func TestSchedulerResultsFollowSectionOrder(t *testing.T) {
	prober := fakeProber{results: map[string]ffprobe.Result{
		"a.wav": stream("pcm_s16le", 1, ""),
		"b.wav": stream("pcm_s16le", 2, ""),
		"c.mp3": stream("mp3", 2, "128000"),
	}}
	enc := &fakeEncoder{delays: map[string]time.Duration{"a.wav": 30 * time.Millisecond}}
	work := filepath.Join(t.TempDir(), "work")
	s := NewScheduler(context.Background(), NewPool(3), enc, prober, testProfile, work, nil)

	var futures []*Future
	for i, src := range []string{"a.wav", "b.wav", "c.mp3"} {
		f, err := s.Submit(i+1, src)
		require.NoError(t, err)
		futures = append(futures, f)
	}
	for i, f := range futures {
		path, err := f.Wait(context.Background())
		require.NoError(t, err)
		require.Equal(t, filepath.Join(work, fmt.Sprintf("%04d.mp3", i+1)), path)
	}
	require.NoError(t, s.Close())
	_, err := os.Stat(work)
	require.True(t, os.IsNotExist(err))
}

func TestSchedulerEncodeFailureIsTranscodeError(t *testing.T) {
	prober := fakeProber{results: map[string]ffprobe.Result{"bad.wav": stream("pcm_s16le", 1, "")}}
	enc := &fakeEncoder{fail: "bad.wav"}
	s := NewScheduler(context.Background(), NewPool(1), enc, prober, testProfile, t.TempDir(), nil)

	f, err := s.Submit(1, "bad.wav")
	require.NoError(t, err)
	_, err = f.Wait(context.Background())
	require.ErrorIs(t, err, services.ErrTranscode)
	s.Abandon()
}

func TestSchedulerProbeFailure(t *testing.T) {
	s := NewScheduler(context.Background(), NewPool(1), &fakeEncoder{}, fakeProber{}, testProfile, t.TempDir(), nil)
	_, err := s.Submit(1, "missing.wav")
	require.ErrorIs(t, err, services.ErrTranscode)
}

func TestFFmpegArgs(t *testing.T) {
	var captured []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		captured = append([]string{name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE=success")
		return cmd
	}
	t.Cleanup(func() { commandContext = original })

	err := NewFFmpeg(WithBinary("/opt/ffmpeg")).Encode(context.Background(), "in.wav", "out.mp3", testProfile)
	require.NoError(t, err)
	require.Equal(t, "/opt/ffmpeg", captured[0])
	require.Contains(t, captured, "libmp3lame")
	require.Contains(t, captured, "64k")
	require.Equal(t, "out.mp3", captured[len(captured)-1])
}

func TestFFmpegFailure(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE=failure")
		return cmd
	}
	t.Cleanup(func() { commandContext = original })

	err := NewFFmpeg().Encode(context.Background(), "in.wav", "out.mp3", testProfile)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported input")
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("FFMPEG_HELPER_MODE") {
	case "failure":
		fmt.Fprintln(os.Stderr, "unsupported input")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}
