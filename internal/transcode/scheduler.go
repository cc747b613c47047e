package transcode

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"anemone/internal/logging"
	"anemone/internal/media/audio"
	"anemone/internal/media/ffprobe"
	"anemone/internal/services"
)

// Prober inspects a recording.
type Prober interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
}

// Scheduler submits one build's recordings to a pool.
type Scheduler struct {
	pool    *Pool
	encoder Encoder
	prober  Prober
	profile audio.Profile
	workDir string
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	futures []*Future
}

// NewScheduler returns a scheduler writing re-encoded audio under workDir.
// A nil pool selects the shared pool.
func NewScheduler(ctx context.Context, pool *Pool, encoder Encoder, prober Prober, profile audio.Profile, workDir string, logger *slog.Logger) *Scheduler {
	if pool == nil {
		pool = Shared()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Scheduler{
		pool:    pool,
		encoder: encoder,
		prober:  prober,
		profile: profile,
		workDir: workDir,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Submit schedules section number's recording. Audio already in profile
// resolves immediately to its own path.
func (s *Scheduler) Submit(number int, sourcePath string) (*Future, error) {
	probe, err := s.prober.Inspect(s.ctx, sourcePath)
	if err != nil {
		return nil, services.Wrap(services.ErrTranscode, "transcode", "probe", fmt.Sprintf("section %d", number), err)
	}
	mismatch := s.profile.Check(probe)
	if mismatch == nil {
		stream, _ := probe.AudioStream()
		s.logger.Debug("audio already in profile",
			logging.Int("section", number),
			logging.String("source", sourcePath),
			logging.Int("sample_rate", stream.SampleRateHz()),
			logging.Int("audio_streams", probe.AudioStreamCount()),
			logging.Int64("size_bytes", probe.SizeBytes()),
		)
		f := Resolved(sourcePath)
		s.track(f)
		return f, nil
	}
	s.logger.Debug("audio scheduled for re-encode",
		logging.Int("section", number),
		logging.String("source", sourcePath),
		logging.String("reason", mismatch.Error()),
		logging.String("profile", s.profile.String()),
	)

	if err := os.MkdirAll(s.workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create transcode work dir: %w", err)
	}
	output := filepath.Join(s.workDir, fmt.Sprintf("%04d.mp3", number))
	f := s.pool.Submit(s.ctx, func(ctx context.Context) (string, error) {
		if err := s.encoder.Encode(ctx, sourcePath, output, s.profile); err != nil {
			return "", services.Wrap(services.ErrTranscode, "transcode", "encode", fmt.Sprintf("section %d", number), err)
		}
		return output, nil
	})
	s.track(f)
	return f, nil
}

func (s *Scheduler) track(f *Future) {
	s.mu.Lock()
	s.futures = append(s.futures, f)
	s.mu.Unlock()
}

// Close removes the work directory once every job has finished. It blocks
// until then and is meant for the success path, where futures were awaited.
func (s *Scheduler) Close() error {
	s.waitAll()
	s.cancel()
	return os.RemoveAll(s.workDir)
}

// Abandon cancels pending jobs and returns immediately; outstanding jobs
// drain in the background and the work directory is removed afterwards.
func (s *Scheduler) Abandon() {
	s.cancel()
	go func() {
		s.waitAll()
		if err := os.RemoveAll(s.workDir); err != nil {
			s.logger.Debug("transcode work dir cleanup failed", logging.Error(err))
		}
	}()
}

func (s *Scheduler) waitAll() {
	s.mu.Lock()
	futures := append([]*Future(nil), s.futures...)
	s.mu.Unlock()
	for _, f := range futures {
		<-f.Done()
	}
}
