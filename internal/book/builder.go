package book

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"anemone/internal/archive"
	"anemone/internal/config"
	"anemone/internal/daisy"
	"anemone/internal/fetch"
	"anemone/internal/language"
	"anemone/internal/logging"
	"anemone/internal/media/audio"
	"anemone/internal/media/ffprobe"
	"anemone/internal/services"
	"anemone/internal/services/whisperx"
	"anemone/internal/textutil"
	"anemone/internal/transcode"
)

// Transcriber recognizes speech in a recording.
type Transcriber interface {
	Transcribe(ctx context.Context, source, workDir, language string) ([]whisperx.Segment, error)
}

// Builder holds the collaborators shared by builds. It is safe to run
// several builds at once; each gets its own work directory.
type Builder struct {
	cfg         *config.Config
	logger      *slog.Logger
	fetcher     *fetch.Fetcher
	encoder     transcode.Encoder
	prober      transcode.Prober
	transcriber Transcriber
	pool        *transcode.Pool
	now         func() time.Time
}

// Option customizes a Builder.
type Option func(*Builder)

// WithFetcher enables URL inputs.
func WithFetcher(f *fetch.Fetcher) Option { return func(b *Builder) { b.fetcher = f } }

// WithEncoder replaces the ffmpeg encoder.
func WithEncoder(e transcode.Encoder) Option { return func(b *Builder) { b.encoder = e } }

// WithProber replaces the ffprobe inspector.
func WithProber(p transcode.Prober) Option { return func(b *Builder) { b.prober = p } }

// WithTranscriber replaces the WhisperX service. A nil transcriber
// disables speech alignment.
func WithTranscriber(t Transcriber) Option { return func(b *Builder) { b.transcriber = t } }

// WithPool runs transcodes on pool instead of the configured one.
func WithPool(p *transcode.Pool) Option { return func(b *Builder) { b.pool = p } }

// WithClock overrides the clock used for default dates.
func WithClock(now func() time.Time) Option { return func(b *Builder) { b.now = now } }

// New returns a Builder using the external tools named in cfg.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Builder {
	if logger == nil {
		logger = logging.NewNop()
	}
	b := &Builder{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "book"),
		encoder: transcode.NewFFmpeg(transcode.WithBinary(cfg.Audio.FFmpegBinary)),
		prober:  ffprobe.Inspector{Binary: cfg.Audio.FFprobeBinary},
		now:     time.Now,
	}
	if cfg.ASR.Enabled {
		b.transcriber = whisperx.NewService(whisperx.Config{
			Model:       cfg.ASR.Model,
			CUDAEnabled: cfg.ASR.CUDAEnabled,
			VADMethod:   cfg.ASR.VADMethod,
		}, cfg.Audio.FFmpegBinary)
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// build is the state of one Build call.
type build struct {
	*Builder
	req      *Request
	id       string
	logger   *slog.Logger
	warnings *Warnings
	workDir  string
	inputs   Inputs
	lang     string
}

// Build produces the archive described by req. On failure no output file
// is left behind.
func (b *Builder) Build(ctx context.Context, req Request) (Result, error) {
	id := ulid.Make().String()
	ctx = services.WithBuildID(ctx, id)
	logger := logging.WithContext(ctx, b.logger)

	inputs, err := Classify(req.Inputs)
	if err != nil {
		return Result{}, err
	}
	lang := req.Language
	if lang == "" {
		lang = b.cfg.DAISY.Language
	}
	if canonical, err := language.Canonical(lang); err == nil {
		lang = canonical
	}
	bd := &build{
		Builder:  b,
		req:      &req,
		id:       id,
		logger:   logger,
		warnings: NewWarnings(b.cfg.DAISY.WarningsAreErrors, req.Warning, logger),
		workDir:  filepath.Join(b.cfg.Paths.WorkDir, id),
		inputs:   inputs,
		lang:     lang,
	}
	defer bd.cleanup()

	started := time.Now()
	logger.Info("book build started",
		logging.String("output", inputs.Output),
		logging.Int("recordings", len(inputs.Audio)),
		logging.Int("texts", len(inputs.Texts)),
		logging.Int("daisy_version", b.cfg.DAISY.Version),
		logging.String("language", language.DisplayName(lang)),
	)
	result, err := bd.run(ctx)
	if err != nil {
		logging.ErrorWithContext(logger, "book build failed", services.Kind(err),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix the reported input and rebuild"),
		)
		return Result{}, err
	}
	logger.Info("book build finished",
		logging.String("output", result.Output),
		logging.Int("sections", result.Sections),
		logging.Float64("duration_seconds", result.Duration),
		logging.Int("warnings", len(result.Warnings)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

func (bd *build) run(ctx context.Context) (Result, error) {
	loaded, err := bd.load(ctx)
	if err != nil {
		return Result{}, err
	}
	bd.req.progress(7)

	entries, err := bd.contents(loaded.sections)
	if err != nil {
		return Result{}, err
	}
	bd.req.progress(15)

	meta := bd.metadata()
	version := bd.cfg.DAISY.Version
	pkg := daisy.New(daisy.Options{Version: version, Meta: meta, Entries: entries})

	pool := bd.pool
	if pool == nil && bd.cfg.Transcode.Workers > 0 {
		pool = transcode.NewPool(bd.cfg.Transcode.Workers)
	}
	profile := audio.Profile{
		BitrateKbps: bd.cfg.Audio.BitrateKbps,
		Channels:    bd.cfg.Audio.Channels,
		SampleRate:  bd.cfg.Audio.SampleRate,
	}
	sched := transcode.NewScheduler(ctx, pool, bd.encoder, bd.prober, profile,
		filepath.Join(bd.workDir, "transcode"), logging.NewComponentLogger(bd.logger, "transcode"))

	w, err := archive.Create(bd.inputs.Output, archive.Options{
		CapacitySectors: bd.cfg.DAISY.CapacitySectors,
		Warn:            bd.warnings.Add,
	})
	if err != nil {
		sched.Abandon()
		return Result{}, services.Wrap(services.ErrInput, "book", "create output", bd.inputs.Output, err)
	}
	if err := bd.write(ctx, sched, pkg, w, loaded); err != nil {
		w.Abort()
		sched.Abandon()
		return Result{}, err
	}
	if err := w.Commit(); err != nil {
		sched.Abandon()
		return Result{}, fmt.Errorf("commit %s: %w", w.Dest(), err)
	}
	if err := sched.Close(); err != nil {
		bd.logger.Debug("transcode cleanup failed", logging.Error(err))
	}
	bd.req.progress(100)
	bd.req.info("Wrote " + w.Dest())

	return Result{
		Output:   w.Dest(),
		BuildID:  bd.id,
		UID:      meta.UID,
		Sections: len(loaded.sections),
		Duration: pkg.TotalDuration(),
		Sectors:  w.Capacity().Sectors(),
		Warnings: bd.warnings.List(),
	}, nil
}

func (bd *build) metadata() daisy.Metadata {
	title := strings.TrimSpace(bd.req.Title)
	if title == "" {
		title = textutil.TitleFromFileName(bd.inputs.Output)
	}
	date := strings.TrimSpace(bd.req.Date)
	if date == "" {
		date = bd.now().Format("2006-01-02")
	}
	return daisy.Metadata{
		Title:     title,
		Creator:   bd.req.Creator,
		Publisher: bd.req.Publisher,
		Narrator:  bd.req.Narrator,
		Date:      date,
		Language:  bd.lang,
		UID:       bd.uid(title),
	}
}

// uid returns the caller's identifier or one derived from the title and
// inputs, so rebuilding the same inputs yields the same package.
func (bd *build) uid(title string) string {
	if uid := strings.TrimSpace(bd.req.UID); uid != "" {
		return uid
	}
	var key strings.Builder
	key.WriteString(title)
	add := func(kind string, src Source) {
		fmt.Fprintf(&key, "\x00%s\x00%s", kind, src.Ref)
		if src.Inline || fetch.IsURL(src.Ref) {
			return
		}
		if info, err := os.Stat(src.Ref); err == nil {
			fmt.Fprintf(&key, "\x00%d", info.Size())
		}
	}
	for _, src := range bd.inputs.Audio {
		add("audio", src)
	}
	for _, src := range bd.inputs.JSON {
		add("json", src)
	}
	for _, src := range bd.inputs.Titles {
		add("title", src)
	}
	for _, src := range bd.inputs.Texts {
		add("text", src.Source)
	}
	return "anemone-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(key.String())).String()
}

// cleanup removes per-build scratch files. The transcode directory is left
// to the scheduler, which may still be draining.
func (bd *build) cleanup() {
	for _, dir := range []string{"inputs", "asr"} {
		if err := os.RemoveAll(filepath.Join(bd.workDir, dir)); err != nil {
			bd.logger.Debug("work dir cleanup failed", logging.String("dir", dir), logging.Error(err))
		}
	}
	_ = os.Remove(bd.workDir)
}
