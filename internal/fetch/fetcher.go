package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"anemone/internal/config"
	"anemone/internal/fileutil"
	"anemone/internal/logging"
	"anemone/internal/services"
)

// FailureTTL is how long a cached failure blocks new attempts at a URL.
const FailureTTL = time.Hour

// maxBodyBytes caps a single download.
const maxBodyBytes = 1 << 30

// lastRequest is the time of the most recent network request made by any
// Fetcher in the process; the minimum interval is measured from it.
var lastRequest struct {
	sync.Mutex
	at time.Time
}

// Options configures a Fetcher.
type Options struct {
	CacheDir        string
	CacheEnabled    bool
	MinInterval     time.Duration
	MaxRetries      int
	Timeout         time.Duration
	RevalidateAfter time.Duration
	UserAgent       string
}

// OptionsFromConfig maps the [fetch] and [paths] configuration sections.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		CacheDir:        cfg.Paths.CacheDir,
		CacheEnabled:    cfg.Fetch.CacheEnabled,
		MinInterval:     time.Duration(cfg.Fetch.MinIntervalMs) * time.Millisecond,
		MaxRetries:      cfg.Fetch.MaxRetries,
		Timeout:         time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		RevalidateAfter: time.Duration(cfg.Fetch.RevalidateHours) * time.Hour,
		UserAgent:       cfg.Fetch.UserAgent,
	}
}

// Fetcher resolves URLs to bytes through the cache.
type Fetcher struct {
	opts   Options
	client *http.Client
	index  *Index
	lock   *flock.Flock
	logger *slog.Logger
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error

	// maxBody caps a response body; larger ones fail.
	maxBody int64
}

// New opens the cache (when enabled) and returns a fetcher.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*Fetcher, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	f := &Fetcher{
		opts:    opts,
		client:  &http.Client{Timeout: opts.Timeout},
		logger:  logger,
		now:     time.Now,
		sleep:   sleepWithContext,
		maxBody: maxBodyBytes,
	}
	if !opts.CacheEnabled {
		return f, nil
	}
	dir := strings.TrimSpace(opts.CacheDir)
	if dir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "fetch", "open cache", "cache directory is empty", nil)
	}
	if err := os.MkdirAll(filepath.Join(dir, "bodies"), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	index, err := openIndex(ctx, dir)
	if err != nil {
		return nil, err
	}
	f.index = index
	f.lock = flock.New(filepath.Join(dir, ".lock"))
	return f, nil
}

// WithHTTPClient replaces the HTTP client (for testing).
func (f *Fetcher) WithHTTPClient(client *http.Client) {
	f.client = client
}

// Close releases the cache index.
func (f *Fetcher) Close() error {
	if f == nil {
		return nil
	}
	return f.index.Close()
}

// IsURL reports whether s names a remote resource this package can fetch.
func IsURL(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Fetch returns the body of url.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	logger := f.logger.With(logging.String("url", url))
	var (
		entry  Entry
		cached bool
		err    error
	)
	if f.index != nil {
		entry, cached, err = f.index.Get(ctx, url)
		if err != nil {
			return nil, err
		}
	}

	if cached && entry.Failed() && f.now().Sub(entry.FetchedAt) < FailureTTL {
		logger.Debug("cached failure short-circuits fetch", logging.Int("status", entry.FailedStatus))
		return nil, services.Wrap(services.ErrFetch, "fetch", "get",
			fmt.Sprintf("last attempt at %s failed with status %d", url, entry.FailedStatus), nil)
	}

	var body []byte
	if cached && !entry.Failed() {
		body, err = os.ReadFile(filepath.Join(f.opts.CacheDir, "bodies", entry.BodyFile))
		if err != nil {
			logger.Debug("cached body unreadable, refetching", logging.Error(err))
			cached = false
		} else if f.opts.RevalidateAfter <= 0 || f.now().Sub(entry.FetchedAt) < f.opts.RevalidateAfter {
			logger.Debug("cache hit")
			return body, nil
		}
	}

	var conditional *Entry
	if cached && !entry.Failed() {
		conditional = &entry
	}
	resp, err := f.getWithRetry(ctx, url, conditional)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && f.index != nil {
			if storeErr := f.storeFailure(ctx, url, statusErr.Status); storeErr != nil {
				logger.Debug("failed to record fetch failure", logging.Error(storeErr))
			}
		}
		return nil, services.Wrap(services.ErrFetch, "fetch", "get", url, err)
	}

	if resp.notModified {
		logger.Debug("cache revalidated")
		if err := f.withLock(func() error { return f.index.Touch(ctx, url, f.now()) }); err != nil {
			return nil, err
		}
		return body, nil
	}
	if f.index != nil {
		if err := f.store(ctx, url, resp); err != nil {
			return nil, err
		}
	}
	logger.Debug("fetched", logging.Int("bytes", len(resp.body)))
	return resp.body, nil
}

type response struct {
	body         []byte
	notModified  bool
	etag         string
	lastModified string
	contentType  string
}

func (f *Fetcher) getWithRetry(ctx context.Context, url string, cached *Entry) (response, error) {
	attempt := 0
	for {
		if err := f.waitForWindow(ctx); err != nil {
			return response{}, err
		}
		resp, err := f.get(ctx, url, cached)
		f.markCall()
		if err == nil {
			return resp, nil
		}
		if !isRetriable(err) || attempt >= f.opts.MaxRetries {
			return response{}, err
		}
		attempt++
		delay := backoff(attempt)
		logging.WarnWithContext(f.logger, "fetch failed, retrying", "fetch_retry",
			logging.String("url", url),
			logging.Duration("backoff", delay),
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", f.opts.MaxRetries),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check network connectivity or the remote server"),
			logging.String(logging.FieldImpact, "input download delayed"),
		)
		if err := f.sleep(ctx, delay); err != nil {
			return response{}, err
		}
	}
}

func (f *Fetcher) get(ctx context.Context, url string, cached *Entry) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return response{}, fmt.Errorf("build request: %w", err)
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	if cached != nil {
		if cached.ETag != "" {
			req.Header.Set("If-None-Match", cached.ETag)
		}
		if cached.LastModified != "" {
			req.Header.Set("If-Modified-Since", cached.LastModified)
		}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return response{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && cached != nil {
		return response{notModified: true}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return response{}, &StatusError{URL: url, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return response{}, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBody {
		return response{}, fmt.Errorf("%w: body of %s exceeds %d bytes", ErrBodyTooLarge, url, f.maxBody)
	}
	return response{
		body:         body,
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
		contentType:  resp.Header.Get("Content-Type"),
	}, nil
}

func (f *Fetcher) waitForWindow(ctx context.Context) error {
	if f.opts.MinInterval <= 0 {
		return nil
	}
	lastRequest.Lock()
	lastCall := lastRequest.at
	lastRequest.Unlock()
	if lastCall.IsZero() {
		return nil
	}
	elapsed := f.now().Sub(lastCall)
	if elapsed >= f.opts.MinInterval {
		return nil
	}
	return f.sleep(ctx, f.opts.MinInterval-elapsed)
}

func (f *Fetcher) markCall() {
	lastRequest.Lock()
	lastRequest.at = f.now()
	lastRequest.Unlock()
}

func (f *Fetcher) store(ctx context.Context, url string, resp response) error {
	name := bodyName(url)
	return f.withLock(func() error {
		if err := fileutil.WriteFileAtomic(filepath.Join(f.opts.CacheDir, "bodies", name), resp.body, 0o644); err != nil {
			return err
		}
		return f.index.Put(ctx, Entry{
			URL:          url,
			BodyFile:     name,
			ETag:         resp.etag,
			LastModified: resp.lastModified,
			ContentType:  resp.contentType,
			Size:         int64(len(resp.body)),
			FetchedAt:    f.now(),
		})
	})
}

func (f *Fetcher) storeFailure(ctx context.Context, url string, status int) error {
	return f.withLock(func() error {
		return f.index.Put(ctx, Entry{URL: url, FailedStatus: status, FetchedAt: f.now()})
	})
}

func (f *Fetcher) withLock(fn func() error) error {
	if f.lock == nil {
		return fn()
	}
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("lock cache: %w", err)
	}
	defer func() {
		if err := f.lock.Unlock(); err != nil {
			f.logger.Debug("cache unlock failed", logging.Error(err))
		}
	}()
	return fn()
}

// Stats returns cache usage, or zero stats when caching is disabled.
func (f *Fetcher) Stats(ctx context.Context) (Stats, error) {
	if f.index == nil {
		return Stats{}, nil
	}
	return f.index.Stats(ctx)
}

// Clear removes every cached body and index entry.
func (f *Fetcher) Clear(ctx context.Context) error {
	if f.index == nil {
		return nil
	}
	return f.withLock(func() error {
		bodies := filepath.Join(f.opts.CacheDir, "bodies")
		if err := os.RemoveAll(bodies); err != nil {
			return fmt.Errorf("remove cached bodies: %w", err)
		}
		if err := os.MkdirAll(bodies, 0o755); err != nil {
			return fmt.Errorf("recreate cache dir: %w", err)
		}
		return f.index.Clear(ctx)
	})
}
