package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Backoff bounds for transient failures.
const (
	InitialBackoff = time.Second
	MaxBackoff     = 30 * time.Second
)

// ErrBodyTooLarge reports a response over the download size cap.
var ErrBodyTooLarge = errors.New("response body too large")

// StatusError is a non-success HTTP response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

// sleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isRetriable reports whether err is a transient condition worth retrying:
// timeouts, connection failures, rate limiting and server errors.
func isRetriable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status == http.StatusTooManyRequests || statusErr.Status >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func backoff(attempt int) time.Duration {
	delay := InitialBackoff * time.Duration(1<<uint(attempt-1))
	if delay > MaxBackoff {
		delay = MaxBackoff
	}
	return delay
}
