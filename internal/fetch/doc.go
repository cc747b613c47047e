// Package fetch retrieves remote book inputs (text, markers, images,
// recordings) through an on-disk cache.
//
// Bodies are stored as files named by the SHA-256 of their URL, and a
// SQLite index records each URL's validators (ETag, Last-Modified), size,
// and the status of a failed last attempt. A fresh entry is served without
// touching the network; an older one is re-validated with a conditional
// request. A cached failure short-circuits repeat attempts until it
// expires. Writers take a file lock on the cache directory so concurrent
// processes never interleave index updates.
//
// Requests are spaced by a process-wide minimum interval and transient
// failures (timeouts, 429, 5xx) are retried with exponential backoff.
package fetch
