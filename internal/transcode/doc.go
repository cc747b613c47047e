// Package transcode brings section recordings into the package's audio
// profile on a bounded worker pool.
//
// A Pool runs re-encode jobs with at most N in flight. Two lifetimes exist:
// the process-wide shared pool (Shared, created lazily at the host CPU count
// and resized only through ConfigureShared) which concurrent builds reuse,
// and private pools from NewPool for a build that asks for an explicit
// worker count.
//
// The Scheduler probes each recording inline, resolves in-profile audio to
// an identity Future without touching the pool, and submits everything else
// to the Encoder. Callers await futures in section order so output numbering
// never depends on which job finishes first.
package transcode
