package preflight

import (
	"context"
	"fmt"

	"anemone/internal/config"
	"anemone/internal/fetch"
)

// CheckFetchCache opens the fetch cache index and reports its size.
func CheckFetchCache(ctx context.Context, cfg *config.Config) Result {
	const name = "Fetch cache index"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if !cfg.Fetch.CacheEnabled {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	f, err := fetch.New(ctx, fetch.OptionsFromConfig(cfg), nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("open failed (%v)", err)}
	}
	defer f.Close()
	stats, err := f.Stats(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("query failed (%v)", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d entries, %d failures", stats.Entries, stats.Failures)}
}
