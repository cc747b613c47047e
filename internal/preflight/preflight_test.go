package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"anemone/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckOutputPath(t *testing.T) {
	dir := t.TempDir()
	if r := CheckOutputPath(filepath.Join(dir, "book.zip")); !r.Passed {
		t.Fatalf("expected pass, got %s", r.Detail)
	}
	if r := CheckOutputPath(dir); r.Passed {
		t.Fatal("expected failure when output is a directory")
	}
	if r := CheckOutputPath(filepath.Join(dir, "missing", "book.zip")); r.Passed {
		t.Fatal("expected failure for missing parent")
	}
}

func TestCheckSystemDepsMarksUVXOptionalWithoutASR(t *testing.T) {
	cfg := config.Default()
	cfg.ASR.Enabled = false
	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if statuses[2].Name != "uvx" || !statuses[2].Optional {
		t.Fatalf("expected optional uvx, got %#v", statuses[2])
	}

	cfg.ASR.Enabled = true
	statuses = CheckSystemDeps(&cfg)
	if statuses[2].Optional {
		t.Fatal("uvx should be required when ASR is enabled")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_WithCache(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.Paths.CacheDir = t.TempDir()
	cfg.Paths.LogDir = ""
	cfg.Fetch.CacheEnabled = true

	results := RunAll(context.Background(), &cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %#v", failed)
	}
	if results[2].Detail != "0 entries, 0 failures" {
		t.Fatalf("unexpected cache detail %q", results[2].Detail)
	}
}

func TestRunAll_CacheDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(t.TempDir(), "missing")
	cfg.Paths.LogDir = ""
	cfg.Fetch.CacheEnabled = false

	results := RunAll(context.Background(), &cfg)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if len(Failed(results)) != 1 {
		t.Fatal("expected missing work dir to fail")
	}
}

func TestCheckFetchCacheDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Fetch.CacheEnabled = false
	if r := CheckFetchCache(context.Background(), &cfg); !r.Passed || r.Detail != "Disabled" {
		t.Fatalf("unexpected result %#v", r)
	}
}
