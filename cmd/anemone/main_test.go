package main

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type cliTestEnv struct {
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
cache_dir = %q
work_dir = %q

[logging]
level = "error"
`, filepath.Join(base, "cache"), filepath.Join(base, "work"))
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return &cliTestEnv{configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "DAISY version: 2")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected existing-file error, got %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("bogus = 1\n"), 0o644))
	_, _, err := runCLI(t, []string{"config", "validate"}, path)
	require.Error(t, err)
}

func TestCacheStatsAndClear(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"cache", "stats", "--json"}, env.configPath)
	require.NoError(t, err)
	requireContains(t, out, `"entries": 0`)

	out, _, err = runCLI(t, []string{"cache", "clear"}, env.configPath)
	require.NoError(t, err)
	requireContains(t, out, "Fetch cache cleared")
}

func TestBuildTextOnlyBook(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := t.TempDir()
	html := filepath.Join(dir, "story.html")
	require.NoError(t, os.WriteFile(html, []byte(`<h1>Opening</h1><p>Once.</p>`), 0o644))
	output := filepath.Join(dir, "Story.zip")

	out, _, err := runCLI(t, []string{
		"build", "--daisy3", "--title", "A Story", "--date", "2026-01-02", html, output,
	}, env.configPath)
	require.NoError(t, err)
	requireContains(t, out, "Wrote "+output)

	zr, err := zip.OpenReader(output)
	require.NoError(t, err)
	defer zr.Close()
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	require.Contains(t, names, "navigation.ncx")
	require.Contains(t, names, "package.opf")
	require.Contains(t, names, "0001.xml")
}

func TestBuildJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := t.TempDir()
	md := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(md, []byte("# One\n\nText.\n\n# Two\n\nMore.\n"), 0o644))
	output := filepath.Join(dir, "Notes.zip")

	out, _, err := runCLI(t, []string{"build", "--json", md, output}, env.configPath)
	require.NoError(t, err)
	requireContains(t, out, `"sections": 1`)
	requireContains(t, out, `"output": "`+output+`"`)
}

func TestBuildRejectsUnknownInput(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := t.TempDir()
	pdf := filepath.Join(dir, "story.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF"), 0o644))

	_, _, err := runCLI(t, []string{"build", pdf, filepath.Join(dir, "out.zip")}, env.configPath)
	require.Error(t, err)
	requireContains(t, err.Error(), "Can't handle")
}

func TestParseBooks(t *testing.T) {
	books, err := parseBooks([]string{"Genesis: 2", "Exodus:1"})
	require.NoError(t, err)
	require.Len(t, books, 2)
	require.Equal(t, "Genesis", books[0].Title)
	require.Equal(t, 2, books[0].Sections)

	_, err = parseBooks([]string{"NoCount"})
	require.Error(t, err)
	_, err = parseBooks([]string{"Bad:0"})
	require.Error(t, err)
}
