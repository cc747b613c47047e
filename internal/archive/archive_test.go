package archive

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommitWritesEntriesInOrder(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "book.zip")
	src := filepath.Join(dir, "0001.mp3")
	require.NoError(t, os.WriteFile(src, []byte("ID3audio"), 0o644))

	w, err := Create(dest, Options{})
	require.NoError(t, err)
	require.NoError(t, w.CopyFile("0001.mp3", src))
	require.NoError(t, w.WriteFile("ncc.html", []byte("<html/>")))
	require.NoError(t, w.Commit())
	w.Abort()

	r, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer r.Close()
	require.Len(t, r.File, 2)
	require.Equal(t, "0001.mp3", r.File[0].Name)
	require.Equal(t, zip.Store, r.File[0].Method)
	require.Equal(t, zip.Deflate, r.File[1].Method)
	rc, err := r.File[1].Open()
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	require.Equal(t, "<html/>", string(body))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2, "no temp files left behind")
}

func TestAbortLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "book.zip")
	w, err := Create(dest, Options{})
	require.NoError(t, err)
	require.NoError(t, w.WriteFile("a.txt", []byte("x")))
	w.Abort()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
	require.Error(t, w.WriteFile("b.txt", nil))
}

func TestCapacityWarnsOnce(t *testing.T) {
	c := NewCapacity(3)
	require.Empty(t, c.Add(SectorSize)) // 1 data + 1 catalogue
	require.Empty(t, c.Add(1))          // 2 + 1
	msg := c.Add(SectorSize + 1)        // 4 + 1
	require.True(t, strings.Contains(msg, "5 sectors, limit 3"), msg)
	require.Empty(t, c.Add(SectorSize))
	require.True(t, c.Warned())
	require.EqualValues(t, 6, c.Sectors())
}

func TestCapacityDisabled(t *testing.T) {
	c := NewCapacity(0)
	require.Empty(t, c.Add(1<<40))
	require.False(t, c.Warned())
}

func TestCapacityCatalogueSectors(t *testing.T) {
	c := NewCapacity(0)
	for range EntriesPerSector + 1 {
		c.Add(0)
	}
	require.EqualValues(t, 2, c.Sectors())
}

func TestCapacityWarningPropagates(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "book.zip")
	strict := errors.New("strict")
	var seen []string
	w, err := Create(dest, Options{CapacitySectors: 1, Warn: func(msg string) error {
		seen = append(seen, msg)
		return strict
	}})
	require.NoError(t, err)
	defer w.Abort()
	require.ErrorIs(t, w.WriteFile("big.mp3", make([]byte, SectorSize*2)), strict)
	require.Len(t, seen, 1)
}
