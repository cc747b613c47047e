// Package archive writes the ZIP container of a talking book.
//
// The archive is assembled in a temp file beside the destination and only
// renamed into place by Commit; Abort removes it, so a failed build leaves
// no output behind. Every entry is counted against a CD capacity budget.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"anemone/internal/fileutil"
)

// Writer adds entries to a pending archive.
type Writer struct {
	dest     string
	file     *os.File
	zip      *zip.Writer
	capacity *Capacity
	warn     func(string) error
	modified time.Time
	names    []string
	done     bool
}

// Options configures a Writer.
type Options struct {
	// CapacitySectors is the CD budget; zero disables the check.
	CapacitySectors int64
	// Warn receives the capacity warning. A non-nil return fails the write.
	Warn func(string) error
	// Modified stamps every entry, keeping output byte-identical across
	// builds of the same input.
	Modified time.Time
}

// Create starts an archive that will be written to dest.
func Create(dest string, opts Options) (*Writer, error) {
	f, err := fileutil.CreateSibling(dest)
	if err != nil {
		return nil, err
	}
	warn := opts.Warn
	if warn == nil {
		warn = func(string) error { return nil }
	}
	modified := opts.Modified
	if modified.IsZero() {
		modified = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Writer{
		dest:     dest,
		file:     f,
		zip:      zip.NewWriter(f),
		capacity: NewCapacity(opts.CapacitySectors),
		warn:     warn,
		modified: modified,
	}, nil
}

// Dest returns the final archive path.
func (w *Writer) Dest() string { return w.dest }

// Names returns entry names in write order.
func (w *Writer) Names() []string { return w.names }

// Capacity returns the running capacity counter.
func (w *Writer) Capacity() *Capacity { return w.capacity }

// WriteFile adds an entry with the given contents.
func (w *Writer) WriteFile(name string, data []byte) error {
	out, err := w.create(name)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return w.count(int64(len(data)))
}

// CopyFile adds an entry streamed from a file on disk.
func (w *Writer) CopyFile(name, source string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}
	defer in.Close()
	out, err := w.create(name)
	if err != nil {
		return err
	}
	written, err := io.Copy(out, in)
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return w.count(written)
}

func (w *Writer) create(name string) (io.Writer, error) {
	if w.done {
		return nil, fmt.Errorf("write %s: archive already closed", name)
	}
	header := &zip.FileHeader{Name: name, Method: method(name), Modified: w.modified}
	out, err := w.zip.CreateHeader(header)
	if err != nil {
		return nil, fmt.Errorf("create entry %s: %w", name, err)
	}
	w.names = append(w.names, name)
	return out, nil
}

func (w *Writer) count(size int64) error {
	if msg := w.capacity.Add(size); msg != "" {
		return w.warn(msg)
	}
	return nil
}

// method stores already-compressed media and deflates text.
func method(name string) uint16 {
	switch strings.ToLower(path.Ext(name)) {
	case ".mp3", ".jpg", ".jpeg", ".png":
		return zip.Store
	default:
		return zip.Deflate
	}
}

// Commit finishes the archive and moves it to its destination.
func (w *Writer) Commit() error {
	if w.done {
		return fmt.Errorf("commit %s: archive already closed", w.dest)
	}
	w.done = true
	if err := w.zip.Close(); err != nil {
		fileutil.Discard(w.file)
		return fmt.Errorf("finish archive: %w", err)
	}
	return fileutil.Commit(w.file, w.dest)
}

// Abort discards the pending archive. It is safe to call after Commit.
func (w *Writer) Abort() {
	if w.done {
		return
	}
	w.done = true
	_ = w.zip.Close()
	fileutil.Discard(w.file)
}
