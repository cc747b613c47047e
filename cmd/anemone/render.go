package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

func statusLabel(kind statusKind, colorize bool) string {
	label, color := "OK", ansiGreen
	switch kind {
	case statusWarn:
		label, color = "WARN", ansiYellow
	case statusError:
		label, color = "FAIL", ansiRed
	}
	if !colorize {
		return label
	}
	return color + label + ansiReset
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func printWarning(w io.Writer, message string) {
	prefix := "Warning:"
	if shouldColorize(w) {
		prefix = ansiYellow + prefix + ansiReset
	}
	fmt.Fprintln(w, prefix, message)
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
