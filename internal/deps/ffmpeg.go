package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// versionTimeout bounds a "-version" call; a hung binary should not stall
// the doctor command.
const versionTimeout = 5 * time.Second

// ToolVersion returns the first line of "<binary> -version", which ffmpeg
// and ffprobe both print as "<name> version N ...".
func ToolVersion(ctx context.Context, binary string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, binary, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("%s -version: %w", binary, err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}

// AnnotateVersions adds the reported version to each available status.
func AnnotateVersions(ctx context.Context, statuses []Status, names ...string) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	for i := range statuses {
		if !statuses[i].Available || !wanted[statuses[i].Name] {
			continue
		}
		version, err := ToolVersion(ctx, statuses[i].Command)
		if err != nil {
			statuses[i].Detail = err.Error()
			continue
		}
		statuses[i].Detail = version
	}
}
