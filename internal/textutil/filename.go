package textutil

import "strings"

// TitleFromFileName derives a human title from an input or output file name:
// the directory and extension are dropped, and a trailing "_daisy" marker
// is removed.
func TitleFromFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = strings.TrimSuffix(name, "_daisy")
	return strings.TrimSpace(name)
}
