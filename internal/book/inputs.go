package book

import (
	"fmt"
	"path/filepath"
	"strings"

	"anemone/internal/fetch"
	"anemone/internal/services"
)

// DefaultOutput is used when no .zip argument is given.
const DefaultOutput = "output_daisy.zip"

// TextFormat is the markup of a full-text input.
type TextFormat int

const (
	FormatHTML TextFormat = iota
	FormatMarkdown
)

// Source is one input: a local path, a URL, or inline content. Inline
// content is recognised by its first character ('<' for HTML, '{' for
// JSON) and named by its position.
type Source struct {
	Ref    string
	Inline bool
}

// Name returns a short label for messages.
func (s Source) Name() string {
	if s.Inline {
		return "inline input"
	}
	return s.Ref
}

// TextSource is a full-text input with its markup format.
type TextSource struct {
	Source
	Format TextFormat
}

// Inputs is the classified argument list.
type Inputs struct {
	Audio  []Source
	JSON   []Source
	Titles []Source
	Texts  []TextSource
	Output string
}

func inputError(format string, args ...any) error {
	return services.Wrap(services.ErrInput, "book", "classify", fmt.Sprintf(format, args...), nil)
}

// Classify sorts refs by extension. Order within each kind is preserved
// and fixes section numbering.
func Classify(refs []string) (Inputs, error) {
	var in Inputs
	for _, ref := range refs {
		trimmed := strings.TrimSpace(ref)
		switch {
		case strings.HasPrefix(trimmed, "<"):
			in.Texts = append(in.Texts, TextSource{Source: Source{Ref: ref, Inline: true}, Format: FormatHTML})
			continue
		case strings.HasPrefix(trimmed, "{"):
			in.JSON = append(in.JSON, Source{Ref: ref, Inline: true})
			continue
		}
		ext := strings.ToLower(filepath.Ext(refPath(ref)))
		src := Source{Ref: ref}
		switch ext {
		case ".zip":
			if in.Output != "" {
				return Inputs{}, inputError("Only one .zip output file may be specified")
			}
			in.Output = ref
		case ".mp3", ".wav":
			in.Audio = append(in.Audio, src)
		case ".json":
			in.JSON = append(in.JSON, src)
		case ".txt":
			in.Titles = append(in.Titles, src)
		case ".html", ".htm", ".xhtml":
			in.Texts = append(in.Texts, TextSource{Source: src, Format: FormatHTML})
		case ".md", ".markdown":
			in.Texts = append(in.Texts, TextSource{Source: src, Format: FormatMarkdown})
		default:
			return Inputs{}, inputError("Can't handle '%s'", ref)
		}
	}
	if in.Output == "" {
		in.Output = DefaultOutput
	}
	return in, in.check()
}

// check rejects argument combinations that cannot form a book. JSON kinds
// are only known after loading, so marker/transcript rules are applied
// later.
func (in Inputs) check() error {
	if len(in.Audio) == 0 && len(in.Texts) == 0 {
		if len(in.Titles) > 0 || len(in.JSON) > 0 {
			return inputError("Creating DAISY files without audio requires full text (HTML or Markdown)")
		}
		return inputError("No input files were given")
	}
	if len(in.Texts) > 0 && len(in.Titles) > 0 {
		return inputError("Combining full text with title-only text files is not yet implemented.  Please specify full text for everything or just titles for everything, not both.")
	}
	if len(in.Audio) == 0 && len(in.JSON) > 0 {
		return inputError("Time markers without audio are not supported")
	}
	if len(in.Titles) > 0 && len(in.Titles) != len(in.Audio) {
		return inputError("If text files are specified, there must be exactly one text file for each recording file.  We got %d txt files and %d recording files.", len(in.Titles), len(in.Audio))
	}
	if len(in.Audio) > 0 && len(in.Texts) > 0 && len(in.Texts) != len(in.Audio) {
		return inputError("If HTML files are specified, there must be exactly one HTML file for each recording file.  We got %d HTML files and %d recording files.", len(in.Texts), len(in.Audio))
	}
	if len(in.JSON) > 0 && len(in.JSON) != len(in.Audio) {
		return inputError("If JSON files are specified, there must be exactly one JSON file for each recording file.  We got %d JSON files and %d recording files.", len(in.JSON), len(in.Audio))
	}
	return nil
}

// refPath strips a URL's query so the extension can be read.
func refPath(ref string) string {
	if fetch.IsURL(ref) {
		if i := strings.IndexAny(ref, "?#"); i >= 0 {
			return ref[:i]
		}
	}
	return ref
}
