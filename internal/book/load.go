package book

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"anemone/internal/align"
	"anemone/internal/extract"
	"anemone/internal/fetch"
	"anemone/internal/images"
	"anemone/internal/logging"
	"anemone/internal/reconcile"
	"anemone/internal/section"
	"anemone/internal/services"
	"anemone/internal/services/whisperx"
	"anemone/internal/textutil"
	"anemone/internal/timeline"
)

// loaded is the input side of a build: sections ready for the TOC and the
// images they reference.
type loaded struct {
	sections []*section.Section
	images   *images.Collector
}

// read returns the bytes of src, fetching URLs.
func (bd *build) read(ctx context.Context, src Source) ([]byte, error) {
	switch {
	case src.Inline:
		return []byte(src.Ref), nil
	case fetch.IsURL(src.Ref):
		if bd.fetcher == nil {
			return nil, services.Wrap(services.ErrConfiguration, "book", "read", "no fetcher for "+src.Ref, nil)
		}
		return bd.fetcher.Fetch(ctx, src.Ref)
	default:
		data, err := os.ReadFile(src.Ref)
		if err != nil {
			return nil, services.Wrap(services.ErrInput, "book", "read", fmt.Sprintf("File not found: %s", src.Ref), err)
		}
		return data, nil
	}
}

// audioPath returns a local path for a recording, downloading URLs into
// the work directory.
func (bd *build) audioPath(ctx context.Context, number int, src Source) (string, error) {
	if !fetch.IsURL(src.Ref) {
		if _, err := os.Stat(src.Ref); err != nil {
			return "", services.Wrap(services.ErrInput, "book", "audio", fmt.Sprintf("File not found: %s", src.Ref), err)
		}
		return src.Ref, nil
	}
	data, err := bd.read(ctx, src)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(bd.workDir, "inputs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create input dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%04d%s", number, strings.ToLower(filepath.Ext(refPath(src.Ref)))))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("store %s: %w", src.Ref, err)
	}
	return path, nil
}

// duration probes a recording's length in seconds.
func (bd *build) duration(ctx context.Context, path string) (float64, error) {
	probe, err := bd.prober.Inspect(ctx, path)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "book", "probe", path, err)
	}
	seconds := probe.DurationSeconds()
	if seconds <= 0 {
		return 0, services.Wrap(services.ErrInput, "book", "probe", fmt.Sprintf("%s has no audio duration", path), nil)
	}
	return seconds, nil
}

func (bd *build) extractOptions() extract.Options {
	return extract.Options{
		MarkerAttribute: bd.cfg.DAISY.MarkerAttribute,
		PageAttribute:   bd.cfg.DAISY.PageAttribute,
		ImageAttribute:  bd.cfg.DAISY.ImageAttribute,
	}
}

func (bd *build) document(ctx context.Context, src TextSource) (*extract.Document, error) {
	data, err := bd.read(ctx, src.Source)
	if err != nil {
		return nil, err
	}
	var doc *extract.Document
	if src.Format == FormatMarkdown {
		doc, err = extract.Markdown(data, bd.extractOptions())
	} else {
		doc, err = extract.HTMLString(string(data), bd.extractOptions())
	}
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "book", "extract", src.Name(), err)
	}
	return doc, nil
}

// load turns the classified inputs into sections. Every section has its
// final duration and a reconciled timeline when it has text.
func (bd *build) load(ctx context.Context) (loaded, error) {
	in := bd.inputs
	out := loaded{images: images.NewCollector(bd.loadImage)}

	var markers [][]extract.Marker
	var transcripts [][]extract.Segment
	for i, src := range in.JSON {
		data, err := bd.read(ctx, src)
		if err != nil {
			return loaded{}, err
		}
		kind, err := extract.DetectJSON(data)
		if err != nil {
			return loaded{}, err
		}
		switch kind {
		case extract.JSONMarkers:
			list, err := extract.ParseMarkers(data)
			if err != nil {
				return loaded{}, err
			}
			markers = append(markers, list)
		case extract.JSONTranscript:
			segments, err := extract.ParseTranscript(data)
			if err != nil {
				return loaded{}, err
			}
			transcripts = append(transcripts, segments)
		}
		bd.logger.Debug("json input loaded", logging.Int("index", i+1), logging.String("source", src.Name()))
	}
	switch {
	case len(markers) > 0 && len(transcripts) > 0:
		return loaded{}, inputError("Mixing time-marker JSON with transcript JSON is not supported")
	case len(markers) > 0 && len(in.Texts) == 0:
		return loaded{}, inputError("Time markers without full text is not implemented")
	case len(transcripts) > 0 && (len(in.Texts) > 0 || len(in.Titles) > 0):
		return loaded{}, inputError("Transcript JSON already carries the text; do not add HTML or title files")
	}

	total := max(len(in.Audio), len(in.Texts))
	for i := 0; i < total; i++ {
		number := i + 1
		sctx := services.WithSection(ctx, number)
		sec := &section.Section{Number: number}
		if i < len(in.Audio) {
			path, err := bd.audioPath(sctx, number, in.Audio[i])
			if err != nil {
				return loaded{}, err
			}
			sec.Audio = path
			if sec.Duration, err = bd.duration(sctx, path); err != nil {
				return loaded{}, err
			}
		}

		var err error
		switch {
		case len(in.Titles) > 0:
			sec.Body, err = bd.titleBody(sctx, in.Titles[i])
		case len(transcripts) > 0:
			sec.Body = &section.TextBody{Timeline: extract.TranscriptTimeline(transcripts[i])}
		case len(in.Texts) > 0:
			var m []extract.Marker
			if markers != nil {
				m = markers[i]
			}
			sec.Body, err = bd.textBody(sctx, sec, in.Texts[i], m, markers != nil, out.images)
		default:
			sec.Body = section.TitleBody{Title: textutil.TitleFromFileName(in.Audio[i].Ref)}
		}
		if err != nil {
			return loaded{}, err
		}
		if body := sec.Text(); body != nil {
			if sec.HasAudio() {
				body.Timeline.SetDuration(sec.Duration)
			}
			reconcile.Timeline(body.Timeline, logging.WithContext(sctx, bd.logger))
		}
		out.sections = append(out.sections, sec)
	}
	bd.logger.Debug("inputs loaded",
		logging.Int("sections", len(out.sections)),
		logging.Int("images", len(out.images.Files())),
	)
	return out, nil
}

func (bd *build) titleBody(ctx context.Context, src Source) (section.Body, error) {
	data, err := bd.read(ctx, src)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(string(data))
	if title == "" {
		title = textutil.TitleFromFileName(src.Ref)
	}
	return section.TitleBody{Title: title}, nil
}

// textBody builds a section timeline from full text. With markers the
// markers give the times; with audio but no markers the times come from
// speech recognition; without audio the timeline is untimed.
func (bd *build) textBody(ctx context.Context, sec *section.Section, src TextSource, markers []extract.Marker, haveMarkers bool, imgs *images.Collector) (section.Body, error) {
	doc, err := bd.document(ctx, src)
	if err != nil {
		return nil, err
	}
	if len(doc.Elements) == 0 {
		return nil, inputError("%s has no text", src.Name())
	}
	var built extract.Built
	switch {
	case !sec.HasAudio():
		built = extract.UntimedTimeline(doc, false)
	case haveMarkers:
		built, err = extract.BuildTimeline(doc, markers, bd.cfg.DAISY.MarkerAttribute, bd.warnings.Add)
		if err != nil {
			return nil, err
		}
	default:
		built = extract.UntimedTimeline(doc, true)
		if err := bd.recognize(ctx, sec, built.Timeline); err != nil {
			return nil, err
		}
	}
	if err := bd.attachImages(ctx, src.Source, built.Timeline, imgs); err != nil {
		return nil, err
	}
	return &section.TextBody{Timeline: built.Timeline, Pages: built.Pages}, nil
}

// recognize times an untimed timeline by aligning it with a transcript of
// the section's recording.
func (bd *build) recognize(ctx context.Context, sec *section.Section, tl *timeline.Timeline) error {
	if bd.transcriber == nil {
		return inputError("Full text without time markers needs speech recognition, which is disabled (section %d)", sec.Number)
	}
	workDir := filepath.Join(bd.workDir, "asr", fmt.Sprintf("%04d", sec.Number))
	segments, err := bd.transcriber.Transcribe(ctx, sec.Audio, workDir, bd.lang)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "book", "transcribe", fmt.Sprintf("section %d", sec.Number), err)
	}
	var words []align.Word
	for _, w := range whisperx.Words(segments) {
		word := align.Word{Text: w.Word}
		if w.Start != nil {
			word.Start, word.Timed = *w.Start, true
		}
		words = append(words, word)
	}
	result, err := align.Timeline(tl, words, logging.WithContext(ctx, bd.logger))
	if err != nil {
		return err
	}
	if result.Unresolved() > 0 {
		bd.logger.Info("some paragraph starts were not found in the transcript",
			logging.Int(logging.FieldSection, sec.Number),
			logging.Int("unresolved", result.Unresolved()),
			logging.Int("boundaries", result.Boundaries),
		)
	}
	return nil
}

// attachImages replaces image references with package file names.
func (bd *build) attachImages(ctx context.Context, src Source, tl *timeline.Timeline, imgs *images.Collector) error {
	for i, frag := range tl.Fragments() {
		if len(frag.Images) == 0 {
			continue
		}
		names := make([]string, 0, len(frag.Images))
		for _, ref := range frag.Images {
			name, err := imgs.Add(ctx, resolveRef(src, ref))
			if err != nil {
				return err
			}
			names = append(names, name)
		}
		tl.SetImages(i, names)
	}
	return nil
}

func (bd *build) loadImage(ctx context.Context, ref string) ([]byte, error) {
	return bd.read(ctx, Source{Ref: ref})
}

// resolveRef makes an image reference absolute relative to the document
// that contains it.
func resolveRef(doc Source, ref string) string {
	if fetch.IsURL(ref) || filepath.IsAbs(ref) || doc.Inline {
		return ref
	}
	if fetch.IsURL(doc.Ref) {
		base, err := url.Parse(doc.Ref)
		if err != nil {
			return ref
		}
		rel, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return base.ResolveReference(rel).String()
	}
	return filepath.Join(filepath.Dir(doc.Ref), ref)
}
