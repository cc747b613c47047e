package book

import (
	"context"
	"fmt"

	"anemone/internal/archive"
	"anemone/internal/daisy"
	"anemone/internal/logging"
	"anemone/internal/reconcile"
	"anemone/internal/section"
	"anemone/internal/services"
	"anemone/internal/toc"
	"anemone/internal/transcode"
)

// contents derives the table of contents, then re-reconciles timelines
// the builder changed.
func (bd *build) contents(sections []*section.Section) ([]toc.Entry, error) {
	builder := toc.NewBuilder(toc.Options{
		NormalizeDepth:     bd.cfg.DAISY.NormalizeDepth,
		IgnoreChapterSkips: bd.cfg.DAISY.IgnoreChapterSkips,
		ChapterTitles:      bd.req.ChapterTitles,
		Books:              bd.req.Books,
		Warn:               bd.warnings.Add,
	}, logging.NewComponentLogger(bd.logger, "toc"))
	entries, err := builder.Build(sections)
	if err != nil {
		return nil, err
	}
	for _, sec := range sections {
		if body := sec.Text(); body != nil {
			reconcile.Timeline(body.Timeline, bd.logger)
		}
	}
	return entries, nil
}

// write schedules every recording, then lays out sections strictly in
// order, waiting only on the section being written.
func (bd *build) write(ctx context.Context, sched *transcode.Scheduler, pkg *daisy.Package, w *archive.Writer, in loaded) error {
	futures := make([]*transcode.Future, len(in.sections))
	for i, sec := range in.sections {
		if !sec.HasAudio() {
			continue
		}
		f, err := sched.Submit(sec.Number, sec.Audio)
		if err != nil {
			return err
		}
		futures[i] = f
	}

	for i, sec := range in.sections {
		sctx := services.WithSection(ctx, sec.Number)
		if f := futures[i]; f != nil {
			path, err := f.Wait(sctx)
			if err != nil {
				return err
			}
			if path != sec.Audio {
				bd.refreshDuration(sctx, sec, path)
			}
			if err := w.CopyFile(daisy.AudioName(sec.Number), path); err != nil {
				return err
			}
			bd.req.progress(15 + 70*(i+1)/(len(in.sections)+1))
		}
		files, err := pkg.AddSection(sec)
		if err != nil {
			return services.Wrap(services.ErrInput, "book", "layout", fmt.Sprintf("section %d", sec.Number), err)
		}
		for _, file := range files {
			if err := w.WriteFile(file.Name, file.Data); err != nil {
				return err
			}
		}
	}

	imgs := in.images.Files()
	for _, img := range imgs {
		if err := w.WriteFile(img.Name, img.Data); err != nil {
			return err
		}
	}
	files, err := pkg.Finish(imgs)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := w.WriteFile(file.Name, file.Data); err != nil {
			return err
		}
	}
	bd.req.progress(85)
	return nil
}

// refreshDuration takes the re-encoded length, which can differ slightly
// from the source. A shorter length that would cut off the last fragment
// is ignored.
func (bd *build) refreshDuration(ctx context.Context, sec *section.Section, path string) {
	seconds, err := bd.duration(ctx, path)
	if err != nil {
		bd.logger.Debug("re-encoded duration unavailable", logging.Error(err))
		return
	}
	if body := sec.Text(); body != nil {
		tl := body.Timeline
		if tl.Len() > 0 && seconds < tl.Start(tl.Len()-1)+reconcile.Epsilon {
			return
		}
	}
	sec.Duration = seconds
}
