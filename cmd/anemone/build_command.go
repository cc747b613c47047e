package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"anemone/internal/book"
	"anemone/internal/config"
	"anemone/internal/fetch"
	"anemone/internal/preflight"
	"anemone/internal/section"
	"anemone/internal/timecode"
)

type buildFlags struct {
	title         string
	creator       string
	publisher     string
	reader        string
	date          string
	lang          string
	uid           string
	daisy3        bool
	chapterTitles []string
	books         []string
	strict        bool
	ignoreSkips   bool
	workers       int
	markerAttr    string
	pageAttr      string
	imageAttr     string
	noFetchCache  bool
	jsonOutput    bool
	skipPreflight bool
	showProgress  bool
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build file...",
		Short: "Assemble a DAISY book",
		Long: `Assemble a DAISY book from recordings (.mp3, .wav), section titles (.txt),
full text (.html, .md), time markers or transcripts (.json) and one output
(.zip). Any input may also be an http(s) URL.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			applyBuildFlags(cmd, &flags, cfg)

			if !flags.skipPreflight {
				inputs, err := book.Classify(args)
				if err != nil {
					return err
				}
				if r := preflight.CheckOutputPath(inputs.Output); !r.Passed {
					return fmt.Errorf("output not writable: %s", r.Detail)
				}
			}

			fetcher, err := fetch.New(cmd.Context(), fetch.OptionsFromConfig(cfg), logger)
			if err != nil {
				return err
			}
			defer fetcher.Close()

			books, err := parseBooks(flags.books)
			if err != nil {
				return err
			}

			builder := book.New(cfg, logger, book.WithFetcher(fetcher))

			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()
			req := book.Request{
				Inputs:        args,
				Title:         flags.title,
				Creator:       flags.creator,
				Publisher:     flags.publisher,
				Narrator:      flags.reader,
				Date:          flags.date,
				Language:      flags.lang,
				UID:           flags.uid,
				ChapterTitles: flags.chapterTitles,
				Books:         books,
				Warning:       func(m string) { printWarning(errOut, m) },
			}
			if !flags.jsonOutput {
				req.Info = func(m string) { fmt.Fprintln(out, m) }
			}
			if flags.showProgress {
				req.Progress = func(p int) { fmt.Fprintf(errOut, "%d%%\n", p) }
			}

			started := time.Now()
			result, err := builder.Build(cmd.Context(), req)
			if err != nil {
				return err
			}
			if flags.jsonOutput {
				return writeJSON(cmd, result)
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Sections", "Duration", "Sectors", "Warnings", "Elapsed"},
				[][]string{{
					strconv.Itoa(result.Sections),
					timecode.Format(result.Duration),
					strconv.FormatInt(result.Sectors, 10),
					strconv.Itoa(len(result.Warnings)),
					time.Since(started).Round(time.Millisecond).String(),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.title, "title", "", "Publication title (default: output file name)")
	f.StringVar(&flags.creator, "creator", "", "Creator name, if known")
	f.StringVar(&flags.publisher, "publisher", "", "Publisher name, if known")
	f.StringVar(&flags.reader, "reader", "", "Name of the reader who voiced the recordings")
	f.StringVar(&flags.date, "date", "", "Publication date as YYYY-MM-DD (default: today)")
	f.StringVar(&flags.lang, "lang", "", "ISO 639 language code of the publication")
	f.StringVar(&flags.uid, "uid", "", "Book identifier (default: derived from the title and inputs)")
	f.BoolVar(&flags.daisy3, "daisy3", false, "Write DAISY 3 instead of DAISY 2.02")
	f.StringArrayVar(&flags.chapterTitles, "chapter-title", nil, "Heading text for a section without one (repeat per section)")
	f.StringArrayVar(&flags.books, "book", nil, "Merge mode sub-book as TITLE:SECTIONS (repeat per book)")
	f.BoolVar(&flags.strict, "warnings-are-errors", false, "Fail on the first warning")
	f.BoolVar(&flags.ignoreSkips, "ignore-chapter-skips", false, "Do not warn when chapter numbers jump")
	f.IntVar(&flags.workers, "workers", 0, "Private transcode pool size (0 uses the shared pool)")
	f.StringVar(&flags.markerAttr, "marker-attribute", "", "HTML attribute holding marker IDs")
	f.StringVar(&flags.pageAttr, "page-attribute", "", "HTML attribute holding page numbers")
	f.StringVar(&flags.imageAttr, "image-attribute", "", "HTML attribute holding image sources")
	f.BoolVar(&flags.noFetchCache, "no-cache", false, "Always fetch remote inputs fresh")
	f.BoolVar(&flags.jsonOutput, "json", false, "Print the build result as JSON")
	f.BoolVar(&flags.skipPreflight, "skip-preflight", false, "Do not check the output path first")
	f.BoolVar(&flags.showProgress, "progress", false, "Print progress percentages to stderr")
	return cmd
}

// applyBuildFlags overrides config values with explicitly set flags.
func applyBuildFlags(cmd *cobra.Command, flags *buildFlags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("daisy3") {
		if flags.daisy3 {
			cfg.DAISY.Version = 3
		} else {
			cfg.DAISY.Version = 2
		}
	}
	if changed("warnings-are-errors") {
		cfg.DAISY.WarningsAreErrors = flags.strict
	}
	if changed("ignore-chapter-skips") {
		cfg.DAISY.IgnoreChapterSkips = flags.ignoreSkips
	}
	if v := strings.TrimSpace(flags.markerAttr); v != "" {
		cfg.DAISY.MarkerAttribute = v
	}
	if v := strings.TrimSpace(flags.pageAttr); v != "" {
		cfg.DAISY.PageAttribute = v
	}
	if v := strings.TrimSpace(flags.imageAttr); v != "" {
		cfg.DAISY.ImageAttribute = v
	}
	if changed("workers") {
		cfg.Transcode.Workers = flags.workers
	}
	if flags.noFetchCache {
		cfg.Fetch.CacheEnabled = false
	}
}

// parseBooks reads "Title:Sections" merge-mode specs.
func parseBooks(values []string) ([]section.Book, error) {
	var books []section.Book
	for _, value := range values {
		i := strings.LastIndex(value, ":")
		if i <= 0 {
			return nil, fmt.Errorf("book %q: expected TITLE:SECTIONS", value)
		}
		count, err := strconv.Atoi(strings.TrimSpace(value[i+1:]))
		if err != nil || count < 1 {
			return nil, fmt.Errorf("book %q: section count must be a positive integer", value)
		}
		books = append(books, section.Book{Title: strings.TrimSpace(value[:i]), Sections: count})
	}
	return books, nil
}
