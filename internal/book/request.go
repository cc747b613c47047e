package book

import "anemone/internal/section"

// Request describes one book.
type Request struct {
	// Inputs are paths, URLs or inline HTML/JSON, classified by Classify.
	Inputs []string

	Title     string
	Creator   string
	Publisher string
	Narrator  string
	// Date is YYYY-MM-DD; empty means today.
	Date string
	// Language overrides the configured publication language.
	Language string
	// UID is the dtb:uid; empty derives one from the title and inputs.
	UID string

	// ChapterTitles supplies synthesized heading text per section.
	ChapterTitles []string
	// Books splits the sections into sub-books for merge mode.
	Books []section.Book

	// Progress receives a percentage as phases complete.
	Progress func(percent int)
	// Info receives human-readable status lines.
	Info func(message string)
	// Warning receives each warning as it is recorded.
	Warning func(message string)
}

// Result summarizes a finished build.
type Result struct {
	Output   string   `json:"output"`
	BuildID  string   `json:"build_id"`
	UID      string   `json:"uid"`
	Sections int      `json:"sections"`
	Duration float64  `json:"duration_seconds"`
	Sectors  int64    `json:"sectors"`
	Warnings []string `json:"warnings"`
}

func (r *Request) progress(percent int) {
	if r.Progress != nil {
		r.Progress(percent)
	}
}

func (r *Request) info(message string) {
	if r.Info != nil {
		r.Info(message)
	}
}
