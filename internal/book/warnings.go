package book

import (
	"fmt"
	"log/slog"
	"sync"

	"anemone/internal/logging"
	"anemone/internal/services"
)

// Warnings collects the non-fatal problems of one build. In strict mode
// the first warning is returned as an error instead of being recorded.
type Warnings struct {
	mu     sync.Mutex
	list   []string
	strict bool
	sink   func(string)
	logger *slog.Logger
}

// NewWarnings returns an empty collector. sink, when set, receives each
// warning as it is recorded.
func NewWarnings(strict bool, sink func(string), logger *slog.Logger) *Warnings {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Warnings{strict: strict, sink: sink, logger: logger}
}

// Add records message, or fails with services.ErrWarningPromoted in strict
// mode.
func (w *Warnings) Add(message string) error {
	if w.strict {
		return fmt.Errorf("%w: %s", services.ErrWarningPromoted, message)
	}
	w.mu.Lock()
	w.list = append(w.list, message)
	w.mu.Unlock()
	logging.WarnWithContext(w.logger, message, "build_warning",
		logging.String(logging.FieldErrorHint, "review the input files"),
		logging.String(logging.FieldImpact, "book is still produced"),
	)
	if w.sink != nil {
		w.sink(message)
	}
	return nil
}

// List returns the recorded warnings in order.
func (w *Warnings) List() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.list...)
}
