package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInput           = errors.New("input error")
	ErrTimestamp       = errors.New("timestamp error")
	ErrTranscode       = errors.New("transcode error")
	ErrFetch           = errors.New("fetch error")
	ErrNoTranscription = errors.New("no transcription")
	ErrConfiguration   = errors.New("configuration error")
	ErrExternalTool    = errors.New("external tool error")
	ErrWarningPromoted = errors.New("warning treated as error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrInput
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind maps an error to the short event type used in structured logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrWarningPromoted):
		return "warning_promoted"
	case errors.Is(err, ErrNoTranscription):
		return "no_transcription"
	case errors.Is(err, ErrTimestamp):
		return "invalid_timestamp"
	case errors.Is(err, ErrTranscode):
		return "transcode_failed"
	case errors.Is(err, ErrFetch):
		return "fetch_failed"
	case errors.Is(err, ErrConfiguration):
		return "configuration_invalid"
	case errors.Is(err, ErrExternalTool):
		return "external_tool_failed"
	case errors.Is(err, ErrInput):
		return "input_invalid"
	default:
		return "build_failed"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
