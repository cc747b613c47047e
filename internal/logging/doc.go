// Package logging builds the slog loggers used by the book builder.
//
// Console output prefixes each line with the component and section it came
// from; the JSON format suits log collectors. WithContext tags a logger with
// the build ID and section carried by a context.
package logging
