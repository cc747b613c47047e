package services

import "context"

type contextKey string

const (
	buildIDKey   contextKey = "build_id"
	sectionKey   contextKey = "section"
	componentKey contextKey = "component"
)

// WithBuildID annotates context with the book build identifier.
func WithBuildID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, buildIDKey, id)
}

// BuildIDFromContext extracts the build identifier if present.
func BuildIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(buildIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSection annotates context with the 1-based section number.
func WithSection(ctx context.Context, section int) context.Context {
	if section <= 0 {
		return ctx
	}
	return context.WithValue(ctx, sectionKey, section)
}

// SectionFromContext returns the section number if present.
func SectionFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(sectionKey)
	switch val := v.(type) {
	case int:
		return val, val > 0
	case int64:
		return int(val), val > 0
	default:
		return 0, false
	}
}

// WithComponent annotates context with the active component name.
func WithComponent(ctx context.Context, component string) context.Context {
	if component == "" {
		return ctx
	}
	return context.WithValue(ctx, componentKey, component)
}

// ComponentFromContext returns the component name if present.
func ComponentFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(componentKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
