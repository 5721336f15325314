package services

import "context"

type contextKey string

const (
	itemKey      contextKey = "item"
	itemKindKey  contextKey = "item_kind"
	stageKey     contextKey = "stage"
	requestIDKey contextKey = "request_id"
)

// WithItem annotates context with the pipeline item name.
func WithItem(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, itemKey, name)
}

// ItemFromContext extracts the pipeline item name if present.
func ItemFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(itemKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithItemKind annotates context with the item kind (process or website).
func WithItemKind(ctx context.Context, kind string) context.Context {
	if kind == "" {
		return ctx
	}
	return context.WithValue(ctx, itemKindKey, kind)
}

// ItemKindFromContext returns the item kind if present.
func ItemKindFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(itemKindKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
