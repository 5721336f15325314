package logging

import (
	"context"
	"log/slog"

	"iconforge/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldItem is the standardized structured logging key for item names.
	FieldItem = "item"
	// FieldItemKind is the standardized structured logging key for item kinds.
	FieldItemKind = "kind"
	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldEventType is the standardized structured logging key for machine-readable event markers.
	FieldEventType = "event_type"
	// FieldErrorHint is the standardized structured logging key for operator guidance on failures.
	FieldErrorHint = "error_hint"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if name, ok := services.ItemFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldItem, name))
	}
	if kind, ok := services.ItemKindFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldItemKind, kind))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
