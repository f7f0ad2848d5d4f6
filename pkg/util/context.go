package util

import (
	"context"
)

type key string

const (
	runIDKey    = key("run-id")
	eventIDKey  = key("event-id")
	inputKey    = key("input-path")
	rowIndexKey = key("row-index")
)

// Fields returns a map of the key-value pairs that this library has set into `context`.
func Fields(ctx context.Context) map[string]interface{} {
	mapFields := make(map[string]interface{})
	mapFields["run_id"] = GetRunID(ctx)
	if input := GetInputPath(ctx); input != "" {
		mapFields["input_path"] = input
	}
	if row, ok := GetRowIndex(ctx); ok {
		mapFields["row_index"] = row
	}

	return mapFields
}

// WithEventID returns a context with event id
func WithEventID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, eventIDKey, id)
}

// WithInputPath returns a context carrying the path of the feed being replayed.
func WithInputPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, inputKey, path)
}

// WithRowIndex returns a context carrying the 1-based input row currently processed.
func WithRowIndex(ctx context.Context, row int64) context.Context {
	return context.WithValue(ctx, rowIndexKey, row)
}

// GetEventID returns event id from context
// will return empty string if not present
func GetEventID(ctx context.Context) string {
	id, _ := ctx.Value(eventIDKey).(string)
	return id
}

// GetInputPath returns the input path from context
func GetInputPath(ctx context.Context) string {
	path, _ := ctx.Value(inputKey).(string)
	return path
}

// GetRowIndex returns the row index from context and whether it was set.
func GetRowIndex(ctx context.Context) (int64, bool) {
	row, ok := ctx.Value(rowIndexKey).(int64)
	return row, ok
}
