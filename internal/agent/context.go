package agent

import (
	"context"
)

type (
	traceIDKey  struct{}
	threadIDKey struct{}
)

// WithTraceID 将 TraceID 注入 context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// GetTraceID 从 context 获取 TraceID
func GetTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithThreadID 将会话线程 ID 注入 context
func WithThreadID(ctx context.Context, threadID string) context.Context {
	return context.WithValue(ctx, threadIDKey{}, threadID)
}

// GetThreadID 从 context 获取会话线程 ID
func GetThreadID(ctx context.Context) string {
	if v, ok := ctx.Value(threadIDKey{}).(string); ok {
		return v
	}
	return ""
}
