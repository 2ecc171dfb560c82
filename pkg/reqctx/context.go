// Package reqctx carries request-scoped metadata through context. The HTTP
// middleware sets it once per request; everything downstream reads it
// through the typed accessors so log lines can be correlated back to the
// request and the operator console that issued it.
package reqctx

import (
	"context"
	"time"
)

type ctxKey int

const keyMeta ctxKey = iota

// Meta is the per-request metadata captured by the request-id middleware.
type Meta struct {
	// RequestID is a UUID v4, either propagated from the client's
	// X-Request-Id header or generated server-side.
	RequestID string

	// OperatorID is the console operator the request acts for, from the
	// X-Operator-Id header. Empty for system endpoints.
	OperatorID string

	ClientIP    string
	RequestedAt time.Time
}

// WithMeta stores request metadata in the context.
func WithMeta(ctx context.Context, meta *Meta) context.Context {
	return context.WithValue(ctx, keyMeta, meta)
}

// FromContext retrieves request metadata, or nil, false when unset.
func FromContext(ctx context.Context) (*Meta, bool) {
	meta, ok := ctx.Value(keyMeta).(*Meta)
	return meta, ok && meta != nil
}

// RequestID returns the request id from context metadata, or "".
func RequestID(ctx context.Context) string {
	meta, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return meta.RequestID
}
