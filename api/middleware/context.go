package middleware

import "context"

type contextKey string

const (
	ctxUserID     contextKey = "user_id"
	ctxResellerID contextKey = "reseller_id"
	ctxStoreName  contextKey = "store_name"
)

// UserIDFromContext returns the authenticated user id, or zero.
func UserIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxUserID).(int64); ok {
		return v
	}
	return 0
}

// ResellerIDFromContext returns the reseller account resolved for the
// request, or zero when ResellerContext did not run.
func ResellerIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxResellerID).(int64); ok {
		return v
	}
	return 0
}

func StoreNameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxStoreName).(string); ok {
		return v
	}
	return ""
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithResellerID injects the reseller identifier into the context for downstream handlers.
func WithResellerID(ctx context.Context, resellerID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxResellerID, resellerID)
}
