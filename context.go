package authcore

import "context"

type clientIPContextKey struct{}

// WithClientIP attaches the caller's origin address to ctx. The Engine
// uses it as the key for login rate limiting; without it, Login skips the
// limiter entirely.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}
