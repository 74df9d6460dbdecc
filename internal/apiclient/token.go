package apiclient

import "context"

type tokenKey struct{}

// WithToken returns a context whose API calls carry the given bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the bearer token stored in ctx, if any.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
