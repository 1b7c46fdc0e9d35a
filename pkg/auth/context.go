package auth

import "context"

type ctxKey struct{}

// WithEmail stores the verified caller email in ctx.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ctxKey{}, email)
}

// EmailFromCtx returns the verified caller email, if any.
func EmailFromCtx(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(ctxKey{}).(string)
	return email, ok && email != ""
}
