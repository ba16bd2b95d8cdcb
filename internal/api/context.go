package api

import (
	"context"

	"carservice/internal/user"
)

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

func WithIdentity(ctx context.Context, id *user.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

func IdentityFromContext(ctx context.Context) *user.Identity {
	v := ctx.Value(ctxKeyIdentity)
	if v == nil {
		return nil
	}
	id, _ := v.(*user.Identity)
	return id
}
