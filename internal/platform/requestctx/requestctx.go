// Package requestctx carries the per-request correlation id through
// context so layers below transport can tag their log records.
package requestctx

import "context"

type key struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, key{}, id)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(key{}).(string)
	return id
}
