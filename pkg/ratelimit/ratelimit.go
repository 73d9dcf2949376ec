// Package ratelimit provides fixed-window request budgets per client
// identifier. Each identifier's window starts with its first request and
// resets independently of the others.
package ratelimit

import "context"

type Limiter interface {
	Allow(ctx context.Context, identifier string) (bool, error)
}
