// internal/cache/cache.go
package cache

import "context"

// VerdictCache stores serialized verdict responses keyed by request hash.
// The engine is a pure function of its inputs, so cached responses never go
// stale in the correctness sense; the TTL only bounds memory.
type VerdictCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
}

// Noop satisfies VerdictCache while caching nothing. Used when no redis
// address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Noop) Set(context.Context, string, []byte) error  { return nil }
