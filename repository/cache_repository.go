package repository

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// CacheKey builds a cache key from a function name and its encoded inputs.
func CacheKey(function string, inputs []byte) string {
	return fmt.Sprintf("%s:%016x", function, xxhash.Sum64(inputs))
}
