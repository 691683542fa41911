package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the subset of redis we code against; it is the full universal
// client so miniredis-backed and real clients are interchangeable.
type Client interface {
	redis.UniversalClient
}
