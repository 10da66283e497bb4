// Package redis wraps [github.com/redis/go-redis/v9] with environment
// driven configuration, startup retries, a readiness probe and a
// shutdown hook. The session package's RedisStore runs over a client
// opened here.
package redis
