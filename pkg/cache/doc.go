// Package cache provides a small generic TTL cache. GetOrLoad combines
// lookup and computation behind singleflight, which is how the routing
// package keeps module route tables from being re-read and re-compiled
// on every request.
package cache
