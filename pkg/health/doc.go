// Package health provides liveness and readiness probe handlers with
// named, concurrently executed dependency checks.
package health
