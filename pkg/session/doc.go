// Package session defines the session row, its expiry rule, and the Store
// persistence contract, with in-memory, PostgreSQL and Redis
// implementations. Lifecycle policy (resume, extend, expire, single-session
// enforcement) lives in the engine's session manager; this package only
// models the data.
package session
