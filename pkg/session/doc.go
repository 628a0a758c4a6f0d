// Package session provides per-session concurrency control over a
// SessionStore. Each session id gets its own reference-counted mutex,
// optionally paired with a distributed lock for multi-replica setups.
package session
