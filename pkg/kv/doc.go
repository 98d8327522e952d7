// Package kv abstracts the durable key-value store used for session tokens
// and short-lived checkout handoff data.
//
// The contract is deliberately tiny - Get, Set, Delete - because that is all
// the entitlement layer needs from its storage collaborator. Get returns nil
// with no error for a missing key, mirroring how go-redis treats redis.Nil.
//
// Two implementations ship with the package: Memory for tests and
// single-process use, and Redis for shared durable storage.
package kv
