// Package client owns BL/T transport and the typed operations on top of it.
//
// Ownership boundary:
// - one-shot request/response exchanges (fresh connection per call)
// - long-lived subscription sessions and their pull-based event streams
// - operation entry points: Version, Read, Write, Info, ReadFold, Subscribe
//
// The Client is safe for concurrent callers because every exchange owns its
// connection. A Session (and the Subscription over it) is single-consumer.
package client
