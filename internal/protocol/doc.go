// Package protocol owns the BL/T wire contract and parsing primitives.
//
// Ownership boundary:
// - value token encode/decode
// - ref resolution and fold ref construction
// - response line classification
package protocol
