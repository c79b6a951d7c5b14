// Package batch drives multi-item operations to a complete, per-item outcome.
//
// Run issues a single bulk request and matches the replies to the requested
// keys by position. RunEach covers operations the service only offers one
// key at a time. Both produce an Outcome holding exactly one Item per key,
// in request order, so SuccessCount+ErrorCount always equals the number of
// keys.
//
// Failures of the batch as a whole are *Error values: Transport when the
// request failed, Structural when the reply count differs from the request.
// Neither is ever reported as an Outcome with zero counts.
package batch
