// Package codec implements the recursive, compositional type descriptors
// used to serialize and deserialize every value that appears on the
// Arakoon wire: fixed-width integers, length-prefixed byte strings,
// options, lists, fixed-arity products, and the statistics blob.
//
// Every descriptor is immutable and supports three operations: Validate
// (is this in-memory value acceptable?), Encode (produce its byte
// sequence), and NewDecoder (build a stepwise decoder that consumes
// bytes incrementally). Decoders never block on I/O themselves -- they
// report how many bytes they need next via Decoder.Needed and are fed
// exactly that many bytes via Decoder.Feed. This lets the same decoder
// drive both a synchronous, blocking dispatcher and an event-driven one.
package codec
