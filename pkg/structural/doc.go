// Package structural provides a small JSON-like value tree used as the common
// representation for record diffing and merging.
//
// A [Value] is one of [Null], [Bool], [Number], [String], [Array] or [Object].
// Record types take part in diffing by implementing [Encoder] and [Decoder];
// the [Encode] and [Decode] helpers cover plain structs with json tags.
//
// Values are treated as immutable. Functions in this package never modify
// their inputs, and [Clone] produces an independent copy when a caller needs
// to hold on to a tree it does not own.
package structural
