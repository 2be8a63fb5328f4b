// Package diff computes minimal field-level deltas between two structural
// records and merges deltas back into a base record.
//
// A delta only carries keys of the new record whose values differ from the
// old one; nested objects are reduced the same way. Keys the new record
// lacks are never represented, so a delta is a partial update and not a
// full replacement. Merging a delta into the record it was computed from
// yields the new record for every key the new record has.
//
// It also flattens deltas into a sorted list of [Change] values for display,
// deduplicating overlapping field names when change lists are combined.
package diff
