// Package bitmap provides compressed point-index sets backed by Roaring
// bitmaps.
//
// Segments list their members as ascending indices. For large images those
// lists are long runs of nearby integers, which Roaring stores compactly; the
// persistence layer writes segment members through Membership, and the
// engine uses Coverage to check that every point landed in exactly one
// segment.
package bitmap
