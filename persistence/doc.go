// Package persistence stores segmentation results in a compact binary
// snapshot.
//
// A snapshot is a fixed 40-byte little-endian header followed by one payload
// block:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│ FileHeader: magic "MSEG", version, compression, sizes, CRC32 │
//	├─────────────────────────────────────────────────────────────┤
//	│ payload (optionally LZ4 or ZSTD compressed)                  │
//	│   dims, segment count, point count, parameters               │
//	│   maxima [dims]float32                                       │
//	│   per segment: centroid [dims]float32, members (Roaring)     │
//	└─────────────────────────────────────────────────────────────┘
//
// The CRC32 covers the stored (possibly compressed) payload bytes, so
// corruption is detected before decompression.
package persistence
