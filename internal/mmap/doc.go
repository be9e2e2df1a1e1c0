// Package mmap provides read-only memory-mapped file access.
//
// Snapshots and rendered images are read back through a mapping so a
// local blob can serve ReadAt without an extra copy through kernel buffers.
//
// # Usage
//
//	m, err := mmap.Open("segments.mseg")
//	if err != nil { ... }
//	defer m.Close()
//
//	m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile (madvise is a no-op)
//
// Close is idempotent. Callers must not touch Bytes() after Close returns.
package mmap
