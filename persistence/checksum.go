package persistence

import (
	"fmt"
	"hash/crc32"
)

// CRC32 (IEEE) detects accidental corruption of stored payloads.
// It is NOT cryptographically secure.

// CalculateChecksum calculates CRC32 checksum of data.
func CalculateChecksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// ChecksumMismatchError is returned when checksum verification fails.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// Unwrap reports checksum mismatches as ErrCorrupt.
func (e *ChecksumMismatchError) Unwrap() error { return ErrCorrupt }

// verifyChecksum checks data against the expected CRC32.
func verifyChecksum(data []byte, expected uint32) error {
	if actual := CalculateChecksum(data); actual != expected {
		return &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}
