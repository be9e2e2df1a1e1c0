package persistence

import "errors"

const (
	// MagicNumber identifies snapshot files (ASCII: "MSEG")
	MagicNumber = 0x4745534d
	// Version is the current file format version
	Version = 1

	// headerSize is the encoded size of FileHeader.
	headerSize = 40

	// maxStoredSize bounds the payload sizes accepted from an untrusted header.
	maxStoredSize = 1 << 30

	// maxLZ4Ratio is the largest expansion an LZ4 block can encode.
	maxLZ4Ratio = 255
)

var (
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrInvalidVersion     = errors.New("unsupported version")
	ErrInvalidCompression = errors.New("unsupported compression")
	ErrCorrupt            = errors.New("corrupt snapshot")
)

// FileHeader is the fixed header at the start of every snapshot.
type FileHeader struct {
	Magic       uint32 // 0x4745534d ("MSEG")
	Version     uint32 // File format version
	Compression uint8  // CompressionType of the payload
	Padding1    [3]byte
	Checksum    uint32 // CRC32 of the stored payload
	PayloadSize uint64 // Uncompressed payload size
	StoredSize  uint64 // Payload size on disk
	Reserved    [8]byte
}
