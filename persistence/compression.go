package persistence

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType defines the compression algorithm used for the payload.
type CompressionType uint8

const (
	// CompressionNone indicates no compression.
	CompressionNone CompressionType = 0
	// CompressionLZ4 indicates LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD indicates ZSTD compression (better ratio).
	CompressionZSTD CompressionType = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

// ParseCompression maps a name produced by String back to its value.
func ParseCompression(s string) (CompressionType, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidCompression, s)
	}
}

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxStoredSize))
}

// compress returns the stored form of data and the compression actually used.
// Payloads that do not shrink are stored uncompressed.
func compress(data []byte, c CompressionType) ([]byte, CompressionType, error) {
	switch c {
	case CompressionNone:
		return data, CompressionNone, nil
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, 0, err
		}
		if n == 0 || n >= len(data) {
			return data, CompressionNone, nil
		}
		return dst[:n], CompressionLZ4, nil
	case CompressionZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, 0, err
		}
		out := enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
		if len(out) >= len(data) {
			return data, CompressionNone, nil
		}
		return out, CompressionZSTD, nil
	default:
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidCompression, c)
	}
}

// decompress restores a payload of the given uncompressed size.
func decompress(stored []byte, c CompressionType, size int) ([]byte, error) {
	switch c {
	case CompressionNone:
		if len(stored) != size {
			return nil, fmt.Errorf("%w: payload size %d, want %d", ErrCorrupt, len(stored), size)
		}
		return stored, nil
	case CompressionLZ4:
		if int64(size) > int64(len(stored))*maxLZ4Ratio {
			return nil, fmt.Errorf("%w: lz4 size %d exceeds block bound", ErrCorrupt, size)
		}
		dst := make([]byte, size)
		n, err := lz4.UncompressBlock(stored, dst)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", ErrCorrupt, err)
		}
		if n != size {
			return nil, fmt.Errorf("%w: lz4 size %d, want %d", ErrCorrupt, n, size)
		}
		return dst, nil
	case CompressionZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(stored, make([]byte, 0, min(size, 16*len(stored))))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrCorrupt, err)
		}
		if len(out) != size {
			return nil, fmt.Errorf("%w: zstd size %d, want %d", ErrCorrupt, len(out), size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidCompression, c)
	}
}
