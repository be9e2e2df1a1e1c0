package persistence

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/hupe1980/meanshift/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(points int) *Snapshot {
	// Two segments: even and odd indices, plus a small tail segment.
	var even, odd []int
	for i := 0; i < points-3; i++ {
		if i%2 == 0 {
			even = append(even, i)
		} else {
			odd = append(odd, i)
		}
	}
	return &Snapshot{
		Points:                points,
		Radius:                0.1,
		ModeDistanceThreshold: 0.05,
		ChangeTolerance:       0.0002,
		CentroidUpdate:        1,
		Maxima:                model.Maxima{255, 200, 180, 99, 149},
		Segments: model.SegmentCollection{
			{Mode: model.Point{0.1, 0.2, 0.3, 0.4, 0.5}, Indices: even},
			{Mode: model.Point{0.9, 0.8, 0.7, 0.6, 0.5}, Indices: odd},
			{Mode: model.Point{0, 0, 0, 1, 1}, Indices: []int{points - 3, points - 2, points - 1}},
		},
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	for _, c := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			want := testSnapshot(10000)

			var buf bytes.Buffer
			require.NoError(t, Save(&buf, want, c))

			got, err := Load(&buf)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, 5, got.Dim())
		})
	}
}

func TestSnapshot_CompressionShrinks(t *testing.T) {
	s := testSnapshot(50000)

	plain, err := Marshal(s, CompressionNone)
	require.NoError(t, err)
	packed, err := Marshal(s, CompressionZSTD)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(packed), len(plain))

	got, err := Unmarshal(packed)
	require.NoError(t, err)
	assert.Equal(t, s.Segments, got.Segments)
}

func TestSnapshot_IncompressibleFallsBack(t *testing.T) {
	s := &Snapshot{Points: 1, Maxima: model.Maxima{1}, Segments: model.SegmentCollection{{Mode: model.Point{1}, Indices: []int{0}}}}

	data, err := Marshal(s, CompressionLZ4)
	require.NoError(t, err)

	var header FileHeader
	require.NoError(t, binary.Read(bytes.NewReader(data), byteOrder, &header))
	assert.Equal(t, uint8(CompressionNone), header.Compression)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestSnapshot_HeaderSize(t *testing.T) {
	assert.Equal(t, headerSize, binary.Size(FileHeader{}))
}

func TestSnapshot_Corruption(t *testing.T) {
	data, err := Marshal(testSnapshot(100), CompressionNone)
	require.NoError(t, err)

	t.Run("Magic", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[0] ^= 0xff
		_, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("Version", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[4] = 9
		_, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrInvalidVersion)
	})

	t.Run("Payload", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[len(bad)-1] ^= 0xff
		_, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrCorrupt)
		var cm *ChecksumMismatchError
		assert.ErrorAs(t, err, &cm)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := Unmarshal(data[:len(data)-5])
		assert.Error(t, err)
	})

	t.Run("Compression", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[8] = 77
		_, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrInvalidCompression)
	})
}

// forgedHeader returns a header claiming storedSize bytes followed by stored.
func forgedHeader(t *testing.T, c CompressionType, storedSize, payloadSize uint64, stored []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, byteOrder, &FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: uint8(c),
		Checksum:    CalculateChecksum(stored),
		PayloadSize: payloadSize,
		StoredSize:  storedSize,
	}))
	buf.Write(stored)
	return buf.Bytes()
}

// allocatedBy returns the bytes allocated while fn runs.
func allocatedBy(fn func()) uint64 {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	fn()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}

func TestSnapshot_OversizedHeader(t *testing.T) {
	const claimed = 1 << 29
	stored := []byte("sixteen-bytes..!")

	t.Run("AboveLimit", func(t *testing.T) {
		_, err := Unmarshal(forgedHeader(t, CompressionNone, 1<<33, 1<<33, stored))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("ShortStoredPayload", func(t *testing.T) {
		data := forgedHeader(t, CompressionNone, claimed, claimed, stored)
		var err error
		n := allocatedBy(func() { _, err = Unmarshal(data) })
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Less(t, n, uint64(1<<20))
	})

	t.Run("LZ4ExpansionBeyondBlockBound", func(t *testing.T) {
		data := forgedHeader(t, CompressionLZ4, uint64(len(stored)), claimed, stored)
		var err error
		n := allocatedBy(func() { _, err = Unmarshal(data) })
		assert.ErrorIs(t, err, ErrCorrupt)
		assert.Less(t, n, uint64(1<<20))
	})

	t.Run("ZSTDGarbage", func(t *testing.T) {
		_, err := Unmarshal(forgedHeader(t, CompressionZSTD, uint64(len(stored)), claimed, stored))
		assert.ErrorIs(t, err, ErrCorrupt)
	})
}

func TestSnapshot_Invalid(t *testing.T) {
	var buf bytes.Buffer

	err := Save(&buf, &Snapshot{}, CompressionNone)
	var id *model.ErrInvalidDimension
	assert.ErrorAs(t, err, &id)

	err = Save(&buf, &Snapshot{
		Maxima:   model.Maxima{1, 1},
		Segments: model.SegmentCollection{{Mode: model.Point{1}, Indices: []int{0}}},
	}, CompressionNone)
	var dm *model.ErrDimensionMismatch
	assert.ErrorAs(t, err, &dm)

	err = Save(&buf, testSnapshot(10), CompressionType(42))
	assert.ErrorIs(t, err, ErrInvalidCompression)
}

func TestParseCompression(t *testing.T) {
	for _, c := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrInvalidCompression)
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.mseg")
	want := testSnapshot(500)

	require.NoError(t, SaveToFile(path, want, CompressionZSTD))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
