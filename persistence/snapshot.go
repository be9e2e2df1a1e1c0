package persistence

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/meanshift/internal/bitmap"
	"github.com/hupe1980/meanshift/model"
)

var byteOrder = binary.LittleEndian

// Snapshot is a persisted segmentation result.
type Snapshot struct {
	// Points is the number of segmented points.
	Points                int
	Radius                float32
	ModeDistanceThreshold float32
	ChangeTolerance       float32
	// CentroidUpdate is the merge policy, stored as its numeric value.
	CentroidUpdate uint8
	// Maxima maps centroids back to original units. Its length is the dimension.
	Maxima   model.Maxima
	Segments model.SegmentCollection
}

// Dim returns the feature space dimension.
func (s *Snapshot) Dim() int { return len(s.Maxima) }

func (s *Snapshot) validate() error {
	dim := s.Dim()
	if dim == 0 {
		return &model.ErrInvalidDimension{Dimension: dim}
	}
	for i, seg := range s.Segments {
		if len(seg.Mode) != dim {
			return &model.ErrDimensionMismatch{Index: i, Expected: dim, Actual: len(seg.Mode)}
		}
		for _, idx := range seg.Indices {
			if idx < 0 || uint64(idx) > math.MaxUint32 {
				return fmt.Errorf("persistence: segment %d: index %d not representable", i, idx)
			}
		}
	}
	return nil
}

// payloadHeader precedes maxima and segments inside the payload.
type payloadHeader struct {
	Dim                   uint32
	SegmentCount          uint32
	Points                uint64
	Radius                float32
	ModeDistanceThreshold float32
	ChangeTolerance       float32
	CentroidUpdate        uint8
	Padding               [3]byte
}

// Marshal encodes the snapshot.
func Marshal(s *Snapshot, c CompressionType) ([]byte, error) {
	var buf bytes.Buffer
	if err := Save(&buf, s, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a snapshot produced by Marshal or Save.
func Unmarshal(data []byte) (*Snapshot, error) {
	return Load(bytes.NewReader(data))
}

// Save writes the snapshot to w.
func Save(w io.Writer, s *Snapshot, c CompressionType) error {
	if err := s.validate(); err != nil {
		return err
	}

	payload, err := encodePayload(s)
	if err != nil {
		return err
	}

	stored, used, err := compress(payload, c)
	if err != nil {
		return fmt.Errorf("persistence: compress: %w", err)
	}

	header := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: uint8(used),
		Checksum:    CalculateChecksum(stored),
		PayloadSize: uint64(len(payload)),
		StoredSize:  uint64(len(stored)),
	}
	if err := binary.Write(w, byteOrder, &header); err != nil {
		return err
	}
	_, err = w.Write(stored)
	return err
}

// Load reads a snapshot from r.
func Load(r io.Reader) (*Snapshot, error) {
	var header FileHeader
	if err := binary.Read(r, byteOrder, &header); err != nil {
		return nil, fmt.Errorf("persistence: read header: %w", err)
	}
	if header.Magic != MagicNumber {
		return nil, ErrInvalidMagic
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, header.Version)
	}
	if header.StoredSize > maxStoredSize || header.PayloadSize > maxStoredSize {
		return nil, fmt.Errorf("%w: payload too large", ErrCorrupt)
	}

	// The buffer grows with the bytes actually present, not with the header's claim.
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, int64(header.StoredSize)); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("persistence: read payload: %w", err)
	}
	stored := buf.Bytes()
	if err := verifyChecksum(stored, header.Checksum); err != nil {
		return nil, err
	}

	payload, err := decompress(stored, CompressionType(header.Compression), int(header.PayloadSize))
	if err != nil {
		return nil, err
	}
	return decodePayload(payload)
}

func encodePayload(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	ph := payloadHeader{
		Dim:                   uint32(s.Dim()),
		SegmentCount:          uint32(len(s.Segments)),
		Points:                uint64(s.Points),
		Radius:                s.Radius,
		ModeDistanceThreshold: s.ModeDistanceThreshold,
		ChangeTolerance:       s.ChangeTolerance,
		CentroidUpdate:        s.CentroidUpdate,
	}
	if err := binary.Write(&buf, byteOrder, &ph); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, byteOrder, []float32(s.Maxima)); err != nil {
		return nil, err
	}

	for _, seg := range s.Segments {
		if err := binary.Write(&buf, byteOrder, []float32(seg.Mode)); err != nil {
			return nil, err
		}
		members, err := bitmap.FromIndices(seg.Indices).MarshalBinary()
		if err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, byteOrder, uint32(len(members))); err != nil {
			return nil, err
		}
		buf.Write(members)
	}

	return buf.Bytes(), nil
}

func decodePayload(payload []byte) (*Snapshot, error) {
	r := bytes.NewReader(payload)

	var ph payloadHeader
	if err := binary.Read(r, byteOrder, &ph); err != nil {
		return nil, fmt.Errorf("%w: payload header: %w", ErrCorrupt, err)
	}
	dim := int(ph.Dim)
	if dim == 0 || dim*4 > r.Len() {
		return nil, fmt.Errorf("%w: dimension %d", ErrCorrupt, dim)
	}

	s := &Snapshot{
		Points:                int(ph.Points),
		Radius:                ph.Radius,
		ModeDistanceThreshold: ph.ModeDistanceThreshold,
		ChangeTolerance:       ph.ChangeTolerance,
		CentroidUpdate:        ph.CentroidUpdate,
		Maxima:                make(model.Maxima, dim),
	}
	if err := binary.Read(r, byteOrder, []float32(s.Maxima)); err != nil {
		return nil, fmt.Errorf("%w: maxima: %w", ErrCorrupt, err)
	}

	// Every segment needs at least its centroid and member length.
	if int(ph.SegmentCount) > r.Len()/(dim*4+4) {
		return nil, fmt.Errorf("%w: segment count %d", ErrCorrupt, ph.SegmentCount)
	}
	s.Segments = make(model.SegmentCollection, ph.SegmentCount)

	for i := range s.Segments {
		mode := make(model.Point, dim)
		if err := binary.Read(r, byteOrder, []float32(mode)); err != nil {
			return nil, fmt.Errorf("%w: segment %d centroid: %w", ErrCorrupt, i, err)
		}

		var n uint32
		if err := binary.Read(r, byteOrder, &n); err != nil {
			return nil, fmt.Errorf("%w: segment %d members: %w", ErrCorrupt, i, err)
		}
		if int64(n) > int64(r.Len()) {
			return nil, fmt.Errorf("%w: segment %d members truncated", ErrCorrupt, i)
		}
		raw := make([]byte, n)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("%w: segment %d members: %w", ErrCorrupt, i, err)
		}

		var members bitmap.Membership
		if err := members.UnmarshalBinary(raw); err != nil {
			return nil, fmt.Errorf("%w: segment %d: %w", ErrCorrupt, i, err)
		}
		s.Segments[i] = model.Segment{Mode: mode, Indices: members.Indices()}
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, r.Len())
	}
	return s, nil
}
