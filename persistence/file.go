package persistence

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"

	"github.com/hupe1980/meanshift/internal/mmap"
)

// SaveToFile atomically writes the snapshot to filename.
func SaveToFile(filename string, s *Snapshot, c CompressionType) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	// Write to a temp file in the same directory to ensure rename is atomic.
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	// Match typical file permissions (best-effort).
	_ = tmp.Chmod(0644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := Save(buf, s, c); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

// LoadFile reads a snapshot from filename through a read-only memory mapping.
func LoadFile(filename string) (*Snapshot, error) {
	m, err := mmap.Open(filename)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	_ = m.Advise(mmap.AccessSequential)
	return Load(bytes.NewReader(m.Bytes()))
}
