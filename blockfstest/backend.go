// Package blockfstest provides in-memory and fault-injecting
// backend.Storage implementations for exercising blockfs without touching
// a real file.
package blockfstest

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/hedlund/blockfs/backend"
)

// MemStorage is a backend.Storage backed entirely by an in-memory buffer.
type MemStorage struct {
	buf []byte
	pos int64
}

// NewMemStorage returns a zero-filled in-memory image of the given size.
func NewMemStorage(size int) *MemStorage {
	return &MemStorage{buf: make([]byte, size)}
}

var _ backend.Storage = (*MemStorage)(nil)

func (m *MemStorage) Sys() (*os.File, error) { return nil, backend.ErrNotSuitable }

func (m *MemStorage) Writable() (backend.WritableFile, error) { return m, nil }

func (m *MemStorage) Stat() (fs.FileInfo, error) { return nil, backend.ErrNotSuitable }

func (m *MemStorage) Close() error { return nil }

func (m *MemStorage) Read(p []byte) (int, error) {
	n, err := m.ReadAt(p, m.pos)
	m.pos += int64(n)
	return n, err
}

func (m *MemStorage) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *MemStorage) WriteAt(p []byte, off int64) (int, error) {
	end := off + int64(len(p))
	if end > int64(len(m.buf)) {
		return 0, errors.New("write exceeds image size")
	}
	return copy(m.buf[off:end], p), nil
}

func (m *MemStorage) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.pos = offset
	case io.SeekCurrent:
		m.pos += offset
	case io.SeekEnd:
		m.pos = int64(len(m.buf)) + offset
	}
	return m.pos, nil
}

// FaultInjector wraps a backend.Storage, returning an error from ReadAt or
// WriteAt whenever the touched block matches one in FailBlocks, so tests
// can exercise the "I/O errors are fatal" contract without corrupting a
// real disk.
type FaultInjector struct {
	backend.Storage
	BlockSize  int
	FailBlocks map[int]error
}

func (f *FaultInjector) blockOf(off int64) int {
	if f.BlockSize == 0 {
		return -1
	}
	return int(off) / f.BlockSize
}

func (f *FaultInjector) ReadAt(p []byte, off int64) (int, error) {
	if err, ok := f.FailBlocks[f.blockOf(off)]; ok {
		return 0, err
	}
	return f.Storage.ReadAt(p, off)
}

func (f *FaultInjector) Writable() (backend.WritableFile, error) {
	w, err := f.Storage.Writable()
	if err != nil {
		return nil, err
	}
	return &faultyWriter{WritableFile: w, inject: f}, nil
}

type faultyWriter struct {
	backend.WritableFile
	inject *FaultInjector
}

func (w *faultyWriter) WriteAt(p []byte, off int64) (int, error) {
	if err, ok := w.inject.FailBlocks[w.inject.blockOf(off)]; ok {
		return 0, err
	}
	return w.WritableFile.WriteAt(p, off)
}
