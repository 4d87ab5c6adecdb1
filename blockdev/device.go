// Package blockdev implements the fixed-size block read/write adapter that
// every higher layer of blockfs is built on: a block device backed by a
// regular image file or raw device, addressed purely by block index.
package blockdev

import (
	"fmt"
	"io"

	"github.com/hedlund/blockfs/backend"
)

// BlockSize is the fixed size, in bytes, of every block on the image.
const BlockSize = 4096

// BlockCount is the total number of blocks on the image, chosen so that
// block 1 holds exactly BlockCount 16-bit FAT entries.
const BlockCount = 2048

// ImageSize is the exact size, in bytes, a conforming image file must have.
const ImageSize = BlockSize * BlockCount

// Block is the fixed-size unit of I/O.
type Block [BlockSize]byte

// Device reads and writes fixed-size blocks against a backend.Storage.
// Failures are fatal: callers propagate them as I/O errors, never retry.
type Device struct {
	storage backend.Storage
}

// New wraps storage as a Device. storage is assumed to already be exactly
// ImageSize bytes; callers are responsible for creating it at that size.
func New(storage backend.Storage) *Device {
	return &Device{storage: storage}
}

func (d *Device) offset(block uint16) (int64, error) {
	if int(block) >= BlockCount {
		return 0, fmt.Errorf("block index %d out of range [0,%d)", block, BlockCount)
	}
	return int64(block) * BlockSize, nil
}

// ReadBlock reads exactly BlockSize bytes starting at block*BlockSize.
func (d *Device) ReadBlock(block uint16) (Block, error) {
	var buf Block
	off, err := d.offset(block)
	if err != nil {
		return buf, err
	}
	if _, err := io.ReadFull(newSectionReader(d.storage, off), buf[:]); err != nil {
		return buf, fmt.Errorf("reading block %d: %w", block, err)
	}
	return buf, nil
}

// WriteBlock writes exactly BlockSize bytes starting at block*BlockSize.
// The write is synchronous: by the time WriteBlock returns, the bytes are
// durable from the Device's point of view (the underlying backend is
// responsible for its own flush semantics).
func (d *Device) WriteBlock(block uint16, buf Block) error {
	off, err := d.offset(block)
	if err != nil {
		return err
	}
	w, err := d.storage.Writable()
	if err != nil {
		return fmt.Errorf("writing block %d: %w", block, err)
	}
	if _, err := w.WriteAt(buf[:], off); err != nil {
		return fmt.Errorf("writing block %d: %w", block, err)
	}
	return nil
}

func newSectionReader(r io.ReaderAt, off int64) io.Reader {
	return io.NewSectionReader(r, off, BlockSize)
}
