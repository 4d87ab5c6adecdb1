// Package dirent implements the directory block codec: encoding and
// decoding a 4096-byte directory block as 64 fixed 64-byte entries, and the
// bookkeeping around the reserved ".." slot 0.
package dirent

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hedlund/blockfs/blockdev"
)

// Entry type tags.
const (
	TypeFile  = 0
	TypeDir   = 1
	TypeEmpty = 2
)

// Access bits.
const (
	Read    = 0x04
	Write   = 0x02
	Execute = 0x01
)

const (
	// EntrySize is the fixed, packed size of one directory entry.
	EntrySize = 64
	// EntriesPerBlock is the number of entries in one directory block.
	EntriesPerBlock = blockdev.BlockSize / EntrySize
	// MaxNameLen is the maximum number of significant bytes in a name.
	MaxNameLen = 55

	nameOffset   = 0
	nameLen      = 56
	sizeOffset   = 56
	blockOffset  = 60
	typeOffset   = 62
	accessOffset = 63
)

// ErrNameTooLong is returned when a leaf name is 56 bytes or longer.
var ErrNameTooLong = errors.New("name too long")

// ErrDirectoryFull is returned when a directory block has no empty slot.
var ErrDirectoryFull = errors.New("directory full")

// Entry is one 64-byte directory entry.
type Entry struct {
	Name     string
	Size     uint32
	FirstBlk uint16
	Type     uint8
	Access   uint8
}

// Block is a decoded directory block: exactly EntriesPerBlock entries.
type Block [EntriesPerBlock]Entry

// Empty reports whether the entry is an unused slot.
func (e Entry) Empty() bool { return e.Type == TypeEmpty }

// Decode parses a raw 4096-byte directory block.
func Decode(raw blockdev.Block) Block {
	var b Block
	for i := 0; i < EntriesPerBlock; i++ {
		off := i * EntrySize
		b[i] = decodeEntry(raw[off : off+EntrySize])
	}
	return b
}

func decodeEntry(raw []byte) Entry {
	nameBytes := raw[nameOffset : nameOffset+nameLen]
	n := 0
	for n < len(nameBytes) && nameBytes[n] != 0 {
		n++
	}
	return Entry{
		Name:     string(nameBytes[:n]),
		Size:     binary.LittleEndian.Uint32(raw[sizeOffset : sizeOffset+4]),
		FirstBlk: binary.LittleEndian.Uint16(raw[blockOffset : blockOffset+2]),
		Type:     raw[typeOffset],
		Access:   raw[accessOffset],
	}
}

// Encode serializes a directory block back to its on-disk 4096-byte form.
func (b Block) Encode() (blockdev.Block, error) {
	var raw blockdev.Block
	for i, e := range b {
		enc, err := e.encode()
		if err != nil {
			return raw, fmt.Errorf("entry %d: %w", i, err)
		}
		copy(raw[i*EntrySize:(i+1)*EntrySize], enc)
	}
	return raw, nil
}

func (e Entry) encode() ([]byte, error) {
	if len(e.Name) > MaxNameLen {
		return nil, ErrNameTooLong
	}
	buf := make([]byte, EntrySize)
	copy(buf[nameOffset:nameOffset+nameLen], e.Name)
	binary.LittleEndian.PutUint32(buf[sizeOffset:sizeOffset+4], e.Size)
	binary.LittleEndian.PutUint16(buf[blockOffset:blockOffset+2], e.FirstBlk)
	buf[typeOffset] = e.Type
	buf[accessOffset] = e.Access
	return buf, nil
}

// Insert writes entry into the lowest-index slot k>=1 whose type is empty.
// Slot 0 is reserved for "..".
func (b *Block) Insert(entry Entry) (int, error) {
	for k := 1; k < EntriesPerBlock; k++ {
		if b[k].Empty() {
			b[k] = entry
			return k, nil
		}
	}
	return -1, ErrDirectoryFull
}

// Find does a byte-for-byte linear scan over all slots (including 0) for a
// non-empty entry whose name matches.
func (b *Block) Find(name string) (int, Entry, bool) {
	for i, e := range b {
		if !e.Empty() && e.Name == name {
			return i, e, true
		}
	}
	return -1, Entry{}, false
}

// MarkEmpty sets the given slot's type to empty.
func (b *Block) MarkEmpty(index int) {
	b[index] = Entry{Type: TypeEmpty}
}

// IsEmptyDir reports whether every slot k>=1 is empty (slot 0 holds ".."
// and is ignored).
func (b *Block) IsEmptyDir() bool {
	for k := 1; k < EntriesPerBlock; k++ {
		if !b[k].Empty() {
			return false
		}
	}
	return true
}

// NewRoot returns the root directory block: entry 0 is the self-referential
// "/" entry, all others empty.
func NewRoot() Block {
	var b Block
	b[0] = Entry{Name: "/", Type: TypeDir, FirstBlk: 0, Access: Read | Write | Execute}
	for k := 1; k < EntriesPerBlock; k++ {
		b[k] = Entry{Type: TypeEmpty}
	}
	return b
}

// NewDir returns a freshly-allocated, non-root directory block whose entry
// 0 is the ".." link to parent.
func NewDir(parent uint16) Block {
	var b Block
	b[0] = Entry{Name: "..", Type: TypeDir, FirstBlk: parent, Access: Read | Write | Execute}
	for k := 1; k < EntriesPerBlock; k++ {
		b[k] = Entry{Type: TypeEmpty}
	}
	return b
}
