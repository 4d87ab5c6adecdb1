// Package fat implements the FAT manager: the in-memory mirror of block 1,
// its allocation/free-chain algorithm, and the wire codec that serializes
// it as signed 16-bit little-endian entries.
//
// The in-memory representation is a tagged variant rather than a raw int16,
// per the no-hidden-sentinels design note: Free, EOF, and Next(block) are
// distinct states instead of overloading 0 and -1.
package fat

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hedlund/blockfs/blockdev"
)

// ErrNoFreeBlock is returned when an allocation cannot find a free block.
var ErrNoFreeBlock = errors.New("no free block")

const (
	// RootBlock is the fixed block index of the root directory.
	RootBlock uint16 = 0
	// FATBlock is the fixed block index holding the FAT itself.
	FATBlock uint16 = 1
)

// rawFree and rawEOF are the on-disk sentinel values for a FAT entry.
const (
	rawFree int16 = 0
	rawEOF  int16 = -1
)

// State tags what an Entry means, instead of overloading magic integers.
type State int

const (
	Free State = iota
	EOF
	Next
)

// Entry is one slot of the table: either free, a chain terminator, or a
// pointer to the following block in a chain.
type Entry struct {
	State State
	Next  uint16
}

// Table is the in-memory mirror of block 1.
type Table struct {
	entries [blockdev.BlockCount]Entry
}

// NewFormatted returns a Table in the post-format state: blocks 0 and 1
// (root and FAT themselves) are EOF, everything else is Free.
func NewFormatted() Table {
	var t Table
	t.entries[RootBlock] = Entry{State: EOF}
	t.entries[FATBlock] = Entry{State: EOF}
	for i := 2; i < blockdev.BlockCount; i++ {
		t.entries[i] = Entry{State: Free}
	}
	return t
}

// Load reads block 1 from dev and decodes it into a Table.
func Load(dev *blockdev.Device) (Table, error) {
	var t Table
	block, err := dev.ReadBlock(FATBlock)
	if err != nil {
		return t, fmt.Errorf("loading FAT: %w", err)
	}
	for i := 0; i < blockdev.BlockCount; i++ {
		raw := int16(binary.LittleEndian.Uint16(block[i*2 : i*2+2]))
		t.entries[i] = decodeEntry(raw)
	}
	return t, nil
}

// Flush encodes the Table and writes it to block 1.
func (t *Table) Flush(dev *blockdev.Device) error {
	var block blockdev.Block
	for i, e := range t.entries {
		binary.LittleEndian.PutUint16(block[i*2:i*2+2], uint16(encodeEntry(e)))
	}
	if err := dev.WriteBlock(FATBlock, block); err != nil {
		return fmt.Errorf("flushing FAT: %w", err)
	}
	return nil
}

func decodeEntry(raw int16) Entry {
	switch {
	case raw == rawFree:
		return Entry{State: Free}
	case raw == rawEOF:
		return Entry{State: EOF}
	default:
		return Entry{State: Next, Next: uint16(raw)}
	}
}

func encodeEntry(e Entry) int16 {
	switch e.State {
	case Free:
		return rawFree
	case EOF:
		return rawEOF
	default:
		return int16(e.Next)
	}
}

// Get returns the entry at block i.
func (t *Table) Get(i uint16) Entry {
	return t.entries[i]
}

// Set overwrites the entry at block i.
func (t *Table) Set(i uint16, e Entry) {
	t.entries[i] = e
}

// FindFirstFree scans indices [2,BlockCount) and returns the lowest free
// one. Deterministic lowest-index allocation: callers (and tests) depend on
// it.
func (t *Table) FindFirstFree() (uint16, bool) {
	for i := 2; i < blockdev.BlockCount; i++ {
		if t.entries[i].State == Free {
			return uint16(i), true
		}
	}
	return 0, false
}

// CountFree returns the number of free blocks in [2,BlockCount).
func (t *Table) CountFree() int {
	n := 0
	for i := 2; i < blockdev.BlockCount; i++ {
		if t.entries[i].State == Free {
			n++
		}
	}
	return n
}

// AllocateChain extends the chain whose current last link is head (which
// must already be EOF) by claiming extraBlocks free blocks in ascending
// index order, linking them head -> b1 -> b2 -> ... -> bn -> EOF. Each
// newly claimed block is set to EOF before being linked in, so the chain is
// well-formed at every intermediate step.
func (t *Table) AllocateChain(head uint16, extraBlocks int) error {
	if t.entries[head].State != EOF {
		return fmt.Errorf("cannot extend chain at block %d: not at EOF", head)
	}
	prev := head
	for i := 0; i < extraBlocks; i++ {
		next, ok := t.FindFirstFree()
		if !ok {
			return ErrNoFreeBlock
		}
		t.entries[next] = Entry{State: EOF}
		t.entries[prev] = Entry{State: Next, Next: next}
		prev = next
	}
	return nil
}

// FreeChain walks from head following the table, setting each visited
// entry to Free, stopping after freeing the block that was EOF.
func (t *Table) FreeChain(head uint16) {
	current := head
	for {
		e := t.entries[current]
		t.entries[current] = Entry{State: Free}
		if e.State != Next {
			return
		}
		current = e.Next
	}
}

// Walk returns head followed by each successor in the chain, stopping
// before the EOF marker. Chains are bounded by BlockCount, so materializing
// the whole chain (rather than returning a lazy iterator) is cheap and
// matches how cluster chains are consumed elsewhere in this module.
func (t *Table) Walk(head uint16) []uint16 {
	var blocks []uint16
	current := head
	for {
		blocks = append(blocks, current)
		e := t.entries[current]
		if e.State != Next {
			return blocks
		}
		current = e.Next
	}
}
