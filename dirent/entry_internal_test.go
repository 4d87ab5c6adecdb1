package dirent

import (
	"errors"
	"strings"
	"testing"

	"github.com/hedlund/blockfs/blockdev"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	b := NewRoot()
	b[1] = Entry{Name: "hello", Size: 3, FirstBlk: 5, Type: TypeFile, Access: Read | Write}

	raw, err := b.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got := Decode(raw)
	if got[1] != b[1] {
		t.Errorf("round trip mismatch: got %+v, want %+v", got[1], b[1])
	}
	if got[0].Name != "/" || got[0].Type != TypeDir {
		t.Errorf("root entry mismatch: %+v", got[0])
	}
}

func TestEncodeRejectsLongName(t *testing.T) {
	var b Block
	b[1] = Entry{Name: strings.Repeat("a", 56), Type: TypeFile}
	if _, err := b.Encode(); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("Encode() error = %v, want ErrNameTooLong", err)
	}
}

func TestInsertLowestEmptySlot(t *testing.T) {
	b := NewRoot()
	idx, err := b.Insert(Entry{Name: "a", Type: TypeFile})
	if err != nil || idx != 1 {
		t.Fatalf("Insert() = (%d,%v), want (1,nil)", idx, err)
	}
	b[2] = Entry{Type: TypeEmpty}
	b[3] = Entry{Name: "b", Type: TypeFile}
	idx, err = b.Insert(Entry{Name: "c", Type: TypeFile})
	if err != nil || idx != 2 {
		t.Fatalf("Insert() = (%d,%v), want (2,nil)", idx, err)
	}
}

func TestInsertFullDirectory(t *testing.T) {
	b := NewRoot()
	for k := 1; k < EntriesPerBlock; k++ {
		b[k] = Entry{Name: "x", Type: TypeFile}
	}
	if _, err := b.Insert(Entry{Name: "overflow", Type: TypeFile}); err != ErrDirectoryFull {
		t.Errorf("Insert() error = %v, want ErrDirectoryFull", err)
	}
}

func TestFindByteForByte(t *testing.T) {
	b := NewRoot()
	b[1] = Entry{Name: "Foo", Type: TypeFile}
	if _, _, ok := b.Find("foo"); ok {
		t.Errorf("Find() matched case-insensitively")
	}
	idx, e, ok := b.Find("Foo")
	if !ok || idx != 1 || e.Name != "Foo" {
		t.Errorf("Find() = (%d,%+v,%v), want (1,Foo,true)", idx, e, ok)
	}
}

func TestMarkEmptyAndIsEmptyDir(t *testing.T) {
	b := NewDir(7)
	if !b.IsEmptyDir() {
		t.Fatalf("freshly created dir should be empty")
	}
	_, _ = b.Insert(Entry{Name: "child", Type: TypeFile})
	if b.IsEmptyDir() {
		t.Errorf("dir with a child entry should not be empty")
	}
	idx, _, _ := b.Find("child")
	b.MarkEmpty(idx)
	if !b.IsEmptyDir() {
		t.Errorf("dir should be empty again after MarkEmpty")
	}
}

func TestEntriesPerBlockFillsExactlyOneBlock(t *testing.T) {
	if EntriesPerBlock*EntrySize != blockdev.BlockSize {
		t.Fatalf("EntriesPerBlock*EntrySize = %d, want %d", EntriesPerBlock*EntrySize, blockdev.BlockSize)
	}
}
