package blockdev_test

import (
	"bytes"
	"testing"

	"github.com/hedlund/blockfs/blockdev"
	"github.com/hedlund/blockfs/blockfstest"
)

func TestReadWriteBlockRoundTrip(t *testing.T) {
	dev := blockdev.New(blockfstest.NewMemStorage(blockdev.ImageSize))

	var buf blockdev.Block
	copy(buf[:], "some block payload")
	if err := dev.WriteBlock(7, buf); err != nil {
		t.Fatalf("WriteBlock: %v", err)
	}
	got, err := dev.ReadBlock(7)
	if err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	if !bytes.Equal(got[:], buf[:]) {
		t.Errorf("block 7 round trip mismatch")
	}

	// neighboring blocks stay untouched
	empty, err := dev.ReadBlock(8)
	if err != nil {
		t.Fatalf("ReadBlock(8): %v", err)
	}
	if !bytes.Equal(empty[:], make([]byte, blockdev.BlockSize)) {
		t.Errorf("block 8 should still be zero-filled")
	}
}

func TestBlockIndexOutOfRange(t *testing.T) {
	dev := blockdev.New(blockfstest.NewMemStorage(blockdev.ImageSize))
	if _, err := dev.ReadBlock(blockdev.BlockCount); err == nil {
		t.Error("ReadBlock past BlockCount should fail")
	}
	if err := dev.WriteBlock(blockdev.BlockCount, blockdev.Block{}); err == nil {
		t.Error("WriteBlock past BlockCount should fail")
	}
}
