//go:build darwin

package backend

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// these constants should be part of golang.org/x/sys/unix, but aren't, yet
const dkiocGetBlockCount = 0x40086419

// DeviceSize returns the size in bytes of a raw block device.
func DeviceSize(f *os.File) (int64, error) {
	blocks, err := unix.IoctlGetInt(int(f.Fd()), dkiocGetBlockCount)
	if err != nil {
		return 0, fmt.Errorf("unable to get device block count: %w", err)
	}
	return int64(blocks) * 512, nil
}
