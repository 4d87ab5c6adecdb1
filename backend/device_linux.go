//go:build linux

package backend

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DeviceSize returns the size in bytes of a raw block device, via the
// BLKGETSIZE64 ioctl. Regular files should use os.Stat instead; this is
// only meaningful for /dev/sdX-style nodes, which report a zero size from
// Stat.
func DeviceSize(f *os.File) (int64, error) {
	var size uint64
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), unix.BLKGETSIZE64, uintptr(unsafe.Pointer(&size)))
	if errno != 0 {
		return 0, fmt.Errorf("unable to get device size: %w", errno)
	}
	return int64(size), nil
}
