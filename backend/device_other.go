//go:build !windows && !linux && !darwin

package backend

import (
	"errors"
	"os"
)

// DeviceSize returns the size in bytes of a raw block device.
func DeviceSize(f *os.File) (int64, error) {
	return 0, errors.New("raw block devices not supported on this platform")
}
