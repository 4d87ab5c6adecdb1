// Package file backs a backend.Storage with a regular OS file or raw block
// device node.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hedlund/blockfs/backend"
)

type fileBackend struct {
	file     *os.File
	readOnly bool
}

var _ backend.Storage = (*fileBackend)(nil)

// OpenFromPath opens an existing device or image file. The path must exist.
func OpenFromPath(pathName string, readOnly bool) (backend.Storage, error) {
	if pathName == "" {
		return nil, errors.New("must pass device or file name")
	}

	if _, err := os.Stat(pathName); os.IsNotExist(err) {
		return nil, fmt.Errorf("provided device/file %s does not exist", pathName)
	}

	openMode := os.O_RDONLY
	if !readOnly {
		openMode |= os.O_RDWR
	}

	f, err := os.OpenFile(pathName, openMode, 0o600)
	if err != nil {
		return nil, fmt.Errorf("could not open device %s with mode %v: %w", pathName, openMode, err)
	}

	return &fileBackend{file: f, readOnly: readOnly}, nil
}

// CreateFromPath creates a new image file of the given size. The path must
// not already exist.
func CreateFromPath(pathName string, size int64) (backend.Storage, error) {
	if pathName == "" {
		return nil, errors.New("must pass device name")
	}
	if size <= 0 {
		return nil, errors.New("must pass valid device size to create")
	}
	f, err := os.OpenFile(pathName, os.O_RDWR|os.O_EXCL|os.O_CREATE, 0o666)
	if err != nil {
		return nil, fmt.Errorf("could not create device %s: %w", pathName, err)
	}
	if err := f.Truncate(size); err != nil {
		return nil, fmt.Errorf("could not expand device %s to size %d: %w", pathName, size, err)
	}

	return &fileBackend{file: f}, nil
}

// OpenOrCreateFromPath opens pathName if it already exists at exactly size
// bytes, or creates it at that size if absent. This is the "created on
// first run if absent" image contract for diskfile.bin-style images. A raw
// block device node is accepted as long as it is at least size bytes;
// device capacity comes from the platform ioctl, since Stat reports zero
// for device nodes.
func OpenOrCreateFromPath(pathName string, size int64) (backend.Storage, error) {
	info, err := os.Stat(pathName)
	if errors.Is(err, fs.ErrNotExist) {
		return CreateFromPath(pathName, size)
	} else if err != nil {
		return nil, fmt.Errorf("could not stat %s: %w", pathName, err)
	}

	storage, err := OpenFromPath(pathName, false)
	if err != nil {
		return nil, err
	}

	if info.Mode().IsRegular() {
		if info.Size() != size {
			storage.Close()
			return nil, fmt.Errorf("image %s is %d bytes, want exactly %d", pathName, info.Size(), size)
		}
		return storage, nil
	}

	osFile, err := storage.Sys()
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("cannot size device %s: %w", pathName, err)
	}
	devSize, err := backend.DeviceSize(osFile)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("cannot size device %s: %w", pathName, err)
	}
	if devSize < size {
		storage.Close()
		return nil, fmt.Errorf("device %s is %d bytes, want at least %d", pathName, devSize, size)
	}
	return storage, nil
}

func (f *fileBackend) Sys() (*os.File, error) {
	return f.file, nil
}

func (f *fileBackend) Writable() (backend.WritableFile, error) {
	if f.readOnly {
		return nil, backend.ErrIncorrectOpenMode
	}
	return f.file, nil
}

func (f *fileBackend) Stat() (fs.FileInfo, error) {
	return f.file.Stat()
}

func (f *fileBackend) Close() error {
	return f.file.Close()
}

func (f *fileBackend) ReadAt(p []byte, off int64) (int, error) {
	return f.file.ReadAt(p, off)
}
