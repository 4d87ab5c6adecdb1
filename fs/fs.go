// Package fs implements the file system API: the shell-level operations
// (format, create, cat, ls, cp, mv, rm, append, mkdir, cd, pwd, chmod)
// composed from the block device adapter, FAT manager, directory codec,
// and path resolver.
//
// Every operation refreshes the FAT from block 1, resolves its path(s),
// mutates in-memory directory/FAT structures, and writes mutated blocks
// back before returning: there is no write-back cache.
package fs

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hedlund/blockfs/blockdev"
	"github.com/hedlund/blockfs/dirent"
	"github.com/hedlund/blockfs/fat"
	"github.com/hedlund/blockfs/image"
	"github.com/hedlund/blockfs/internal/fslog"
	pathpkg "github.com/hedlund/blockfs/path"
)

// FileSystem is a reference to a single blockfs image. It is not safe for
// concurrent use: the core is strictly single-threaded, and callers
// serialize their own calls.
type FileSystem struct {
	dev      *blockdev.Device
	table    fat.Table
	cwd      uint16
	volumeID [16]byte
	log      *logrus.Logger
}

// New wraps dev as a FileSystem. The image is assumed to already be
// formatted; call Format first on a fresh image.
func New(dev *blockdev.Device) *FileSystem {
	return &FileSystem{
		dev: dev,
		cwd: fat.RootBlock,
		log: fslog.New(),
	}
}

// VolumeID returns this process's in-memory-only volume identifier,
// minted fresh by the most recent Format call. It is never persisted to
// disk (see package image for why).
func (f *FileSystem) VolumeID() [16]byte { return f.volumeID }

// FreeBlocks returns the number of currently free data blocks.
func (f *FileSystem) FreeBlocks() int { return f.table.CountFree() }

// Cwd returns the block index of the current working directory.
func (f *FileSystem) Cwd() uint16 { return f.cwd }

// Format reinitializes the entire image: zeroes the first BlockCount/2 blocks,
// rebuilds an empty FAT, writes an empty root directory, and resets cwd to
// root. It never fails on a well-formed device.
func (f *FileSystem) Format() error {
	for i := uint16(0); i < blockdev.BlockCount/2; i++ {
		if err := f.dev.WriteBlock(i, blockdev.Block{}); err != nil {
			return ioErr(err, "zeroing image")
		}
	}

	f.table = fat.NewFormatted()
	if err := f.table.Flush(f.dev); err != nil {
		return ioErr(err, "writing FAT")
	}

	root := dirent.NewRoot()
	rawRoot, err := root.Encode()
	if err != nil {
		return ioErr(err, "encoding root directory")
	}
	if err := f.dev.WriteBlock(fat.RootBlock, rawRoot); err != nil {
		return ioErr(err, "writing root directory")
	}

	f.cwd = fat.RootBlock
	f.volumeID = image.NewVolumeID()
	fslog.Op(f.log, "format").Debug("formatted image")
	return nil
}

// refresh reloads the FAT from disk, as every operation does before it
// resolves paths or mutates anything.
func (f *FileSystem) refresh() error {
	t, err := fat.Load(f.dev)
	if err != nil {
		return ioErr(err, "loading FAT")
	}
	f.table = t
	return nil
}

// loadDir reads and decodes the directory block at the given index. The
// scratch buffer is always a local, never a field, so no helper can leave
// it stale for the next call: every operation that needs a directory block
// loads its own.
func (f *FileSystem) loadDir(block uint16) (dirent.Block, error) {
	raw, err := f.dev.ReadBlock(block)
	if err != nil {
		return dirent.Block{}, ioErr(err, fmt.Sprintf("reading directory block %d", block))
	}
	return dirent.Decode(raw), nil
}

// saveDir encodes and writes a directory block.
func (f *FileSystem) saveDir(block uint16, d dirent.Block) error {
	raw, err := d.Encode()
	if err != nil {
		return ioErr(err, fmt.Sprintf("encoding directory block %d", block))
	}
	if err := f.dev.WriteBlock(block, raw); err != nil {
		return ioErr(err, fmt.Sprintf("writing directory block %d", block))
	}
	return nil
}

// resolve implements the path resolver's traversal state machine: it
// walks tokens from cwd, enforcing EXECUTE on every traversed directory,
// and returns the block index of the directory that contains (or will
// contain) the path's leaf. An empty token list returns cwd unchanged.
//
// Permission checks beyond EXECUTE-on-traversal (WRITE for create/mkdir/rm,
// READ for cat/cp-source, WRITE for cp-dest/append-dest) are the
// responsibility of each operation, not of resolve.
func (f *FileSystem) resolve(tokens []pathpkg.Token) (uint16, error) {
	current := f.cwd
	dir, err := f.loadDir(current)
	if err != nil {
		return 0, err
	}

	for i, tok := range tokens {
		switch tok.Kind {
		case pathpkg.Root:
			current = fat.RootBlock
			dir, err = f.loadDir(current)
			if err != nil {
				return 0, err
			}
		case pathpkg.Parent:
			current = dir[0].FirstBlk
			dir, err = f.loadDir(current)
			if err != nil {
				return 0, err
			}
		default: // Name
			_, entry, found := dir.Find(tok.Name)
			if !found {
				return 0, newErr(InvalidPath, tok.Name)
			}
			switch entry.Type {
			case dirent.TypeFile:
				if i == len(tokens)-1 {
					return current, nil
				}
				return 0, newErr(NotADirectory, tok.Name)
			case dirent.TypeDir:
				if entry.Access&dirent.Execute == 0 {
					return 0, newErr(PermissionDenied, tok.Name)
				}
				current = entry.FirstBlk
				dir, err = f.loadDir(current)
				if err != nil {
					return 0, err
				}
			default:
				return 0, newErr(InvalidPath, tok.Name)
			}
		}
	}
	return current, nil
}

// accessOf returns the access rights of the directory entry naming block,
// as seen from block's own ".." parent — i.e. "what permissions does the
// entry pointing at this directory carry". The root directory's own entry
// 0 carries its own rights (it is self-referential), so looking it up
// through its parent link works uniformly.
func (f *FileSystem) accessOf(block uint16) (uint8, error) {
	dir, err := f.loadDir(block)
	if err != nil {
		return 0, err
	}
	parent := dir[0].FirstBlk
	if block == fat.RootBlock {
		return dir[0].Access, nil
	}
	parentDir, err := f.loadDir(parent)
	if err != nil {
		return 0, err
	}
	for _, e := range parentDir {
		if !e.Empty() && e.FirstBlk == block && e.Type == dirent.TypeDir {
			return e.Access, nil
		}
	}
	return 0, nil
}
