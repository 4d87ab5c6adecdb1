package fs

import (
	"strconv"

	"github.com/hedlund/blockfs/internal/fslog"
	"github.com/hedlund/blockfs/path"
)

// Chmod parses bits as a decimal integer in [0,7] and overwrites target's
// access rights. rwx-letter syntax is not supported.
func (f *FileSystem) Chmod(bits string, target string) error {
	if err := f.refresh(); err != nil {
		return err
	}

	n, err := strconv.Atoi(bits)
	if err != nil || n < 0 || n > 7 {
		return newErr(InvalidPath, bits)
	}

	parentTokens, leaf, ok := path.Split(path.Tokenize(target))
	if !ok {
		return newErr(InvalidPath, target)
	}
	parentBlock, err := f.resolve(parentTokens)
	if err != nil {
		return err
	}
	parentDir, err := f.loadDir(parentBlock)
	if err != nil {
		return err
	}
	idx, entry, found := parentDir.Find(leaf)
	if !found {
		return newErr(NotFound, target)
	}

	entry.Access = uint8(n)
	parentDir[idx] = entry
	if err := f.saveDir(parentBlock, parentDir); err != nil {
		return err
	}

	fslog.Op(f.log, "chmod").WithField("path", target).WithField("bits", n).Debug("changed access rights")
	return nil
}
