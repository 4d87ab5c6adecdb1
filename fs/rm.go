package fs

import (
	"github.com/hedlund/blockfs/dirent"
	"github.com/hedlund/blockfs/fat"
	"github.com/hedlund/blockfs/internal/fslog"
	"github.com/hedlund/blockfs/path"
)

// Rm removes the file or empty directory at target. Non-empty directories
// and the root directory are refused, as is removing the current working
// directory.
func (f *FileSystem) Rm(target string) error {
	if err := f.refresh(); err != nil {
		return err
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

	access, err := f.accessOf(parentBlock)
	if err != nil {
		return err
	}
	if access&(dirent.Write|dirent.Execute) != dirent.Write|dirent.Execute {
		return newErr(PermissionDenied, target)
	}

	if entry.Type == dirent.TypeDir {
		if entry.FirstBlk == fat.RootBlock {
			return newErr(CannotRemoveRoot, target)
		}
		if entry.FirstBlk == f.cwd {
			return newErr(CannotRemoveCwd, target)
		}
		dir, err := f.loadDir(entry.FirstBlk)
		if err != nil {
			return err
		}
		if !dir.IsEmptyDir() {
			return newErr(NotEmpty, target)
		}
	}

	f.table.FreeChain(entry.FirstBlk)
	parentDir.MarkEmpty(idx)

	if err := f.saveDir(parentBlock, parentDir); err != nil {
		return err
	}
	if err := f.table.Flush(f.dev); err != nil {
		return err
	}

	fslog.Op(f.log, "rm").WithField("path", target).Debug("removed entry")
	return nil
}
