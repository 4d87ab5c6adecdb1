package fs

import (
	"github.com/hedlund/blockfs/dirent"
	"github.com/hedlund/blockfs/internal/fslog"
	"github.com/hedlund/blockfs/path"
)

// Mv moves src to dst, renaming and/or relocating it. If dst names an
// existing directory (or ends in ".." or "/"), src is moved inside it under
// its own name.
//
// When a directory is moved to a different parent, its ".." entry is
// rewritten to point at the new parent; otherwise it would keep dangling
// at the old one.
func (f *FileSystem) Mv(src, dst string) error {
	if err := f.refresh(); err != nil {
		return err
	}

	srcParentTokens, srcLeaf, ok := path.Split(path.Tokenize(src))
	if !ok {
		return newErr(InvalidPath, src)
	}

	srcParentBlock, err := f.resolve(srcParentTokens)
	if err != nil {
		return err
	}
	srcParentDir, err := f.loadDir(srcParentBlock)
	if err != nil {
		return err
	}
	srcIdx, srcEntry, found := srcParentDir.Find(srcLeaf)
	if !found {
		return newErr(NotFound, src)
	}

	srcAccess, err := f.accessOf(srcParentBlock)
	if err != nil {
		return err
	}
	if srcAccess&(dirent.Write|dirent.Execute) != dirent.Write|dirent.Execute {
		return newErr(PermissionDenied, src)
	}

	targetBlock, targetName, err := f.mvTarget(dst, srcLeaf)
	if err != nil {
		return err
	}

	if targetBlock == srcParentBlock && targetName == srcLeaf {
		return nil
	}

	sameParent := targetBlock == srcParentBlock
	if sameParent {
		if _, _, exists := srcParentDir.Find(targetName); exists {
			return newErr(AlreadyExists, targetName)
		}
		moved := srcEntry
		moved.Name = targetName
		srcParentDir.MarkEmpty(srcIdx)
		if _, err := srcParentDir.Insert(moved); err != nil {
			return newErr(FullDirectory, dst)
		}
		if err := f.saveDir(srcParentBlock, srcParentDir); err != nil {
			return err
		}
	} else {
		targetDir, err := f.loadDir(targetBlock)
		if err != nil {
			return err
		}
		if _, _, exists := targetDir.Find(targetName); exists {
			return newErr(AlreadyExists, targetName)
		}
		moved := srcEntry
		moved.Name = targetName
		if _, err := targetDir.Insert(moved); err != nil {
			return newErr(FullDirectory, dst)
		}
		if moved.Type == dirent.TypeDir {
			movedDir, err := f.loadDir(moved.FirstBlk)
			if err != nil {
				return err
			}
			movedDir[0].FirstBlk = targetBlock
			if err := f.saveDir(moved.FirstBlk, movedDir); err != nil {
				return err
			}
		}
		srcParentDir.MarkEmpty(srcIdx)
		if err := f.saveDir(srcParentBlock, srcParentDir); err != nil {
			return err
		}
		if err := f.saveDir(targetBlock, targetDir); err != nil {
			return err
		}
	}

	fslog.Op(f.log, "mv").WithField("src", src).WithField("dst", dst).Debug("moved entry")
	return nil
}

// mvTarget resolves dst into the directory block the moved entry lands in
// and the name it takes there. A destination ending in ".." or "/" names a
// directory outright, so the entry moves without renaming; likewise when
// the final component names an existing directory.
func (f *FileSystem) mvTarget(dst, srcLeaf string) (uint16, string, error) {
	dstTokens := path.Tokenize(dst)
	dstParentTokens, dstLeaf, hasLeaf := path.Split(dstTokens)

	if !hasLeaf {
		block, err := f.resolve(dstTokens)
		if err != nil {
			return 0, "", err
		}
		if err := f.requireWriteExecute(block, dst); err != nil {
			return 0, "", err
		}
		return block, srcLeaf, nil
	}

	if len(dstLeaf) > dirent.MaxNameLen {
		return 0, "", newErr(NameTooLong, dstLeaf)
	}

	parentBlock, err := f.resolve(dstParentTokens)
	if err != nil {
		return 0, "", err
	}
	if err := f.requireWriteExecute(parentBlock, dst); err != nil {
		return 0, "", err
	}
	parentDir, err := f.loadDir(parentBlock)
	if err != nil {
		return 0, "", err
	}
	if _, existing, exists := parentDir.Find(dstLeaf); exists {
		if existing.Type != dirent.TypeDir {
			return 0, "", newErr(AlreadyExists, dst)
		}
		if existing.Access&(dirent.Write|dirent.Execute) != dirent.Write|dirent.Execute {
			return 0, "", newErr(PermissionDenied, dst)
		}
		return existing.FirstBlk, srcLeaf, nil
	}
	return parentBlock, dstLeaf, nil
}

func (f *FileSystem) requireWriteExecute(block uint16, what string) error {
	access, err := f.accessOf(block)
	if err != nil {
		return err
	}
	if access&(dirent.Write|dirent.Execute) != dirent.Write|dirent.Execute {
		return newErr(PermissionDenied, what)
	}
	return nil
}
