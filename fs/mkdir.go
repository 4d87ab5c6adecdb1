package fs

import (
	"github.com/hedlund/blockfs/dirent"
	"github.com/hedlund/blockfs/fat"
	"github.com/hedlund/blockfs/internal/fslog"
	"github.com/hedlund/blockfs/path"
)

// Mkdir creates a new, empty subdirectory at target, owning exactly one
// data block.
func (f *FileSystem) Mkdir(target string) error {
	if err := f.refresh(); err != nil {
		return err
	}

	parentTokens, leaf, ok := path.Split(path.Tokenize(target))
	if !ok {
		return newErr(InvalidPath, target)
	}
	if len(leaf) > dirent.MaxNameLen {
		return newErr(NameTooLong, leaf)
	}

	parentBlock, err := f.resolve(parentTokens)
	if err != nil {
		return err
	}
	parentDir, err := f.loadDir(parentBlock)
	if err != nil {
		return err
	}
	if _, _, exists := parentDir.Find(leaf); exists {
		return newErr(AlreadyExists, leaf)
	}

	access, err := f.accessOf(parentBlock)
	if err != nil {
		return err
	}
	if access&dirent.Write == 0 {
		return newErr(PermissionDenied, target)
	}

	if f.table.CountFree() == 0 {
		return newErr(NoSpace, target)
	}
	block, ok := f.table.FindFirstFree()
	if !ok {
		return newErr(NoSpace, target)
	}
	f.table.Set(block, fat.Entry{State: fat.EOF})

	newDir := dirent.NewDir(parentBlock)
	if err := f.saveDir(block, newDir); err != nil {
		return err
	}

	entry := dirent.Entry{
		Name:     leaf,
		Size:     0,
		FirstBlk: block,
		Type:     dirent.TypeDir,
		Access:   dirent.Read | dirent.Write | dirent.Execute,
	}
	if _, err := parentDir.Insert(entry); err != nil {
		return newErr(FullDirectory, target)
	}
	if err := f.saveDir(parentBlock, parentDir); err != nil {
		return err
	}
	if err := f.table.Flush(f.dev); err != nil {
		return err
	}

	fslog.Op(f.log, "mkdir").WithField("path", target).Debug("created directory")
	return nil
}
