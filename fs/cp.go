package fs

import (
	"fmt"

	"github.com/hedlund/blockfs/blockdev"
	"github.com/hedlund/blockfs/dirent"
	"github.com/hedlund/blockfs/fat"
	"github.com/hedlund/blockfs/internal/fslog"
	"github.com/hedlund/blockfs/path"
)

// Cp copies src to dst. If dst names an existing directory, the copy is
// placed inside it under src's own name; if dst names an existing file,
// Cp fails; otherwise dst names the new file directly.
func (f *FileSystem) Cp(src, dst string) error {
	if err := f.refresh(); err != nil {
		return err
	}

	srcParentTokens, srcLeaf, ok := path.Split(path.Tokenize(src))
	if !ok {
		return newErr(InvalidPath, src)
	}
	dstParentTokens, dstLeaf, ok := path.Split(path.Tokenize(dst))
	if !ok {
		return newErr(InvalidPath, dst)
	}
	if len(dstLeaf) > dirent.MaxNameLen {
		return newErr(NameTooLong, dstLeaf)
	}

	srcParentBlock, err := f.resolve(srcParentTokens)
	if err != nil {
		return err
	}
	srcParentDir, err := f.loadDir(srcParentBlock)
	if err != nil {
		return err
	}
	_, srcEntry, found := srcParentDir.Find(srcLeaf)
	if !found {
		return newErr(NotFound, src)
	}
	// Shallow-copying a directory block would leave its children reachable
	// from two parents at once, so directories cannot be cp sources.
	if srcEntry.Type == dirent.TypeDir {
		return newErr(IsADirectory, src)
	}
	if srcEntry.Access&dirent.Read == 0 {
		return newErr(PermissionDenied, src)
	}

	dstParentBlock, err := f.resolve(dstParentTokens)
	if err != nil {
		return err
	}
	dstParentDir, err := f.loadDir(dstParentBlock)
	if err != nil {
		return err
	}

	targetBlock := dstParentBlock
	targetName := dstLeaf
	if _, existing, exists := dstParentDir.Find(dstLeaf); exists {
		if existing.Type != dirent.TypeDir {
			return newErr(AlreadyExists, dst)
		}
		if existing.Access&dirent.Write == 0 {
			return newErr(PermissionDenied, dst)
		}
		targetBlock = existing.FirstBlk
		targetName = srcLeaf
	}

	targetDir, err := f.loadDir(targetBlock)
	if err != nil {
		return err
	}
	if _, _, exists := targetDir.Find(targetName); exists {
		return newErr(AlreadyExists, targetName)
	}

	if f.table.CountFree() < int(srcEntry.Size)/blockdev.BlockSize {
		return newErr(NoSpace, dst)
	}

	head, ok := f.table.FindFirstFree()
	if !ok {
		return newErr(NoSpace, dst)
	}
	f.table.Set(head, fat.Entry{State: fat.EOF})
	if err := f.table.AllocateChain(head, blocksNeeded(int(srcEntry.Size))-1); err != nil {
		return newErr(NoSpace, dst)
	}

	if err := f.copyChain(srcEntry.FirstBlk, head); err != nil {
		return err
	}

	newEntry := dirent.Entry{
		Name:     targetName,
		Size:     srcEntry.Size,
		FirstBlk: head,
		Type:     srcEntry.Type,
		Access:   srcEntry.Access,
	}
	if _, err := targetDir.Insert(newEntry); err != nil {
		return newErr(FullDirectory, dst)
	}
	if err := f.saveDir(targetBlock, targetDir); err != nil {
		return err
	}
	if err := f.table.Flush(f.dev); err != nil {
		return err
	}

	fslog.Op(f.log, "cp").WithField("src", src).WithField("dst", dst).Debug("copied file")
	return nil
}

// copyChain copies blocks from srcHead to dstHead in lockstep, stopping
// when either side reaches its chain's end.
func (f *FileSystem) copyChain(srcHead, dstHead uint16) error {
	srcChain := f.table.Walk(srcHead)
	dstChain := f.table.Walk(dstHead)
	n := len(srcChain)
	if len(dstChain) < n {
		n = len(dstChain)
	}
	for i := 0; i < n; i++ {
		raw, err := f.dev.ReadBlock(srcChain[i])
		if err != nil {
			return ioErr(err, fmt.Sprintf("reading data block %d", srcChain[i]))
		}
		if err := f.dev.WriteBlock(dstChain[i], raw); err != nil {
			return ioErr(err, fmt.Sprintf("writing data block %d", dstChain[i]))
		}
	}
	return nil
}
