package fs

import (
	"fmt"

	"github.com/hedlund/blockfs/blockdev"
	"github.com/hedlund/blockfs/dirent"
	"github.com/hedlund/blockfs/internal/fslog"
	"github.com/hedlund/blockfs/path"
)

// Append reads src in full and appends its bytes to the end of dst. Both
// must already be files: READ is required on src, WRITE on dst.
func (f *FileSystem) Append(src, dst string) error {
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
	dstIdx, dstEntry, found := dstParentDir.Find(dstLeaf)
	if !found {
		return newErr(NotFound, dst)
	}
	if dstEntry.Type == dirent.TypeDir {
		return newErr(IsADirectory, dst)
	}
	if dstEntry.Access&dirent.Write == 0 {
		return newErr(PermissionDenied, dst)
	}

	data, err := f.readChain(srcEntry.FirstBlk, int(srcEntry.Size))
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	newSize := int(dstEntry.Size) + len(data)
	usedBlocks := blocksNeeded(int(dstEntry.Size))
	wantBlocks := blocksNeeded(newSize)
	extra := wantBlocks - usedBlocks

	if extra > 0 && f.table.CountFree() < extra {
		return newErr(NoSpace, dst)
	}

	chain := f.table.Walk(dstEntry.FirstBlk)
	lastBlock := chain[len(chain)-1]
	offsetInLast := int(dstEntry.Size) - (usedBlocks-1)*blockdev.BlockSize

	if extra > 0 {
		if err := f.table.AllocateChain(lastBlock, extra); err != nil {
			return newErr(NoSpace, dst)
		}
		chain = f.table.Walk(dstEntry.FirstBlk)
	}

	if err := f.appendData(chain, usedBlocks-1, offsetInLast, data); err != nil {
		return err
	}

	dstEntry.Size = uint32(newSize)
	dstParentDir[dstIdx] = dstEntry
	if err := f.saveDir(dstParentBlock, dstParentDir); err != nil {
		return err
	}
	if err := f.table.Flush(f.dev); err != nil {
		return err
	}

	fslog.Op(f.log, "append").WithField("src", src).WithField("dst", dst).WithField("added", len(data)).Debug("appended to file")
	return nil
}

// readChain walks head's FAT chain and returns exactly size bytes of
// content, the same last-block truncation rule Cat uses.
func (f *FileSystem) readChain(head uint16, size int) ([]byte, error) {
	chain := f.table.Walk(head)
	var out []byte
	for i, block := range chain {
		raw, err := f.dev.ReadBlock(block)
		if err != nil {
			return nil, ioErr(err, fmt.Sprintf("reading data block %d", block))
		}
		if i < len(chain)-1 {
			out = append(out, raw[:]...)
			continue
		}
		last := size % blockdev.BlockSize
		if last == 0 && size > 0 {
			last = blockdev.BlockSize
		}
		out = append(out, raw[:last]...)
	}
	return out, nil
}

// appendData writes data starting at byte offsetInLast of block
// chain[lastIndex], continuing into subsequent chain blocks from the start.
func (f *FileSystem) appendData(chain []uint16, lastIndex, offsetInLast int, data []byte) error {
	pos := 0

	if offsetInLast < blockdev.BlockSize {
		raw, err := f.dev.ReadBlock(chain[lastIndex])
		if err != nil {
			return ioErr(err, fmt.Sprintf("reading data block %d", chain[lastIndex]))
		}
		n := copy(raw[offsetInLast:], data)
		if err := f.dev.WriteBlock(chain[lastIndex], raw); err != nil {
			return ioErr(err, fmt.Sprintf("writing data block %d", chain[lastIndex]))
		}
		pos += n
	}

	for i := lastIndex + 1; i < len(chain) && pos < len(data); i++ {
		var buf blockdev.Block
		end := pos + blockdev.BlockSize
		if end > len(data) {
			end = len(data)
		}
		copy(buf[:], data[pos:end])
		if err := f.dev.WriteBlock(chain[i], buf); err != nil {
			return ioErr(err, fmt.Sprintf("writing data block %d", chain[i]))
		}
		pos = end
	}
	return nil
}
