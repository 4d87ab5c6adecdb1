package fs

import (
	"bufio"
	"fmt"
	"io"

	"github.com/hedlund/blockfs/blockdev"
	"github.com/hedlund/blockfs/dirent"
	"github.com/hedlund/blockfs/fat"
	"github.com/hedlund/blockfs/internal/fslog"
	"github.com/hedlund/blockfs/path"
)

// Create creates a new file at path. The content is read line-by-line from
// stdin, each line stored with a trailing "\n", until a blank line is read;
// the concatenation of those lines is the file's contents.
func (f *FileSystem) Create(target string, stdin io.Reader) error {
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

	data := readUntilBlankLine(stdin)

	if f.table.CountFree() == 0 || f.table.CountFree() < len(data)/blockdev.BlockSize {
		return newErr(NoSpace, target)
	}

	head, ok := f.table.FindFirstFree()
	if !ok {
		return newErr(NoSpace, target)
	}
	f.table.Set(head, fat.Entry{State: fat.EOF})
	if err := f.table.AllocateChain(head, blocksNeeded(len(data))-1); err != nil {
		return newErr(NoSpace, target)
	}

	if err := f.writeChain(head, data); err != nil {
		return err
	}

	entry := dirent.Entry{
		Name:     leaf,
		Size:     uint32(len(data)),
		FirstBlk: head,
		Type:     dirent.TypeFile,
		Access:   dirent.Read | dirent.Write,
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

	fslog.Op(f.log, "create").WithField("path", target).WithField("size", len(data)).Debug("created file")
	return nil
}

// readUntilBlankLine reads newline-terminated lines from r until a blank
// line (or EOF), appending a trailing "\n" to each non-blank line read.
func readUntilBlankLine(r io.Reader) []byte {
	var data []byte
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), blockdev.ImageSize)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			break
		}
		data = append(data, line...)
		data = append(data, '\n')
	}
	return data
}

// writeChain writes data across the blocks of the chain starting at head,
// in order, following the FAT. Bytes beyond len(data) in the final block
// are left undefined.
func (f *FileSystem) writeChain(head uint16, data []byte) error {
	chain := f.table.Walk(head)
	for i, block := range chain {
		var buf blockdev.Block
		start := i * blockdev.BlockSize
		if start < len(data) {
			end := start + blockdev.BlockSize
			if end > len(data) {
				end = len(data)
			}
			copy(buf[:], data[start:end])
		}
		if err := f.dev.WriteBlock(block, buf); err != nil {
			return ioErr(err, fmt.Sprintf("writing data block %d", block))
		}
	}
	return nil
}
