package fs

import (
	"github.com/hedlund/blockfs/dirent"
	"github.com/hedlund/blockfs/path"
)

// Cat returns the contents of the file at target. When size is a positive
// exact multiple of BlockSize, the full last block is emitted (not zero
// bytes).
func (f *FileSystem) Cat(target string) ([]byte, error) {
	if err := f.refresh(); err != nil {
		return nil, err
	}

	parentTokens, leaf, ok := path.Split(path.Tokenize(target))
	if !ok {
		return nil, newErr(InvalidPath, target)
	}
	parentBlock, err := f.resolve(parentTokens)
	if err != nil {
		return nil, err
	}
	dir, err := f.loadDir(parentBlock)
	if err != nil {
		return nil, err
	}
	_, entry, found := dir.Find(leaf)
	if !found {
		return nil, newErr(NotFound, target)
	}
	if entry.Type == dirent.TypeDir {
		return nil, newErr(IsADirectory, target)
	}
	if entry.Access&dirent.Read == 0 {
		return nil, newErr(PermissionDenied, target)
	}

	return f.readChain(entry.FirstBlk, int(entry.Size))
}
