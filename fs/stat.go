package fs

import (
	"github.com/hedlund/blockfs/dirent"
	"github.com/hedlund/blockfs/path"
)

// Stat resolves target and returns its directory entry, factoring out the
// "find containing directory, then linear scan" half that Cat, Chmod, and
// Rm each already perform inline, so callers like the archive exporter
// don't have to duplicate the scan.
func (f *FileSystem) Stat(target string) (dirent.Entry, error) {
	if err := f.refresh(); err != nil {
		return dirent.Entry{}, err
	}

	tokens := path.Tokenize(target)
	if len(tokens) == 0 {
		dir, err := f.loadDir(f.cwd)
		if err != nil {
			return dirent.Entry{}, err
		}
		return dir[0], nil
	}

	parentTokens, leaf, ok := path.Split(tokens)
	if !ok {
		block, err := f.resolve(tokens)
		if err != nil {
			return dirent.Entry{}, err
		}
		dir, err := f.loadDir(block)
		if err != nil {
			return dirent.Entry{}, err
		}
		return dir[0], nil
	}

	parentBlock, err := f.resolve(parentTokens)
	if err != nil {
		return dirent.Entry{}, err
	}
	dir, err := f.loadDir(parentBlock)
	if err != nil {
		return dirent.Entry{}, err
	}
	_, entry, found := dir.Find(leaf)
	if !found {
		return dirent.Entry{}, newErr(NotFound, target)
	}
	return entry, nil
}
