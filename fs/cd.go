package fs

import (
	"github.com/hedlund/blockfs/dirent"
	"github.com/hedlund/blockfs/internal/fslog"
	"github.com/hedlund/blockfs/path"
)

// Cd changes the current working directory to target. An invalid path
// leaves cwd unchanged; "cd /" and "cd .." at root are both legal, the
// latter a no-op since root's ".." is self-referential.
func (f *FileSystem) Cd(target string) error {
	if err := f.refresh(); err != nil {
		return err
	}

	tokens := path.Tokenize(target)

	// A trailing Name token (an ordinary directory name) needs an
	// explicit type check the generic resolver can't give us, since
	// resolve() is built to return the *containing* directory for a
	// final file token. A trailing Root or Parent token, on the other
	// hand, is unambiguous: resolving the whole list already lands on
	// the right directory, so hand it the full token list directly.
	parentTokens, leaf, ok := path.Split(tokens)
	if !ok {
		block, err := f.resolve(tokens)
		if err != nil {
			return err
		}
		f.cwd = block
		fslog.Op(f.log, "cd").WithField("path", target).Debug("changed directory")
		return nil
	}

	parentBlock, err := f.resolve(parentTokens)
	if err != nil {
		return err
	}
	dir, err := f.loadDir(parentBlock)
	if err != nil {
		return err
	}
	_, entry, found := dir.Find(leaf)
	if !found {
		return newErr(NotFound, target)
	}
	if entry.Type != dirent.TypeDir {
		return newErr(NotADirectory, target)
	}
	if entry.Access&dirent.Execute == 0 {
		return newErr(PermissionDenied, target)
	}

	f.cwd = entry.FirstBlk
	fslog.Op(f.log, "cd").WithField("path", target).Debug("changed directory")
	return nil
}
