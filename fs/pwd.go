package fs

import (
	"github.com/hedlund/blockfs/dirent"
	"github.com/hedlund/blockfs/fat"
)

// Pwd renders the absolute path of the current working directory by
// following entry-0 ".." pointers up to root, scanning each parent block
// along the way for the entry whose FirstBlk names the child. Root's pwd
// is "/".
func (f *FileSystem) Pwd() (string, error) {
	if err := f.refresh(); err != nil {
		return "", err
	}

	var names []string
	current := f.cwd
	for current != fat.RootBlock {
		dir, err := f.loadDir(current)
		if err != nil {
			return "", err
		}
		parent := dir[0].FirstBlk
		parentDir, err := f.loadDir(parent)
		if err != nil {
			return "", err
		}
		name := ""
		for _, e := range parentDir {
			if !e.Empty() && e.Type == dirent.TypeDir && e.FirstBlk == current {
				name = e.Name
				break
			}
		}
		names = append([]string{name}, names...)
		current = parent
	}

	path := "/"
	for _, n := range names {
		path += n + "/"
	}
	if len(names) > 0 {
		path = path[:len(path)-1]
	}
	return path, nil
}
