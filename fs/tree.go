package fs

import (
	"github.com/hedlund/blockfs/dirent"
	"github.com/hedlund/blockfs/path"
)

// Tree recursively lists every file and directory under target, returning
// slash-separated paths relative to target. A subdirectory lacking
// EXECUTE is listed but not descended into rather than erroring, the same permission the
// resolver enforces on ordinary traversal. Tree is supplemental: it
// exists for the archive exporter (see blockfsutil/archive), which needs
// a full recursive walk rather than one level at a time.
func (f *FileSystem) Tree(target string) ([]string, error) {
	if err := f.refresh(); err != nil {
		return nil, err
	}
	block, err := f.resolve(path.Tokenize(target))
	if err != nil {
		return nil, err
	}
	var out []string
	if err := f.treeWalk(block, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *FileSystem) treeWalk(block uint16, prefix string, out *[]string) error {
	dir, err := f.loadDir(block)
	if err != nil {
		return err
	}
	for i, e := range dir {
		if i == 0 || e.Empty() {
			continue
		}
		name := prefix + e.Name
		*out = append(*out, name)
		if e.Type == dirent.TypeDir {
			if e.Access&dirent.Execute == 0 {
				continue
			}
			if err := f.treeWalk(e.FirstBlk, name+"/", out); err != nil {
				return err
			}
		}
	}
	return nil
}
