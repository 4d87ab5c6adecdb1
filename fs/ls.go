package fs

import (
	"fmt"
	"strings"

	"github.com/hedlund/blockfs/dirent"
)

// LsEntry is one row of an Ls listing.
type LsEntry struct {
	Name   string
	IsDir  bool
	Access string // rendered rwx triplet, "-" for missing bits
	Size   string // decimal size, or "-" for directories
}

// Ls lists the non-empty entries of the current working directory. The
// reserved root name "/" is displayed as "..".
func (f *FileSystem) Ls() ([]LsEntry, error) {
	if err := f.refresh(); err != nil {
		return nil, err
	}
	dir, err := f.loadDir(f.cwd)
	if err != nil {
		return nil, err
	}

	var rows []LsEntry
	for _, e := range dir {
		if e.Empty() {
			continue
		}
		name := e.Name
		if name == "/" {
			name = ".."
		}
		row := LsEntry{Name: name, IsDir: e.Type == dirent.TypeDir, Access: accessString(e.Access)}
		if e.Type == dirent.TypeDir {
			row.Size = "-"
		} else {
			row.Size = fmt.Sprintf("%d", e.Size)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func accessString(bits uint8) string {
	chars := []byte("rwx")
	masks := []uint8{dirent.Read, dirent.Write, dirent.Execute}
	b := []byte("---")
	for i, m := range masks {
		if bits&m == m {
			b[i] = chars[i]
		}
	}
	return string(b)
}

// FormatLs renders rows as shell output: a header row followed by one line
// per entry, columns padded to the widest name.
func FormatLs(rows []LsEntry) string {
	width := len("name")
	for _, r := range rows {
		if len(r.Name) > width {
			width = len(r.Name)
		}
	}
	width += 2

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s%-6s%-14s%-10s\n", width, "name", "type", "accessrights", "size")
	for _, r := range rows {
		typ := "file"
		if r.IsDir {
			typ = "dir"
		}
		fmt.Fprintf(&b, "%-*s%-6s%-14s%-10s\n", width, r.Name, typ, r.Access, r.Size)
	}
	return b.String()
}
