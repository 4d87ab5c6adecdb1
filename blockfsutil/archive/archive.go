// Package archive implements the export/import backup commands: walking a
// blockfs subtree into a tar stream (or the reverse), compressed with lz4
// for the fast path or xz for the small path.
package archive

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz"

	"github.com/hedlund/blockfs/dirent"
	"github.com/hedlund/blockfs/fs"
)

// Method selects the compressor used to wrap the tar stream.
type Method int

const (
	// LZ4 favors speed over ratio.
	LZ4 Method = iota
	// XZ favors ratio over speed.
	XZ
)

func wrapWriter(w io.Writer, m Method) (io.WriteCloser, error) {
	switch m {
	case LZ4:
		return lz4.NewWriter(w), nil
	case XZ:
		return xz.NewWriter(w)
	default:
		return nil, fmt.Errorf("unknown archive method %d", m)
	}
}

func wrapReader(r io.Reader, m Method) (io.Reader, error) {
	switch m {
	case LZ4:
		return lz4.NewReader(r), nil
	case XZ:
		return xz.NewReader(r)
	default:
		return nil, fmt.Errorf("unknown archive method %d", m)
	}
}

// Export walks root recursively and writes every file and directory under
// it to w as a compressed tar stream. Directory entries carry no content;
// file entries carry exactly the bytes FileSystem.Cat would return.
func Export(fsys *fs.FileSystem, root string, w io.Writer, m Method) error {
	cw, err := wrapWriter(w, m)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(cw)

	names, err := fsys.Tree(root)
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}

	for _, name := range names {
		full := root
		if full != "/" {
			full += "/"
		}
		full += name
		entry, err := fsys.Stat(full)
		if err != nil {
			return fmt.Errorf("stat %s: %w", full, err)
		}

		hdr := &tar.Header{Name: name, Mode: int64(entry.Access)}
		if entry.Type == dirent.TypeDir {
			hdr.Typeflag = tar.TypeDir
		} else {
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(entry.Size)
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("writing tar header for %s: %w", name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			data, err := fsys.Cat(full)
			if err != nil {
				return fmt.Errorf("reading %s: %w", full, err)
			}
			if _, err := tw.Write(data); err != nil {
				return fmt.Errorf("writing %s: %w", name, err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return cw.Close()
}

// Import reads a compressed tar stream written by Export and recreates
// its directories and files under root. Content is fed through
// FileSystem.Create exactly as the interactive shell would: a blank line
// still terminates a file's content, since that is the only way this
// file system accepts bytes.
func Import(fsys *fs.FileSystem, root string, r io.Reader, m Method) error {
	cr, err := wrapReader(r, m)
	if err != nil {
		return err
	}
	tr := tar.NewReader(cr)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar header: %w", err)
		}

		full := root
		if full != "/" {
			full += "/"
		}
		full += hdr.Name

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := fsys.Mkdir(full); err != nil {
				return fmt.Errorf("mkdir %s: %w", full, err)
			}
		case tar.TypeReg:
			content, err := io.ReadAll(tr)
			if err != nil {
				return fmt.Errorf("reading content for %s: %w", hdr.Name, err)
			}
			if err := fsys.Create(full, bytes.NewReader(content)); err != nil {
				return fmt.Errorf("create %s: %w", full, err)
			}
		}
	}
}
