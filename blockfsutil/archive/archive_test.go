package archive_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hedlund/blockfs/blockdev"
	"github.com/hedlund/blockfs/blockfstest"
	"github.com/hedlund/blockfs/blockfsutil/archive"
	"github.com/hedlund/blockfs/fs"
)

func newFS(t *testing.T) *fs.FileSystem {
	t.Helper()
	fsys := fs.New(blockdev.New(blockfstest.NewMemStorage(blockdev.ImageSize)))
	if err := fsys.Format(); err != nil {
		t.Fatalf("Format: %v", err)
	}
	return fsys
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, m := range []archive.Method{archive.LZ4, archive.XZ} {
		src := newFS(t)
		if err := src.Mkdir("/sub"); err != nil {
			t.Fatalf("Mkdir: %v", err)
		}
		if err := src.Create("/hello", strings.NewReader("hello\n")); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := src.Create("/sub/deep", strings.NewReader("deep\n")); err != nil {
			t.Fatalf("Create: %v", err)
		}

		var buf bytes.Buffer
		if err := archive.Export(src, "/", &buf, m); err != nil {
			t.Fatalf("Export (method %d): %v", m, err)
		}

		dst := newFS(t)
		if err := archive.Import(dst, "/", &buf, m); err != nil {
			t.Fatalf("Import (method %d): %v", m, err)
		}

		for path, want := range map[string]string{"/hello": "hello\n", "/sub/deep": "deep\n"} {
			data, err := dst.Cat(path)
			if err != nil {
				t.Fatalf("Cat(%q) after import: %v", path, err)
			}
			if string(data) != want {
				t.Errorf("Cat(%q) = %q, want %q", path, data, want)
			}
		}
	}
}
