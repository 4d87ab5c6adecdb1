// Command blockfsctl is the thin interactive shell that exercises the
// blockfs library end-to-end: it parses command lines and calls straight
// into package fs. The shell itself stays a minimal driver; everything of
// substance lives in the library.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hedlund/blockfs/backend/file"
	"github.com/hedlund/blockfs/blockdev"
	"github.com/hedlund/blockfs/blockfsutil/archive"
	"github.com/hedlund/blockfs/blockfsutil/hexdump"
	"github.com/hedlund/blockfs/fs"
	"github.com/hedlund/blockfs/image"
)

func main() {
	imagePath := flag.String("image", "diskfile.bin", "path to the backing block device image")
	flag.Parse()

	storage, err := file.OpenOrCreateFromPath(*imagePath, blockdev.ImageSize)
	if err != nil {
		fmt.Fprintln(os.Stderr, "blockfsctl:", err)
		os.Exit(1)
	}
	defer storage.Close()

	fsys := fs.New(blockdev.New(storage))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd := fields[0]
		args := fields[1:]

		if cmd == "quit" {
			return
		}
		if err := dispatch(fsys, cmd, args, scanner, *imagePath); err != nil {
			fmt.Println(err)
		}
	}
}

func dispatch(fsys *fs.FileSystem, cmd string, args []string, scanner *bufio.Scanner, imagePath string) error {
	switch cmd {
	case "format":
		return fsys.Format()

	case "create":
		if len(args) != 1 {
			return usageErr("create <path>")
		}
		return fsys.Create(args[0], stdinLines(scanner))

	case "cat":
		if len(args) != 1 {
			return usageErr("cat <path>")
		}
		data, err := fsys.Cat(args[0])
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil

	case "ls":
		rows, err := fsys.Ls()
		if err != nil {
			return err
		}
		fmt.Print(fs.FormatLs(rows))
		return nil

	case "cp":
		if len(args) != 2 {
			return usageErr("cp <src> <dst>")
		}
		return fsys.Cp(args[0], args[1])

	case "mv":
		if len(args) != 2 {
			return usageErr("mv <src> <dst>")
		}
		return fsys.Mv(args[0], args[1])

	case "rm":
		if len(args) != 1 {
			return usageErr("rm <path>")
		}
		return fsys.Rm(args[0])

	case "append":
		if len(args) != 2 {
			return usageErr("append <src> <dst>")
		}
		return fsys.Append(args[0], args[1])

	case "mkdir":
		if len(args) != 1 {
			return usageErr("mkdir <path>")
		}
		return fsys.Mkdir(args[0])

	case "cd":
		if len(args) != 1 {
			return usageErr("cd <path>")
		}
		return fsys.Cd(args[0])

	case "pwd":
		p, err := fsys.Pwd()
		if err != nil {
			return err
		}
		fmt.Println(p)
		return nil

	case "chmod":
		if len(args) != 2 {
			return usageErr("chmod <bits> <path>")
		}
		return fsys.Chmod(args[0], args[1])

	case "stat":
		if len(args) != 1 {
			return usageErr("stat <path>")
		}
		entry, err := fsys.Stat(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", entry)
		return nil

	case "export":
		if len(args) < 2 {
			return usageErr("export <path> <hostfile> [--xz|--lz4]")
		}
		method := archive.LZ4
		if len(args) > 2 && args[2] == "--xz" {
			method = archive.XZ
		}
		out, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer out.Close()
		return archive.Export(fsys, args[0], out, method)

	case "import":
		if len(args) < 2 {
			return usageErr("import <hostfile> <path> [--xz|--lz4]")
		}
		method := archive.LZ4
		if len(args) > 2 && args[2] == "--xz" {
			method = archive.XZ
		}
		in, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer in.Close()
		return archive.Import(fsys, args[1], in, method)

	case "imgstat":
		ft, err := image.StatImageFile(imagePath)
		if err != nil {
			return err
		}
		fmt.Printf("mtime=%s atime=%s ctime=%s birth=%s\n", ft.ModTime, ft.AccessTime, ft.ChangeTime, ft.BirthTime)
		return nil

	case "dump":
		if len(args) != 1 {
			return usageErr("dump <block>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 || n >= blockdev.BlockCount {
			return fmt.Errorf("dump: block index out of range [0,%d)", blockdev.BlockCount)
		}
		raw, err := fsys.RawBlock(uint16(n))
		if err != nil {
			return err
		}
		fmt.Print(hexdump.Block(raw))
		return nil

	default:
		return usageErr(cmd + ": unknown command")
	}
}

func usageErr(msg string) error { return fmt.Errorf("usage: %s", msg) }

// stdinLines adapts the already-open line scanner so create can
// consume the remaining interactive session input, matching the "create
// additionally reads stdin until a blank line" contract.
func stdinLines(scanner *bufio.Scanner) *lineReader {
	return &lineReader{scanner: scanner}
}

type lineReader struct {
	scanner *bufio.Scanner
	buf     []byte
}

func (r *lineReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		if !r.scanner.Scan() {
			return 0, io.EOF
		}
		line := r.scanner.Bytes()
		r.buf = make([]byte, 0, len(line)+1)
		r.buf = append(r.buf, line...)
		r.buf = append(r.buf, '\n')
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
