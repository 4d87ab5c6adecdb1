package fs

import "github.com/hedlund/blockfs/blockdev"

// blocksNeeded returns how many blocks a file of the given size occupies:
// ceil(max(size,1)/BlockSize), so that even a zero-byte file gets exactly
// one block.
func blocksNeeded(size int) int {
	if size <= 0 {
		return 1
	}
	n := size / blockdev.BlockSize
	if size%blockdev.BlockSize != 0 {
		n++
	}
	return n
}
