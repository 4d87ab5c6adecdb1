// Package image holds ambient, non-persisted metadata about a blockfs
// image: an in-memory volume identifier stamped fresh on every Format, and
// host-level file timestamps for the backing diskfile.bin.
//
// Neither piece of metadata is written into the block layout itself: the
// on-disk contract is "block i at byte 4096*i" with no superblock or magic
// number, and there is no spare room in either block 0 (64 entries * 64
// bytes = 4096) or block 1 (2048 entries * 2 bytes = 4096) to stash a UUID
// without breaking that contract.
package image

import "github.com/google/uuid"

// NewVolumeID mints a fresh, process-local volume identifier. It exists
// purely so repeated Format calls are distinguishable by callers that hold
// onto a FileSystem value across reformats; it has no on-disk
// representation.
func NewVolumeID() [16]byte {
	id, err := uuid.NewRandom()
	var out [16]byte
	if err != nil {
		return out
	}
	copy(out[:], id[:])
	return out
}
