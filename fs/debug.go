package fs

// RawBlock reads block i straight off the device, bypassing the FAT and
// directory codecs entirely. It exists for debugging tools (the CLI's
// "dump" command) that want to inspect raw bytes.
func (f *FileSystem) RawBlock(i uint16) ([]byte, error) {
	raw, err := f.dev.ReadBlock(i)
	if err != nil {
		return nil, err
	}
	return raw[:], nil
}
