package scanner

import "io/fs"

// FileID returns the device and inode of info, or a zero DevIno on
// platforms that do not expose them.
func FileID(info fs.FileInfo) DevIno {
	return getFileID(info)
}
