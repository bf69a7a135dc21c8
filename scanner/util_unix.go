//go:build unix

package scanner

import (
	"io/fs"
	"syscall"
)

func getFileID(info fs.FileInfo) DevIno {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return DevIno{}
	}
	return DevIno{Dev: uint64(st.Dev), Ino: uint64(st.Ino)}
}
