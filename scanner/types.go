package scanner

import (
	"time"
)

type DevIno struct {
	Dev uint64
	Ino uint64
}

// Finding is a line holding at least one byte outside 7-bit ASCII.
type Finding struct {
	Path    string
	Line    int // 1-based
	Column  int // 1-based byte offset of the first invalid byte
	Byte    byte
	Content []byte // raw line including its terminator
}

// FileResult is the outcome of scanning one matching file. Err is nil on
// success and an *AccessError otherwise.
type FileResult struct {
	Path     string
	Lines    int
	Bytes    int64
	Findings []Finding
	Cached   bool
	Err      error
}

func (r FileResult) Kind() Kind {
	return KindOf(r.Err)
}

type Summary struct {
	Root         string
	Dirs         int64
	FilesMatched int64
	FilesScanned int64
	FilesCached  int64
	Bytes        int64
	Lines        int64
	Findings     int64
	DirErrors    int64
	FileErrors   int64
	Elapsed      time.Duration
	Err          error // set when the root itself could not be walked
}
