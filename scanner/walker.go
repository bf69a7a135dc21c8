package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/dustin/go-humanize"
)

// Run walks the tree under the root path and scans every matching file.
// Access errors are reported and skipped; Run always walks as much of the
// tree as it can.
func (s *Scanner) Run() Summary {
	s.reset()

	walkRoot, err := s.resolveRoot()
	if err != nil {
		s.dirErrors.Add(1)
		s.reportError(&AccessError{Op: OpOpenDir, Path: s.rootPath, Err: err})
		s.finish()
		sum := s.Summary()
		sum.Err = err
		return sum
	}
	s.dirs.Add(1)

	displayPath := func(p string) string { return p }
	if walkRoot != s.rootPath {
		displayPath = func(p string) string {
			return s.rootPath + strings.TrimPrefix(p, walkRoot)
		}
	}

	// One worker keeps callbacks, and so file scans, strictly sequential.
	conf := fastwalk.Config{Follow: false, NumWorkers: 1}

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.dirErrors.Add(1)
			s.reportError(&AccessError{Op: OpOpenDir, Path: displayPath(path), Err: err})
			return nil
		}
		// The root is already counted; fastwalk hands it over without any
		// trailing separator, so match on depth rather than path.
		if de, ok := d.(fastwalk.DirEntry); ok && de.Depth() == 0 {
			return nil
		}

		// fastwalk lstats entries whose dirent type is unknown
		typ := d.Type()
		switch {
		case typ.IsDir():
			s.dirs.Add(1)
		case typ.IsRegular() && IsMatchingName(d.Name()):
			s.filesMatched.Add(1)
			s.ScanFile(displayPath(path))
		}
		return nil
	}

	var sumErr error
	if err := fastwalk.Walk(&conf, walkRoot, walkFn); err != nil {
		s.dirErrors.Add(1)
		s.reportError(&AccessError{Op: OpOpenDir, Path: s.rootPath, Err: err})
		sumErr = err
	} else if s.dirErrors.Load() == 0 {
		// Unreadable subtrees would look like deleted files
		s.pruneCache()
	}

	s.finish()
	sum := s.Summary()
	sum.Err = sumErr
	return sum
}

// resolveRoot checks that the root is a directory and returns the path to
// hand to the walker. A symlinked root is resolved so its contents are
// walked; reported paths keep the caller's prefix.
func (s *Scanner) resolveRoot() (string, error) {
	info, err := os.Stat(s.rootPath)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", &fs.PathError{Op: "open", Path: s.rootPath, Err: syscall.ENOTDIR}
	}

	linfo, err := os.Lstat(s.rootPath)
	if err != nil {
		return "", err
	}
	if linfo.Mode()&fs.ModeSymlink == 0 {
		return s.rootPath, nil
	}
	return filepath.EvalSymlinks(s.rootPath)
}

func (s *Scanner) finish() {
	start := time.Unix(0, s.startTime.Load())
	s.elapsedTime.Store(int64(time.Since(start)))

	s.logger.Info("scan finished",
		"root", s.rootPath,
		"dirs", humanize.Comma(s.dirs.Load()),
		"files", humanize.Comma(s.filesMatched.Load()),
		"cached", humanize.Comma(s.filesCached.Load()),
		"read", humanize.Bytes(uint64(s.bytes.Load())),
		"findings", humanize.Comma(s.findings.Load()),
		"errors", humanize.Comma(s.ErrorCount()),
		"elapsed", s.ElapsedTime().String(),
	)
}
