package scanner

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/riadafridishibly/jsonascii/cache"
)

// ScanFile reports every line of path that contains a non-ASCII byte. Only
// the first such byte of a line is considered.
func (s *Scanner) ScanFile(path string) FileResult {
	res := FileResult{Path: path}

	f, err := os.Open(path)
	if err != nil {
		res.Err = s.fileError(OpOpen, path, err)
		return res
	}
	defer f.Close()

	var info fs.FileInfo
	var key string
	if s.cache != nil {
		key = s.cacheKey(path)
		if info, err = f.Stat(); err != nil {
			s.logger.Error(err, "stat failed, skipping cache", "path", path)
			info = nil
		} else if entry := s.lookupCache(key, info); entry != nil {
			return s.replay(path, entry)
		}
	}

	if err := s.scanLines(path, f, &res); err != nil {
		res.Err = err
	}
	s.filesScanned.Add(1)
	s.bytes.Add(res.Bytes)
	s.lines.Add(int64(res.Lines))

	if res.Err == nil && info != nil {
		s.storeCache(key, info, &res)
	}
	return res
}

func (s *Scanner) scanLines(path string, r io.Reader, res *FileResult) error {
	if s.reader == nil || s.reader.Size() != s.bufferSize {
		s.reader = bufio.NewReaderSize(r, s.bufferSize)
	} else {
		s.reader.Reset(r)
	}
	// Drop the file reference once done
	defer s.reader.Reset(nil)

	for {
		line, err := readLine(s.reader, s.lineBuf[:0])
		s.lineBuf = line

		if len(line) > 0 {
			res.Lines++
			res.Bytes += int64(len(line))
			if i := FirstNonASCII(line); i >= 0 {
				finding := Finding{
					Path:    path,
					Line:    res.Lines,
					Column:  i + 1,
					Byte:    line[i],
					Content: bytes.Clone(line),
				}
				res.Findings = append(res.Findings, finding)
				s.findings.Add(1)
				s.reporter.Finding(finding)
			}
		}

		if err == io.EOF {
			return nil
		}
		if err != nil {
			return s.fileError(OpRead, path, err)
		}
	}
}

// readLine appends the next line, terminator included, to buf. Lines longer
// than the reader's buffer are joined from successive partial reads.
func readLine(br *bufio.Reader, buf []byte) ([]byte, error) {
	for {
		chunk, err := br.ReadSlice('\n')
		buf = append(buf, chunk...)
		if !errors.Is(err, bufio.ErrBufferFull) {
			return buf, err
		}
	}
}

func (s *Scanner) fileError(op, path string, err error) *AccessError {
	s.fileErrors.Add(1)
	accessErr := &AccessError{Op: op, Path: path, Err: err}
	s.reportError(accessErr)
	return accessErr
}

func (s *Scanner) cacheKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func (s *Scanner) lookupCache(key string, info fs.FileInfo) *cache.Entry {
	if s.seen != nil {
		s.seen[key] = struct{}{}
	}

	entry, err := s.cache.Get(key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			s.logger.Error(err, "cache lookup failed", "path", key)
		}
		return nil
	}

	id := FileID(info)
	if entry.Size != info.Size() ||
		!entry.ModTime.Equal(info.ModTime()) ||
		entry.Dev != id.Dev || entry.Ino != id.Ino {
		s.logger.V(1).Info("cache entry outdated", "path", key)
		return nil
	}
	return entry
}

func (s *Scanner) replay(path string, entry *cache.Entry) FileResult {
	res := FileResult{Path: path, Lines: entry.Lines, Bytes: entry.Size, Cached: true}
	for _, cf := range entry.Findings {
		finding := Finding{
			Path:    path,
			Line:    cf.Line,
			Column:  cf.Column,
			Byte:    cf.Byte,
			Content: cf.Content,
		}
		res.Findings = append(res.Findings, finding)
		s.findings.Add(1)
		s.reporter.Finding(finding)
	}
	s.filesCached.Add(1)
	s.lines.Add(int64(entry.Lines))
	return res
}

func (s *Scanner) storeCache(key string, info fs.FileInfo, res *FileResult) {
	id := FileID(info)
	entry := &cache.Entry{
		Path:      key,
		Size:      info.Size(),
		ModTime:   info.ModTime(),
		Dev:       id.Dev,
		Ino:       id.Ino,
		Lines:     res.Lines,
		ScannedAt: time.Now(),
	}
	for _, f := range res.Findings {
		entry.Findings = append(entry.Findings, cache.Finding{
			Line:    f.Line,
			Column:  f.Column,
			Byte:    f.Byte,
			Content: f.Content,
		})
	}
	if err := s.cache.Put(entry); err != nil {
		s.logger.Error(err, "cache write failed", "path", key)
	}
}

// pruneCache drops cached files under the root that were not matched in
// this run.
func (s *Scanner) pruneCache() {
	if s.cache == nil {
		return
	}
	paths, err := s.cache.Paths()
	if err != nil {
		s.logger.Error(err, "cache listing failed")
		return
	}

	prefix := s.cacheKey(s.rootPath)
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	for _, p := range paths {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		if _, ok := s.seen[p]; ok {
			continue
		}
		if err := s.cache.Delete(p); err != nil {
			s.logger.Error(err, "cache delete failed", "path", p)
		}
	}
}
