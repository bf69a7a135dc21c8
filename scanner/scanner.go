package scanner

import (
	"bufio"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/riadafridishibly/jsonascii/cache"
)

const defaultReadBufferSize = 64 * 1024

type Scanner struct {
	rootPath string

	reporter Reporter

	// Optional result cache, nil when disabled
	cache *cache.Cache

	logger logr.Logger

	// Counters are read by the UI while a scan is running
	dirs         atomic.Int64
	filesMatched atomic.Int64
	filesScanned atomic.Int64
	filesCached  atomic.Int64
	bytes        atomic.Int64
	lines        atomic.Int64
	findings     atomic.Int64
	dirErrors    atomic.Int64
	fileErrors   atomic.Int64

	// Scanner start time in unix nanoseconds, zero before the first run
	startTime atomic.Int64

	// Duration of the last completed run in nanoseconds, zero while running
	elapsedTime atomic.Int64

	// Matched file keys of the current run, used to prune the cache
	seen map[string]struct{}

	// Reused across files
	reader     *bufio.Reader
	lineBuf    []byte
	bufferSize int
}

type Option func(*Scanner)

func WithCache(c *cache.Cache) Option {
	return func(s *Scanner) { s.cache = c }
}

func WithLogger(l logr.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

func NewScanner(rootPath string, reporter Reporter, opts ...Option) *Scanner {
	s := &Scanner{
		rootPath:   rootPath,
		reporter:   reporter,
		logger:     logr.Discard(),
		bufferSize: defaultReadBufferSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scanner) RootPath() string {
	return s.rootPath
}

func (s *Scanner) Cache() *cache.Cache {
	return s.cache
}

func (s *Scanner) FileCount() int64 {
	return s.filesScanned.Load() + s.filesCached.Load()
}

func (s *Scanner) FindingCount() int64 {
	return s.findings.Load()
}

func (s *Scanner) ErrorCount() int64 {
	return s.dirErrors.Load() + s.fileErrors.Load()
}

func (s *Scanner) BytesScanned() int64 {
	return s.bytes.Load()
}

func (s *Scanner) ElapsedTime() time.Duration {
	start := s.startTime.Load()
	if start == 0 {
		return 0
	}
	elapsed := s.elapsedTime.Load()
	if elapsed == 0 {
		return time.Since(time.Unix(0, start))
	}
	return time.Duration(elapsed)
}

// Summary returns the counters of the current or last run.
func (s *Scanner) Summary() Summary {
	return Summary{
		Root:         s.rootPath,
		Dirs:         s.dirs.Load(),
		FilesMatched: s.filesMatched.Load(),
		FilesScanned: s.filesScanned.Load(),
		FilesCached:  s.filesCached.Load(),
		Bytes:        s.bytes.Load(),
		Lines:        s.lines.Load(),
		Findings:     s.findings.Load(),
		DirErrors:    s.dirErrors.Load(),
		FileErrors:   s.fileErrors.Load(),
		Elapsed:      s.ElapsedTime(),
	}
}

func (s *Scanner) reset() {
	for _, c := range []*atomic.Int64{
		&s.dirs, &s.filesMatched, &s.filesScanned, &s.filesCached,
		&s.bytes, &s.lines, &s.findings, &s.dirErrors, &s.fileErrors,
		&s.elapsedTime,
	} {
		c.Store(0)
	}
	s.seen = make(map[string]struct{})
	s.startTime.Store(time.Now().UnixNano())
}

func (s *Scanner) reportError(err *AccessError) {
	s.logger.V(1).Info("access error", "op", err.Op, "path", err.Path, "kind", err.Kind().String(), "error", err.Err.Error())
	s.reporter.AccessError(err)
}
