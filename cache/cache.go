package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get when no entry exists for a path.
var ErrNotFound = errors.New("cache: entry not found")

// Finding is one cached report line of a file.
type Finding struct {
	Line    int
	Column  int
	Byte    byte
	Content []byte
}

// Entry is the stored scan result of a single file. Size, ModTime, Dev and
// Ino identify the version of the file the result belongs to.
type Entry struct {
	Path      string
	Size      int64
	ModTime   time.Time
	Dev       uint64
	Ino       uint64
	Lines     int
	ScannedAt time.Time
	Findings  []Finding
}

type Cache struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS files (
    path TEXT PRIMARY KEY,
    size INTEGER NOT NULL,
    mod_time INTEGER NOT NULL,
    dev INTEGER NOT NULL,
    ino INTEGER NOT NULL,
    lines INTEGER NOT NULL,
    scanned_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS findings (
    path TEXT NOT NULL,
    line INTEGER NOT NULL,
    col INTEGER NOT NULL,
    byte INTEGER NOT NULL,
    content BLOB NOT NULL,
    PRIMARY KEY (path, line)
);
`

// DefaultPath returns ~/.cache/jsonascii/jsonascii.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "jsonascii", "jsonascii.db"), nil
}

// Open opens (creating if needed) the cache database at dbPath.
func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	db.Exec(`PRAGMA journal_mode=WAL;`)
	db.Exec(`PRAGMA synchronous=NORMAL;`)
	db.Exec(`PRAGMA busy_timeout=5000;`)
	db.Exec(`PRAGMA temp_store=MEMORY;`)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Put replaces the entry and all findings stored for entry.Path.
func (c *Cache) Put(entry *Entry) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
        INSERT INTO files (path, size, mod_time, dev, ino, lines, scanned_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            size = excluded.size,
            mod_time = excluded.mod_time,
            dev = excluded.dev,
            ino = excluded.ino,
            lines = excluded.lines,
            scanned_at = excluded.scanned_at
    `,
		entry.Path,
		entry.Size,
		entry.ModTime.UnixNano(),
		int64(entry.Dev),
		int64(entry.Ino),
		entry.Lines,
		entry.ScannedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", entry.Path, err)
	}

	if _, err := tx.Exec("DELETE FROM findings WHERE path = ?", entry.Path); err != nil {
		return fmt.Errorf("clear findings %s: %w", entry.Path, err)
	}

	for _, f := range entry.Findings {
		_, err := tx.Exec(
			"INSERT INTO findings (path, line, col, byte, content) VALUES (?, ?, ?, ?, ?)",
			entry.Path, f.Line, f.Column, int(f.Byte), f.Content,
		)
		if err != nil {
			return fmt.Errorf("insert finding %s:%d: %w", entry.Path, f.Line, err)
		}
	}

	return tx.Commit()
}

// Get returns the entry for path with its findings ordered by line.
func (c *Cache) Get(path string) (*Entry, error) {
	var size, modNano, dev, ino, scannedUnix int64
	var lines int
	err := c.db.QueryRow(
		"SELECT size, mod_time, dev, ino, lines, scanned_at FROM files WHERE path = ?", path,
	).Scan(&size, &modNano, &dev, &ino, &lines, &scannedUnix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		Path:      path,
		Size:      size,
		ModTime:   time.Unix(0, modNano),
		Dev:       uint64(dev),
		Ino:       uint64(ino),
		Lines:     lines,
		ScannedAt: time.Unix(scannedUnix, 0),
	}

	rows, err := c.db.Query("SELECT line, col, byte, content FROM findings WHERE path = ? ORDER BY line", path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var f Finding
		var b int
		if err := rows.Scan(&f.Line, &f.Column, &b, &f.Content); err != nil {
			return nil, err
		}
		f.Byte = byte(b)
		entry.Findings = append(entry.Findings, f)
	}
	return entry, rows.Err()
}

// Paths returns every cached file path.
func (c *Cache) Paths() ([]string, error) {
	rows, err := c.db.Query("SELECT path FROM files")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func (c *Cache) Delete(path string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM findings WHERE path = ?", path); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM files WHERE path = ?", path); err != nil {
		return err
	}
	return tx.Commit()
}
