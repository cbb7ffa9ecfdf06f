package cache

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const entryExt = ".entry"

// FileCache stores each entry in its own file under dir, fanned out by the
// first byte of the hashed key. A file holds the expiry as Unix nanoseconds
// (0 for none) on the first line, followed by the raw value.
type FileCache struct {
	dir string
}

// NewFileCache opens the cache at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

func encodeEntry(data []byte, ttl time.Duration) []byte {
	var expires int64
	if ttl > 0 {
		expires = time.Now().Add(ttl).UnixNano()
	}
	buf := strconv.AppendInt(nil, expires, 10)
	buf = append(buf, '\n')
	return append(buf, data...)
}

// decodeEntry splits a stored file. ok is false for files that were not
// written by encodeEntry.
func decodeEntry(raw []byte) (data []byte, expires time.Time, ok bool) {
	head, body, found := bytes.Cut(raw, []byte{'\n'})
	if !found {
		return nil, time.Time{}, false
	}
	n, err := strconv.ParseInt(string(head), 10, 64)
	if err != nil || n < 0 {
		return nil, time.Time{}, false
	}
	if n > 0 {
		expires = time.Unix(0, n)
	}
	return body, expires, true
}

// Get returns the value under key. Expired and unreadable entries are
// deleted and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	p := c.path(key)
	raw, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			err = nil
		}
		return nil, false, err
	}
	data, expires, ok := decodeEntry(raw)
	if !ok || (!expires.IsZero() && time.Now().After(expires)) {
		_ = os.Remove(p)
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes key through a temp file and rename, so readers see either the
// old entry or the new one.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	p := c.path(key)
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	_, err = tmp.Write(encodeEntry(data, ttl))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), p)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
	}
	return err
}

// Delete removes key. A missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes every entry and reports how many there were.
func (c *FileCache) Clear(ctx context.Context) (int, error) {
	removed := 0
	err := filepath.WalkDir(c.dir, func(p string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case ctx.Err() != nil:
			return ctx.Err()
		case d.IsDir() || !strings.HasSuffix(d.Name(), entryExt):
			return nil
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
		removed++
		return nil
	})
	if os.IsNotExist(err) {
		err = nil
	}
	return removed, err
}

func (c *FileCache) Close() error { return nil }

var (
	_ Cache   = (*FileCache)(nil)
	_ Clearer = (*FileCache)(nil)
)
