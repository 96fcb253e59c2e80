package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// RawCache keeps raw API responses as JSON files under Root.
type RawCache struct {
	Root string // e.g. "data/species"
	TTL  time.Duration
}

func NewRawCache(root string, ttl time.Duration) *RawCache {
	return &RawCache{Root: root, TTL: ttl}
}

func (c *RawCache) Path(rel string) string {
	return filepath.Join(c.Root, rel)
}

// Fresh reports whether rel exists and is younger than TTL. A zero TTL never
// expires.
func (c *RawCache) Fresh(rel string) bool {
	info, err := os.Stat(c.Path(rel))
	if err != nil {
		return false
	}
	if c.TTL <= 0 {
		return true
	}
	return time.Since(info.ModTime()) < c.TTL
}

func (c *RawCache) Write(rel string, body []byte, pretty bool) error {
	path := c.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if pretty {
		buf := &bytes.Buffer{}
		if err := json.Indent(buf, body, "", "  "); err == nil {
			buf.WriteByte('\n')
			body = buf.Bytes()
		}
	}
	// Write then rename so readers never see a partial file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (c *RawCache) Read(rel string) ([]byte, error) {
	return os.ReadFile(c.Path(rel))
}

// Remove deletes a cached entry; a missing entry is not an error.
func (c *RawCache) Remove(rel string) error {
	err := os.Remove(c.Path(rel))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
