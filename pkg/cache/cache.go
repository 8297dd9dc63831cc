// Package cache remembers finished renders so repeated jobs with the same
// inputs and options can be skipped.
//
// Keys come from a [Keyer]: the job kind, a [Stamp] of every input file
// (path, size, modification time) and the job options hashed together.
// Values are JSON-encoded [Record]s naming the output that was written.
// [FileCache] persists entries under a directory; [NullCache] disables
// caching.
package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLRender is how long a render record stays valid. Records are also
// invalidated when the output file disappears.
const TTLRender = 30 * 24 * time.Hour

// Stamp identifies one version of an input file.
type Stamp struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// StampFile stats path and returns its stamp with an absolute path.
func StampFile(path string) (Stamp, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Stamp{}, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return Stamp{}, err
	}
	return Stamp{Path: abs, Size: fi.Size(), ModTime: fi.ModTime().UTC()}, nil
}

// Keyer builds cache keys for render jobs.
type Keyer interface {
	RenderKey(job string, inputs []Stamp, opts any) string
}

// DefaultKeyer hashes job, inputs and options into "render:<job>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(job string, inputs []Stamp, opts any) string {
	return hashKey("render:"+job, inputs, opts)
}

// Record is the value stored for a finished render.
type Record struct {
	JobID     string    `json:"job_id"`
	Output    string    `json:"output"`
	Frames    int       `json:"frames"`
	Resampled int       `json:"resampled,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether the recorded output still exists at path.
func (r Record) Valid(path string) bool {
	if r.Output == "" || r.Output != path {
		return false
	}
	_, err := os.Stat(r.Output)
	return err == nil
}

// Lookup fetches and decodes a record. Undecodable entries count as
// misses.
func Lookup(ctx context.Context, c Cache, key string) (Record, bool) {
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false
	}
	return rec, true
}

// Store encodes and saves a record, returning its encoded size.
func Store(ctx context.Context, c Cache, key string, rec Record) (int, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return 0, err
	}
	return len(data), c.Set(ctx, key, data, TTLRender)
}
