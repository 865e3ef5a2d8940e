package objdata

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// bump when cachePayload changes
const cacheSchemaVersion uint16 = 1

// Cache keeps flattened Sets on disk, keyed by the hash of their sources.
// Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema uint16
	Tables []cachedTable
}

type cachedTable struct {
	Name  string
	IDKey string
	IDs   []string
	Rows  []Record
}

// OpenCache returns the cache under $XDG_CACHE_HOME/<app>/tables.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenCacheDir(filepath.Join(base, app, "tables"))
}

// OpenCacheDir uses dir as is.
func OpenCacheDir(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Key) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Put writes set under key. A nil cache ignores the call.
func (c *Cache) Put(key Key, set *Set) (err error) {
	if c == nil || set == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := cachePayload{Schema: cacheSchemaVersion}
	for _, name := range set.Names() {
		t := set.tables[name]
		ct := cachedTable{Name: t.Name, IDKey: t.IDKey, IDs: t.IDs()}
		ct.Rows = make([]Record, len(ct.IDs))
		for i, id := range ct.IDs {
			ct.Rows[i] = t.rows[id]
		}
		payload.Tables = append(payload.Tables, ct)
	}

	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), c.pathFor(key))
}

// Get loads the set stored under key. A stale schema reads as a miss.
func (c *Cache) Get(key Key) (*Set, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("table cache: %w", err)
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	set := &Set{tables: make(map[string]*Table, len(payload.Tables))}
	for _, ct := range payload.Tables {
		if len(ct.IDs) != len(ct.Rows) {
			return nil, false, fmt.Errorf("table cache: %s is corrupt", ct.Name)
		}
		t := newTable(ct.Name, ct.IDKey)
		for i, id := range ct.IDs {
			row := ct.Rows[i]
			if row == nil {
				row = Record{}
			}
			t.rows[id] = row
			t.order = append(t.order, id)
		}
		set.tables[ct.Name] = t
	}
	return set, true, nil
}

// DropAll removes every cached set.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
