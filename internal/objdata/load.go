package objdata

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Key identifies the exact bytes a Set was flattened from.
type Key [sha256.Size]byte

var unitFuncFiles = []string{
	"HumanUnitFunc.txt",
	"OrcUnitFunc.txt",
	"UndeadUnitFunc.txt",
	"NightElfUnitFunc.txt",
	"NeutralUnitFunc.txt",
	"xHumanUnitFunc.txt",
	"xOrcUnitFunc.txt",
	"xUndeadUnitFunc.txt",
	"xNightElfUnitFunc.txt",
	"xNeutralUnitFunc.txt",
	"pNeutralUnitFunc-File00000062.txt",
}

// LayerFiles returns the file names of a table's layers in load order.
func LayerFiles(table string) []string {
	if table == "UnitFunc" {
		return slices.Clone(unitFuncFiles)
	}
	return []string{table + ".csv", "x" + table + ".csv", "p" + table + ".csv", "q" + table + ".csv"}
}

// SourceFile is one layer file read into memory.
type SourceFile struct {
	Table string
	Name  string
	Data  []byte
}

// Sources are the raw layer files of a data directory.
type Sources struct {
	Dir   string
	Files []SourceFile
	Key   Key
}

// ScanDir reads the layer files of the given tables from dir. Missing layer
// files are skipped; a table with no layer at all is flattened empty.
func ScanDir(dir string, tables []string) (*Sources, error) {
	s := &Sources{Dir: dir}
	h := sha256.New()
	var n [8]byte
	for _, table := range tables {
		if _, ok := IDKey(table); !ok {
			return nil, fmt.Errorf("objdata: unknown table %q", table)
		}
		for _, name := range LayerFiles(table) {
			// #nosec G304 -- file names are fixed, dir comes from the manifest
			data, err := os.ReadFile(filepath.Join(dir, name))
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("objdata: %w", err)
			}
			s.Files = append(s.Files, SourceFile{Table: table, Name: name, Data: data})
			h.Write([]byte(table + "\x00" + name + "\x00"))
			binary.LittleEndian.PutUint64(n[:], uint64(len(data)))
			h.Write(n[:])
			h.Write(data)
		}
	}
	copy(s.Key[:], h.Sum(nil))
	return s, nil
}

// Flatten parses every layer and flattens the tables concurrently.
func (s *Sources) Flatten(tables []string) (*Set, error) {
	byTable := make(map[string][]SourceFile)
	for _, f := range s.Files {
		byTable[f.Table] = append(byTable[f.Table], f)
	}
	set := &Set{tables: make(map[string]*Table, len(tables))}
	var mu sync.Mutex
	var g errgroup.Group
	for _, table := range tables {
		files := byTable[table]
		g.Go(func() error {
			t, err := flattenFiles(table, files)
			if err != nil {
				return err
			}
			mu.Lock()
			set.tables[table] = t
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}

func flattenFiles(table string, files []SourceFile) (*Table, error) {
	idKey, _ := IDKey(table)
	layers := make([]Layer, 0, len(files))
	for _, f := range files {
		var (
			recs []Record
			err  error
		)
		if filepath.Ext(f.Name) == ".txt" {
			recs, err = ReadINI(bytes.NewReader(f.Data), idKey)
		} else {
			recs, err = ReadCSV(bytes.NewReader(f.Data), idKey)
		}
		if err != nil {
			return nil, fmt.Errorf("objdata: %s: %w", f.Name, err)
		}
		layers = append(layers, Layer{Name: f.Name, Records: recs})
	}
	return Flatten(table, layers)
}

// Set is a group of flattened tables.
type Set struct {
	tables map[string]*Table
}

func NewSet(tables ...*Table) *Set {
	s := &Set{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		s.tables[t.Name] = t
	}
	return s
}

// Table returns the named table; a missing table is nil, which reads as empty.
func (s *Set) Table(name string) *Table {
	if s == nil {
		return nil
	}
	return s.tables[name]
}

func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.tables))
}

// Load scans dir and flattens tables, consulting cache first. hit reports
// whether the set came from the cache. Cache write failures are returned
// together with a usable set.
func Load(dir string, tables []string, cache *Cache) (set *Set, hit bool, err error) {
	src, err := ScanDir(dir, tables)
	if err != nil {
		return nil, false, err
	}
	if set, ok, err := cache.Get(src.Key); err == nil && ok {
		return set, true, nil
	}
	set, err = src.Flatten(tables)
	if err != nil {
		return nil, false, err
	}
	if err := cache.Put(src.Key, set); err != nil {
		return set, false, fmt.Errorf("table cache: %w", err)
	}
	return set, false, nil
}
