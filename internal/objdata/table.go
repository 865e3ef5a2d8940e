package objdata

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Record is one object's columns. Values are string, float64, bool or nil.
type Record map[string]any

func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return formatNumber(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	}
	return ""
}

// Number returns a numeric column. Numeric strings are not converted.
func (r Record) Number(key string) (float64, bool) {
	v, ok := r[key].(float64)
	return v, ok
}

// Truthy mirrors how the data exports are consumed: zero, "", false and
// absent columns are false.
func (r Record) Truthy(key string) bool {
	switch v := r[key].(type) {
	case string:
		return v != ""
	case float64:
		return v != 0
	case bool:
		return v
	}
	return false
}

// Layer is one source of records, e.g. UnitData.csv or xUnitData.csv.
type Layer struct {
	Name    string
	Records []Record
}

// Table is a flattened table keyed by object identifier.
type Table struct {
	Name  string
	IDKey string
	rows  map[string]Record
	order []string
}

func newTable(name, idKey string) *Table {
	return &Table{Name: name, IDKey: idKey, rows: make(map[string]Record)}
}

func (t *Table) Get(id string) (Record, bool) {
	if t == nil {
		return nil, false
	}
	r, ok := t.rows[id]
	return r, ok
}

// IDs returns identifiers in first-seen order.
func (t *Table) IDs() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.order)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// All iterates records in first-seen order.
func (t *Table) All(yield func(string, Record) bool) {
	if t == nil {
		return
	}
	for _, id := range t.order {
		if !yield(id, t.rows[id]) {
			return
		}
	}
}

var idKeys = map[string]string{
	"AbilityData":      "alias",
	"DestructableData": "DestructableID",
	"Doodads":          "doodID",
	"ItemData":         "itemID",
	"UnitBalance":      "unitBalanceID",
	"UnitData":         "unitID",
	"UnitWeapons":      "unitWeapID",
	"UpgradeData":      "upgradeid",
	// UnitFunc comes from INI files; the section name is stored here.
	"UnitFunc": "unitFuncID",
}

// IDKey returns the identifier column of a known table.
func IDKey(table string) (string, bool) {
	k, ok := idKeys[table]
	return k, ok
}

// TableNames lists every table with a known identifier column.
func TableNames() []string {
	return slices.Sorted(maps.Keys(idKeys))
}

// upgradeChains maps a building to the one it is upgraded from.
var upgradeChains = map[string]string{
	"hkee": "htow",
	"hcas": "hkee",
	"hgtw": "hwtw",
	"hctw": "hwtw",
	"hatw": "hwtw",
	"ostr": "ogre",
	"ofrt": "ostr",
	"unp1": "unpl",
	"unp2": "unp1",
	"uzg1": "uzig",
	"uzg2": "uzig",
	"etoa": "etol",
	"etoe": "etoa",
}

// PrevKey is the derived column holding the upgrade predecessor.
const PrevKey = "prev"

var sentinels = map[string]any{
	"SYLK_TRUE":    true,
	"SYLK_FALSE":   false,
	"SYLK_#VALUE!": nil,
}

// Translate maps the SLK export sentinels to typed values; anything else is
// returned unchanged.
func Translate(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if t, ok := sentinels[s]; ok {
		return t
	}
	return v
}

// Flatten folds layers in order. Later layers override earlier ones, except
// that blank strings never override. Sentinels are translated and upgrade
// predecessors attached after all layers are folded.
func Flatten(name string, layers []Layer) (*Table, error) {
	idKey, ok := IDKey(name)
	if !ok {
		return nil, fmt.Errorf("objdata: unknown table %q", name)
	}
	t := newTable(name, idKey)
	for _, layer := range layers {
		for i, rec := range layer.Records {
			id, ok := rec[idKey].(string)
			if !ok || id == "" {
				return nil, fmt.Errorf("objdata: %s record %d: malformed entry, missing %s", layer.Name, i+1, idKey)
			}
			row, seen := t.rows[id]
			if !seen {
				row = make(Record, len(rec))
				t.rows[id] = row
				t.order = append(t.order, id)
			}
			for k, v := range rec {
				if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
					continue
				}
				row[k] = v
			}
		}
	}
	for _, id := range t.order {
		row := t.rows[id]
		for k, v := range row {
			row[k] = Translate(v)
		}
		if prev, ok := upgradeChains[id]; ok {
			row[PrevKey] = prev
		}
	}
	return t, nil
}
