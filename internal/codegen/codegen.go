// Package codegen renders the constant-initialisation statements that fill
// the template's hashtable blocks. Generate runs once per process; the
// resulting Blocks are plain data shared by every module merge.
package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"evergreen/internal/objdata"
	"evergreen/internal/source"
)

const indent = "    "

// Tables needed by Generate.
var Tables = []string{"AbilityData", "UnitBalance", "UnitData", "UnitWeapons", "UpgradeData", "UnitFunc"}

// Block is the generated body for one BEGIN/END marker pair.
type Block struct {
	// Marker is the hashtable variable named in the markers, e.g.
	// udg_RFObjectCost.
	Marker string
	Text   string
	// Optional blocks are skipped when the template has no markers for them.
	Optional bool
}

type Blocks struct {
	list []Block
}

// List returns the blocks in substitution order.
func (b *Blocks) List() []Block {
	if b == nil {
		return nil
	}
	return append([]Block(nil), b.list...)
}

func (b *Blocks) Get(marker string) (Block, bool) {
	if b == nil {
		return Block{}, false
	}
	for _, blk := range b.list {
		if blk.Marker == marker {
			return blk, true
		}
	}
	return Block{}, false
}

type Options struct {
	// MeleeUnits enables the udg_RFMeleeUnits block.
	MeleeUnits bool
}

// Generate renders every block from set. Missing tables produce empty blocks.
func Generate(set *objdata.Set, opts Options) *Blocks {
	b := &Blocks{list: []Block{
		{Marker: "udg_RFObjectCost", Text: join(objectCosts(set))},
		{Marker: "udg_RFObjectName", Text: join(objectNames(set)), Optional: true},
		{Marker: "udg_RFSunderingUnits", Text: join(sunderingUnits(set))},
		{Marker: "udg_RFHeroAbilities", Text: join(heroAbilities(set))},
		{Marker: "udg_RFUnitButtons", Text: join(unitButtons(set))},
	}}
	if opts.MeleeUnits {
		b.list = append(b.list, Block{Marker: "udg_RFMeleeUnits", Text: join(meleeUnits(set)), Optional: true})
	}
	return b
}

func join(lines []string) string {
	for i := range lines {
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, source.CRLF)
}

func saveInteger(table string, key int, id string, v float64) string {
	return fmt.Sprintf("call SaveInteger(%s, %d, '%s', %s)", table, key, id, integer(v))
}

func integer(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', -1, 64)
}

// Quote renders s as a Dialect-J string literal.
func Quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r", `\r`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func number(r objdata.Record, key string) float64 {
	v, _ := r.Number(key)
	return v
}

func objectCosts(set *objdata.Set) []string {
	var out []string
	balance := set.Table("UnitBalance")
	for id, r := range balance.All {
		gold, lumber := number(r, "goldcost"), number(r, "lumbercost")
		if gold != 0 {
			out = append(out, saveInteger("udg_RFObjectCost", 0, id, gold))
		}
		if lumber != 0 {
			out = append(out, saveInteger("udg_RFObjectCost", 1, id, lumber))
		}
		prevID := r.String(objdata.PrevKey)
		if prevID == "" {
			continue
		}
		// upgrade cost is the delta to the previous tier
		prev, ok := balance.Get(prevID)
		if !ok {
			continue
		}
		out = append(out,
			saveInteger("udg_RFObjectCost", 2, id, gold-number(prev, "goldcost")),
			saveInteger("udg_RFObjectCost", 3, id, lumber-number(prev, "lumbercost")),
		)
	}
	for id, r := range set.Table("UpgradeData").All {
		for key, col := range []string{"goldbase", "lumberbase", "goldmod", "lumbermod"} {
			if v := number(r, col); v != 0 {
				out = append(out, saveInteger("udg_RFObjectCost", key, id, v))
			}
		}
	}
	return out
}

func objectNames(set *objdata.Set) []string {
	var out []string
	for id, r := range set.Table("UnitFunc").All {
		if name := r.String("Name"); name != "" {
			out = append(out, fmt.Sprintf("call SaveStringBJ(%s, '%s', 0, udg_RFObjectName)", Quote(name), id))
		}
	}
	return out
}

func sunderingUnits(set *objdata.Set) []string {
	var out []string
	for id, r := range set.Table("UnitBalance").All {
		if r.String("defType") == "medium" {
			out = append(out, saveInteger("udg_RFSunderingUnits", 0, id, 1))
		}
	}
	return out
}

var meleeMoveTypes = map[string]bool{"foot": true, "horse": true, "hover": true, "float": true}

// meleeRange is the longest attack range still considered melee.
const meleeRange = 128

func meleeUnits(set *objdata.Set) []string {
	var out []string
	weapons := set.Table("UnitWeapons")
	for id, r := range set.Table("UnitData").All {
		w, ok := weapons.Get(id)
		if !ok || !meleeMoveTypes[r.String("movetp")] {
			continue
		}
		on := int(number(w, "weapsOn"))
		if on&1 != 0 && number(w, "rangeN1") < meleeRange || on&2 != 0 && number(w, "rangeN2") < meleeRange {
			out = append(out, saveInteger("udg_RFMeleeUnits", 0, id, 1))
		}
	}
	return out
}

func heroAbilities(set *objdata.Set) []string {
	var out []string
	for id, r := range set.Table("AbilityData").All {
		if r.Truthy("hero") {
			out = append(out, saveInteger("udg_RFHeroAbilities", 0, id, 1))
		}
	}
	return out
}

func unitButtons(set *objdata.Set) []string {
	var out []string
	for id, r := range set.Table("UnitFunc").All {
		if art := r.String("Art"); art != "" {
			out = append(out, fmt.Sprintf("call SaveStringBJ(%s, '%s', 0, udg_RFUnitButtons)", Quote(art), id))
		}
	}
	return out
}
