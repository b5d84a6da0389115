// Package data holds the read-only static tables loaded once at process
// start (§4.1): item definitions, NPC definitions, and the experience table.
// Nothing here is mutated at tick time.
//
// Grounded on the teacher's internal/data package (id-keyed template
// lookup with a typed Load entry point), adapted to the EO sentinel-row
// contract: lookups never fail, they return a zero-id row for anything
// out of range (§4.1).
package data

import (
	"fmt"
	"math"

	"github.com/eoserv-go/worldcore/internal/model"
)

// Tables is the process-wide static data set: item defs, NPC defs, and the
// level-up experience table.
type Tables struct {
	items    map[int32]*model.ItemDef
	npcs     map[int32]*model.NpcDef
	expTable []int64
}

var zeroNpcDef = &model.NpcDef{}
var zeroItemDef = &model.ItemDef{}

// NewTables creates a table set with no item or NPC definitions; the
// package has no file loader, so definitions arrive through AddItem and
// AddNpc.
func NewTables() *Tables {
	return &Tables{
		items:    make(map[int32]*model.ItemDef),
		npcs:     make(map[int32]*model.NpcDef),
		expTable: BuildExpTable(254),
	}
}

// BuildExpTable generates the cumulative experience-to-level table: the
// total experience required to reach level i is round(i^3 * 133.1),
// levels 0..size-1.
//
// Grounded on original_source/src/world.cpp's exp_table initialization —
// carried over verbatim since the spec's leveling rule (§4.8 step 4) only
// says "level up multiple times... with accumulated new stats" and
// doesn't redefine the curve itself.
func BuildExpTable(size int) []int64 {
	table := make([]int64, size)
	for i := 1; i < size; i++ {
		table[i] = int64(math.Round(math.Pow(float64(i), 3.0) * 133.1))
	}
	return table
}

// ExpForLevel returns the cumulative experience threshold for level, or
// the last table entry if level exceeds the table (never fails, §4.1).
func (t *Tables) ExpForLevel(level int32) int64 {
	if level < 0 {
		return 0
	}
	if int(level) >= len(t.expTable) {
		return t.expTable[len(t.expTable)-1]
	}
	return t.expTable[level]
}

// MaxTableLevel returns the highest level the experience table covers.
func (t *Tables) MaxTableLevel() int32 {
	return int32(len(t.expTable) - 1)
}

// AddItem registers an item definition.
func (t *Tables) AddItem(def *model.ItemDef) {
	t.items[def.ID] = def
}

// AddNpc registers an NPC definition.
func (t *Tables) AddNpc(def *model.NpcDef) {
	t.npcs[def.ID] = def
}

// Item returns the item definition for id, or the zero-id sentinel row if
// id is out of range (§4.1: "never fails").
func (t *Tables) Item(id int32) *model.ItemDef {
	if def, ok := t.items[id]; ok {
		return def
	}
	return zeroItemDef
}

// Npc returns the NPC definition for id, or the zero-id sentinel row if id
// is out of range (§4.1).
func (t *Tables) Npc(id int32) *model.NpcDef {
	if def, ok := t.npcs[id]; ok {
		return def
	}
	return zeroNpcDef
}

// HasNpc reports whether id names a known NPC definition — used by the
// EMF loader to warn-and-skip spawns of unknown def ids (§4.2 item 7)
// without treating the lookup itself as fallible.
func (t *Tables) HasNpc(id int32) bool {
	_, ok := t.npcs[id]
	return ok
}

// ItemCount and NpcCount report table sizes, mostly for startup logging.
func (t *Tables) ItemCount() int { return len(t.items) }
func (t *Tables) NpcCount() int  { return len(t.npcs) }

// errUnsupportedSource is returned by loaders that don't recognize the
// static-data source format they were handed.
func errUnsupportedSource(kind, path string) error {
	return fmt.Errorf("data: unsupported %s source %q", kind, path)
}
