// Package world holds the live, per-process simulation state (§3, §4.3,
// §4.4): the World container and its Maps, tile walkability, the in-range
// predicate, and the vision-diff bands that drive movement broadcasts.
//
// Grounded on the teacher's internal/world package (World as the
// process-wide container, Map/Region as the per-area runtime state), with
// the teacher's sync.Map/region-grid concurrency replaced by plain maps
// and slices per §5: a map's state is mutated only by the tick that owns
// it, so no internal locking is needed here.
package world

import (
	"fmt"

	"github.com/eoserv-go/worldcore/internal/apperr"
	"github.com/eoserv-go/worldcore/internal/mapfile"
	"github.com/eoserv-go/worldcore/internal/model"
)

// Map is one area's live runtime state (§3). Owned by World; NPCs, ground
// items, and chests belong to the map exclusively, while characters are a
// participation list only — the owning record lives outside this module.
type Map struct {
	ID       int32
	Revision int32
	PK       bool

	Width  int32
	Height int32
	Scroll int32
	RelogX int32
	RelogY int32

	tiles       [][]model.Tile // [x][y]
	npcs        map[int32]*model.NPC
	chests      []*model.Chest
	groundItems map[int32]*model.GroundItem
	characters  map[int32]*model.Character

	nextNPCIndex int32
}

// NewMap returns an empty, addressable map with no tiles set — the
// fallback map every World guarantees at index 1 (§3, §4.2).
func NewMap(id int32) *Map {
	return &Map{
		ID:          id,
		npcs:        make(map[int32]*model.NPC),
		groundItems: make(map[int32]*model.GroundItem),
		characters:  make(map[int32]*model.Character),
	}
}

// NewBlankMap returns a map of the given dimensions with every tile set to
// model.TileNone — used by tests and by callers that need an addressable
// map before an EMF file is available.
func NewBlankMap(id, width, height int32) *Map {
	m := NewMap(id)
	m.Width = width
	m.Height = height
	m.tiles = make([][]model.Tile, width)
	for x := range m.tiles {
		m.tiles[x] = make([]model.Tile, height)
	}
	return m
}

// LoadInto rebuilds m's tiles, warps, chests, and NPC roster from an EMF
// load result (§4.2). The caller decides whether the character list is
// retained (reload) or this is a first load of a previously-fallback map.
func (m *Map) LoadInto(loaded *mapfile.Loaded, npcTemplates map[int32]*model.NpcDef) {
	m.Revision = loaded.Revision
	m.PK = loaded.PK
	m.Width = loaded.Width
	m.Height = loaded.Height
	m.Scroll = loaded.Scroll
	m.RelogX = loaded.RelogX
	m.RelogY = loaded.RelogY
	m.tiles = loaded.Tiles
	m.chests = loaded.Chests
	m.npcs = make(map[int32]*model.NPC)
	m.nextNPCIndex = 0

	for _, spawn := range loaded.NPCs {
		for i := int32(0); i < spawn.Amount; i++ {
			npc := &model.NPC{
				DefID:     spawn.NpcDefID,
				SpawnType: spawn.SpawnType,
				SpawnX:    spawn.X,
				SpawnY:    spawn.Y,
				SpawnTime: spawn.SpawnTime,
				Location:  model.NewLocation(spawn.X, spawn.Y, model.DirectionDown),
			}
			if def, ok := npcTemplates[spawn.NpcDefID]; ok {
				npc.HP = def.HP
			}
			m.AddNPC(npc)
		}
	}
}

// Tile returns the tile at (x,y), or the zero tile if out of bounds.
func (m *Map) Tile(x, y int32) model.Tile {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return model.Tile{}
	}
	return m.tiles[x][y]
}

// SetTileSpec overwrites the tile tag at (x,y), ignoring out-of-bounds
// coordinates. Used to build fixtures without going through an EMF load.
func (m *Map) SetTileSpec(x, y int32, spec model.TileSpec) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return
	}
	m.tiles[x][y].Spec = spec
}

// SetWarp attaches warp to the tile at (x,y), ignoring out-of-bounds
// coordinates. Used to build fixtures without going through an EMF load.
func (m *Map) SetWarp(x, y int32, warp *model.Warp) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return
	}
	m.tiles[x][y].Warp = warp
}

// Walkable reports whether (x,y) can be entered by a walker (§4.3).
func (m *Map) Walkable(x, y int32, asNPC bool) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	tile := m.tiles[x][y]
	if tile.Spec.BlocksEveryone() {
		return false
	}
	if asNPC && tile.Spec.BlocksNPCOnly() {
		return false
	}
	if asNPC && tile.Warp != nil {
		return false
	}
	return true
}

// AddNPC assigns the next free 1..255 roster index to npc and registers it
// (§3: "NPC roster (indices 1..255 unique)").
func (m *Map) AddNPC(npc *model.NPC) error {
	idx, err := m.nextFreeNPCIndex()
	if err != nil {
		return err
	}
	npc.Index = idx
	npc.Alive = true
	m.npcs[idx] = npc
	return nil
}

func (m *Map) nextFreeNPCIndex() (int32, error) {
	for idx := int32(1); idx <= 255; idx++ {
		if _, taken := m.npcs[idx]; !taken {
			return idx, nil
		}
	}
	return 0, fmt.Errorf("world: map %d has no free npc index (255 in use): %w", m.ID, apperr.ErrInvariantViolation)
}

// RemoveNPC drops npc from the roster entirely (despawn, not death).
func (m *Map) RemoveNPC(index int32) {
	delete(m.npcs, index)
}

// NPC returns the NPC at roster index idx, or nil.
func (m *Map) NPC(idx int32) *model.NPC {
	return m.npcs[idx]
}

// NPCs returns the live roster in index order, for deterministic
// per-tick iteration (§5: "NPC acts in roster order per map").
func (m *Map) NPCs() []*model.NPC {
	out := make([]*model.NPC, 0, len(m.npcs))
	for idx := int32(1); idx <= 255; idx++ {
		if npc, ok := m.npcs[idx]; ok {
			out = append(out, npc)
		}
	}
	return out
}

// Chests returns every chest on the map.
func (m *Map) Chests() []*model.Chest {
	return m.chests
}

// SetChests replaces the map's chest list outright — used to build
// fixtures without going through an EMF load.
func (m *Map) SetChests(chests []*model.Chest) {
	m.chests = chests
}

// ChestAt returns the chest at (x,y), or nil.
func (m *Map) ChestAt(x, y int32) *model.Chest {
	for _, c := range m.chests {
		if c.X == x && c.Y == y {
			return c
		}
	}
	return nil
}

// AddGroundItem assigns the lowest free positive uid on the map and
// registers item (§3: "the uid is the lowest free positive integer on
// that map").
func (m *Map) AddGroundItem(item *model.GroundItem) {
	uid := int32(1)
	for {
		if _, taken := m.groundItems[uid]; !taken {
			break
		}
		uid++
	}
	item.UID = uid
	m.groundItems[uid] = item
}

// RemoveGroundItem drops the ground item with the given uid.
func (m *Map) RemoveGroundItem(uid int32) {
	delete(m.groundItems, uid)
}

// GroundItem returns the ground item with uid, or nil.
func (m *Map) GroundItem(uid int32) *model.GroundItem {
	return m.groundItems[uid]
}

// GroundItems returns every ground item currently on the map.
func (m *Map) GroundItems() []*model.GroundItem {
	out := make([]*model.GroundItem, 0, len(m.groundItems))
	for _, item := range m.groundItems {
		out = append(out, item)
	}
	return out
}

// AddCharacter adds c to the map's participation list and stamps its MapID.
func (m *Map) AddCharacter(c *model.Character) {
	m.characters[c.ID] = c
	c.MapID = m.ID
}

// RemoveCharacter drops c from the map's participation list.
func (m *Map) RemoveCharacter(id int32) {
	delete(m.characters, id)
}

// Characters returns every character currently present on the map.
func (m *Map) Characters() []*model.Character {
	out := make([]*model.Character, 0, len(m.characters))
	for _, c := range m.characters {
		out = append(out, c)
	}
	return out
}
