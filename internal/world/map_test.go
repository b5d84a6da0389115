package world

import (
	"testing"

	"github.com/eoserv-go/worldcore/internal/model"
)

func blankMap(width, height int32) *Map {
	m := NewMap(1)
	m.Width = width
	m.Height = height
	tiles := make([][]model.Tile, width)
	for x := range tiles {
		tiles[x] = make([]model.Tile, height)
	}
	m.tiles = tiles
	return m
}

func TestWalkableOutOfBounds(t *testing.T) {
	m := blankMap(5, 5)
	if m.Walkable(-1, 0, false) || m.Walkable(5, 0, false) || m.Walkable(0, 5, false) {
		t.Fatal("expected out-of-bounds tiles to be unwalkable")
	}
}

func TestWalkableBlockingTag(t *testing.T) {
	m := blankMap(5, 5)
	m.tiles[2][2].Spec = model.TileWall
	if m.Walkable(2, 2, false) {
		t.Fatal("expected wall tile to block everyone")
	}
}

func TestWalkableNPCBoundaryBlocksOnlyNPCs(t *testing.T) {
	m := blankMap(5, 5)
	m.tiles[1][1].Spec = model.TileNPCBoundary
	if m.Walkable(1, 1, true) {
		t.Fatal("expected NPCBoundary to block NPCs")
	}
	if !m.Walkable(1, 1, false) {
		t.Fatal("expected NPCBoundary to allow characters")
	}
}

func TestWalkableWarpBlocksNPCsOnly(t *testing.T) {
	m := blankMap(5, 5)
	m.tiles[3][3].Warp = &model.Warp{TargetMap: 2}
	if m.Walkable(3, 3, true) {
		t.Fatal("expected NPCs to be unable to cross warps")
	}
	if !m.Walkable(3, 3, false) {
		t.Fatal("expected characters to be able to cross warps")
	}
}

func TestAddNPCAssignsFreeIndex(t *testing.T) {
	m := blankMap(5, 5)
	a := &model.NPC{}
	b := &model.NPC{}
	if err := m.AddNPC(a); err != nil {
		t.Fatalf("AddNPC a: %v", err)
	}
	if err := m.AddNPC(b); err != nil {
		t.Fatalf("AddNPC b: %v", err)
	}
	if a.Index != 1 || b.Index != 2 {
		t.Fatalf("expected indices 1,2 got %d,%d", a.Index, b.Index)
	}
	m.RemoveNPC(1)
	c := &model.NPC{}
	if err := m.AddNPC(c); err != nil {
		t.Fatalf("AddNPC c: %v", err)
	}
	if c.Index != 1 {
		t.Fatalf("expected freed index 1 reused, got %d", c.Index)
	}
}

func TestAddGroundItemLowestFreeUID(t *testing.T) {
	m := blankMap(5, 5)
	i1 := &model.GroundItem{ItemID: 10}
	i2 := &model.GroundItem{ItemID: 11}
	m.AddGroundItem(i1)
	m.AddGroundItem(i2)
	if i1.UID != 1 || i2.UID != 2 {
		t.Fatalf("expected uids 1,2 got %d,%d", i1.UID, i2.UID)
	}
	m.RemoveGroundItem(1)
	i3 := &model.GroundItem{ItemID: 12}
	m.AddGroundItem(i3)
	if i3.UID != 1 {
		t.Fatalf("expected freed uid 1 reused, got %d", i3.UID)
	}
}

func TestNPCsReturnsRosterOrder(t *testing.T) {
	m := blankMap(5, 5)
	b := &model.NPC{}
	a := &model.NPC{}
	m.AddNPC(b) // index 1
	m.AddNPC(a) // index 2
	roster := m.NPCs()
	if len(roster) != 2 || roster[0] != b || roster[1] != a {
		t.Fatalf("expected roster order by index, got %+v", roster)
	}
}
