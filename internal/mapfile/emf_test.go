package mapfile

import (
	"testing"

	"github.com/eoserv-go/worldcore/internal/data"
	"github.com/eoserv-go/worldcore/internal/model"
)

func sampleLoaded() *Loaded {
	l := &Loaded{
		Revision: 7,
		PK:       true,
		Width:    10,
		Height:   10,
		Scroll:   0,
		RelogX:   5,
		RelogY:   5,
	}
	l.Tiles = make([][]model.Tile, l.Width)
	for x := range l.Tiles {
		l.Tiles[x] = make([]model.Tile, l.Height)
	}
	l.Tiles[2][3].Spec = model.TileWall
	l.Tiles[4][4].Spec = model.TileChest
	l.Tiles[4][4].Warp = nil
	l.Tiles[6][1].Warp = &model.Warp{TargetMap: 3, TargetX: 1, TargetY: 1, LevelReq: 0, Door: model.DoorPlain}

	chest := &model.Chest{X: 4, Y: 4}
	chest.Spawns = append(chest.Spawns, model.ChestSpawn{Slot: 1, ItemID: 379, Amount: 1, RefillMinutes: 10})
	l.Chests = []*model.Chest{chest}

	l.NPCs = []model.NPCSpawnEntry{
		{X: 1, Y: 1, NpcDefID: 2, SpawnType: 0, SpawnTime: 30, Amount: 3},
	}
	return l
}

func TestLoadBytesRoundTrip(t *testing.T) {
	orig := sampleLoaded()
	raw := WriteBytes(orig)

	got, err := LoadBytes(raw)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}

	if got.Revision != orig.Revision || got.PK != orig.PK {
		t.Fatalf("header mismatch: %+v vs %+v", got, orig)
	}
	if got.Width != orig.Width || got.Height != orig.Height {
		t.Fatalf("dimension mismatch: %dx%d vs %dx%d", got.Width, got.Height, orig.Width, orig.Height)
	}
	if got.Tiles[2][3].Spec != model.TileWall {
		t.Fatalf("expected wall at (2,3), got %v", got.Tiles[2][3].Spec)
	}
	if got.Tiles[4][4].Spec != model.TileChest {
		t.Fatalf("expected chest tile at (4,4), got %v", got.Tiles[4][4].Spec)
	}
	if got.Tiles[6][1].Warp == nil || got.Tiles[6][1].Warp.TargetMap != 3 {
		t.Fatalf("expected warp at (6,1) to map 3, got %+v", got.Tiles[6][1].Warp)
	}
	if len(got.Chests) != 1 || len(got.Chests[0].Spawns) != 1 {
		t.Fatalf("expected one chest with one refill spawn, got %+v", got.Chests)
	}
	if got.Chests[0].Spawns[0].ItemID != 379 {
		t.Fatalf("expected refill item 379, got %d", got.Chests[0].Spawns[0].ItemID)
	}
	if len(got.NPCs) != 1 || got.NPCs[0].NpcDefID != 2 {
		t.Fatalf("expected one npc spawn def 2, got %+v", got.NPCs)
	}
}

func TestLoadBytesTruncatedFails(t *testing.T) {
	orig := sampleLoaded()
	raw := WriteBytes(orig)
	_, err := LoadBytes(raw[:len(raw)-2])
	if err == nil {
		t.Fatal("expected error loading truncated EMF buffer")
	}
}

func TestLoadBytesRejectsZeroDimensions(t *testing.T) {
	l := &Loaded{Revision: 1, Width: 0, Height: 0}
	raw := WriteBytes(l)
	_, err := LoadBytes(raw)
	if err == nil {
		t.Fatal("expected error for zero-sized map")
	}
}

func TestValidateAgainstTablesSkipsUnknownDefs(t *testing.T) {
	tables := data.NewTables()
	tables.AddNpc(&model.NpcDef{ID: 2})

	spawns := []model.NPCSpawnEntry{
		{NpcDefID: 2, X: 1, Y: 1},
		{NpcDefID: 99, X: 2, Y: 2},
	}
	valid := ValidateAgainstTables(&Loaded{NPCs: spawns}, tables)
	if len(valid) != 1 || valid[0].NpcDefID != 2 {
		t.Fatalf("expected only def 2 to survive, got %+v", valid)
	}
}
