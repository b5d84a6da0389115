// Package mapfile implements the EMF binary map-file loader (§4.2): it
// parses a map's tile grid, warp table, NPC spawn table, and chest spawn
// table from a single binary file, validating every offset, length, and
// inner-array count so that a malformed file fails the load cleanly
// without touching already-live map state.
//
// Grounded on the teacher's internal/world package for what a "loaded map"
// looks like at the object-model level, and on
// _examples/original_source/src/map.cpp (Map::Load) for the exact EMF
// record layout and field order this loader reproduces.
package mapfile

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/eoserv-go/worldcore/internal/apperr"
	"github.com/eoserv-go/worldcore/internal/data"
	"github.com/eoserv-go/worldcore/internal/eonum"
	"github.com/eoserv-go/worldcore/internal/model"
)

// Loaded is the result of a successful EMF load (§4.2): everything a
// world.Map needs to become live.
type Loaded struct {
	Revision int32
	PK       bool
	Width    int32
	Height   int32
	Scroll   int32
	RelogX   int32
	RelogY   int32

	Tiles  [][]model.Tile // [x][y], width x height
	Chests []*model.Chest
	NPCs   []model.NPCSpawnEntry
}

// reader is a cursor over the EMF byte buffer with bounds-checked reads —
// every read can fail, and on failure the whole load fails (§4.2).
type reader struct {
	buf []byte
	pos int
}

func (r *reader) bytes(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("mapfile: unexpected EOF at offset %d reading %d bytes", r.pos, n)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) number(width int) (int64, error) {
	b, err := r.bytes(width)
	if err != nil {
		return 0, err
	}
	return eonum.DecodeNumberN(b), nil
}

func (r *reader) mustNumber(width int) int64 {
	v, err := r.number(width)
	if err != nil {
		panic(err) // recovered by Load's top-level guard
	}
	return v
}

// Load parses path as an EMF file. On any I/O or bounds error the load
// fails cleanly and no partial Loaded is returned — the caller is expected
// to mark the map non-existent and keep serving the process-wide fallback
// map (§4.2, §7 MapLoad).
func Load(path string) (loaded *Loaded, err error) {
	raw, ioErr := os.ReadFile(path)
	if ioErr != nil {
		return nil, fmt.Errorf("mapfile: reading %q: %v: %w", path, ioErr, apperr.ErrMapLoad)
	}
	loaded, err = LoadBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("mapfile: parsing %q: %v: %w", path, err, apperr.ErrMapLoad)
	}
	return loaded, nil
}

// LoadBytes parses an in-memory EMF buffer, for tests and for callers that
// already have the file contents.
func LoadBytes(raw []byte) (loaded *Loaded, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				err = fmt.Errorf("mapfile: %w", e)
			} else {
				err = fmt.Errorf("mapfile: %v", rec)
			}
			loaded = nil
		}
	}()

	r := &reader{buf: raw}

	// 1. 4-byte revision id.
	revision := int32(r.mustNumber(4))

	// 2. pk flag at fixed offset (1 byte).
	pk := r.mustNumber(1) != 0

	// 3. width+1, height+1, scroll, relogX, relogY (1 byte each, EO convention).
	width := int32(r.mustNumber(1)) - 1
	height := int32(r.mustNumber(1)) - 1
	scroll := int32(r.mustNumber(1))
	relogX := int32(r.mustNumber(1))
	relogY := int32(r.mustNumber(1))

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid map dimensions %dx%d", width, height)
	}

	// 4. Three skipped outer-arrays of fixed record widths (8, 4, 12 bytes).
	skipOuterArray(r, 8)
	skipOuterArray(r, 4)
	skipOuterArray(r, 12)

	tiles := make([][]model.Tile, width)
	for x := range tiles {
		tiles[x] = make([]model.Tile, height)
	}
	var chests []*model.Chest

	// 5. Tile-spec outer-array: per row (y, innerCount), then per inner (x, tag).
	rowCount := int(r.mustNumber(2))
	for i := 0; i < rowCount; i++ {
		y := int32(r.mustNumber(2))
		innerCount := int(r.mustNumber(1))
		for j := 0; j < innerCount; j++ {
			x := int32(r.mustNumber(1))
			tag := model.TileSpec(r.mustNumber(1))
			if x < 0 || x >= width || y < 0 || y >= height {
				slog.Warn("mapfile: tile out of bounds, skipping", "x", x, "y", y)
				continue
			}
			tiles[x][y].Spec = tag
			if tag == model.TileChest {
				chests = append(chests, &model.Chest{X: x, Y: y})
			}
		}
	}

	// 6. Warp outer-array: per row (y, innerCount), then per inner
	//    (x, targetMap, targetX, targetY, levelReq, doorSpec).
	warpRowCount := int(r.mustNumber(2))
	for i := 0; i < warpRowCount; i++ {
		y := int32(r.mustNumber(2))
		innerCount := int(r.mustNumber(1))
		for j := 0; j < innerCount; j++ {
			x := int32(r.mustNumber(1))
			targetMap := int32(r.mustNumber(2))
			targetX := int32(r.mustNumber(1))
			targetY := int32(r.mustNumber(1))
			levelReq := int32(r.mustNumber(1))
			door := model.DoorSpec(r.mustNumber(1))
			if x < 0 || x >= width || y < 0 || y >= height {
				slog.Warn("mapfile: warp out of bounds, skipping", "x", x, "y", y)
				continue
			}
			tiles[x][y].Warp = &model.Warp{
				TargetMap: targetMap,
				TargetX:   targetX,
				TargetY:   targetY,
				LevelReq:  levelReq,
				Door:      door,
			}
		}
	}

	// 7. NPC spawn outer-array: (x, y, npcDefId, spawnType, spawnTime, amount).
	npcSpawnCount := int(r.mustNumber(2))
	npcs := make([]model.NPCSpawnEntry, 0, npcSpawnCount)
	for i := 0; i < npcSpawnCount; i++ {
		x := int32(r.mustNumber(1))
		y := int32(r.mustNumber(1))
		defID := int32(r.mustNumber(2))
		spawnType := int32(r.mustNumber(1))
		spawnTime := int32(r.mustNumber(2))
		amount := int32(r.mustNumber(1))

		if x < 0 || x >= width || y < 0 || y >= height {
			slog.Warn("mapfile: npc spawn out of bounds, skipping", "x", x, "y", y, "defID", defID)
			continue
		}
		npcs = append(npcs, model.NPCSpawnEntry{
			X: x, Y: y, NpcDefID: defID, SpawnType: spawnType, SpawnTime: spawnTime, Amount: amount,
		})
	}

	// 8. Skipped outer-array of width 4.
	skipOuterArray(r, 4)

	// 9. Chest refill outer-array: (x, y, slot, itemId, refillMinutes, amount).
	chestRefillCount := int(r.mustNumber(2))
	for i := 0; i < chestRefillCount; i++ {
		x := int32(r.mustNumber(1))
		y := int32(r.mustNumber(1))
		slot := int32(r.mustNumber(1))
		itemID := int32(r.mustNumber(2))
		refillMinutes := int32(r.mustNumber(2))
		amount := int32(r.mustNumber(1))

		chest := findChest(chests, x, y)
		if chest == nil {
			slog.Warn("mapfile: chest refill points to non-chest tile, discarding", "x", x, "y", y, "itemID", itemID)
			continue
		}
		chest.Spawns = append(chest.Spawns, model.ChestSpawn{
			Slot: slot, ItemID: itemID, Amount: amount, RefillMinutes: refillMinutes,
		})
	}

	return &Loaded{
		Revision: revision,
		PK:       pk,
		Width:    width,
		Height:   height,
		Scroll:   scroll,
		RelogX:   relogX,
		RelogY:   relogY,
		Tiles:    tiles,
		Chests:   chests,
		NPCs:     npcs,
	}, nil
}

func findChest(chests []*model.Chest, x, y int32) *model.Chest {
	for _, c := range chests {
		if c.X == x && c.Y == y {
			return c
		}
	}
	return nil
}

func skipOuterArray(r *reader, recordWidth int) {
	count := int(r.mustNumber(2))
	for i := 0; i < count; i++ {
		r.mustNumber(recordWidth)
	}
}

// ValidateAgainstTables warns about NPC spawns that name an unknown def id
// (§4.2 item 7: "skips out-of-bounds spawns and unknown def ids with a
// warning") without failing the overall load.
func ValidateAgainstTables(l *Loaded, tables *data.Tables) []model.NPCSpawnEntry {
	valid := make([]model.NPCSpawnEntry, 0, len(l.NPCs))
	for _, spawn := range l.NPCs {
		if !tables.HasNpc(spawn.NpcDefID) {
			slog.Warn("mapfile: npc spawn references unknown def id, skipping", "defID", spawn.NpcDefID, "x", spawn.X, "y", spawn.Y)
			continue
		}
		valid = append(valid, spawn)
	}
	return valid
}

// WriteBytes re-serializes a Loaded map back into EMF bytes, used by the
// round-trip test (§8: "EMF load → re-serialize → load yields the same
// tables"). Only the records this loader actually parses are written —
// the three skipped outer-arrays round-trip as empty.
func WriteBytes(l *Loaded) []byte {
	var buf bytes.Buffer

	writeNumber(&buf, int64(l.Revision), 4)
	writeNumber(&buf, boolToInt(l.PK), 1)
	writeNumber(&buf, int64(l.Width+1), 1)
	writeNumber(&buf, int64(l.Height+1), 1)
	writeNumber(&buf, int64(l.Scroll), 1)
	writeNumber(&buf, int64(l.RelogX), 1)
	writeNumber(&buf, int64(l.RelogY), 1)

	writeEmptyOuterArray(&buf)
	writeEmptyOuterArray(&buf)
	writeEmptyOuterArray(&buf)

	writeTileRows(&buf, l)
	writeWarpRows(&buf, l)
	writeNpcSpawns(&buf, l)

	writeEmptyOuterArray(&buf)

	writeChestRefills(&buf, l)

	return buf.Bytes()
}

func writeNumber(w io.Writer, n int64, width int) {
	w.Write(eonum.EncodeNumberN(n, width))
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func writeEmptyOuterArray(w io.Writer) {
	writeNumber(w, 0, 2)
}

func writeTileRows(w io.Writer, l *Loaded) {
	type rowTile struct {
		x   int32
		tag model.TileSpec
	}
	rows := map[int32][]rowTile{}
	for x := range l.Tiles {
		for y := range l.Tiles[x] {
			if l.Tiles[x][y].Spec != model.TileNone {
				rows[int32(y)] = append(rows[int32(y)], rowTile{x: int32(x), tag: l.Tiles[x][y].Spec})
			}
		}
	}
	writeNumber(w, int64(len(rows)), 2)
	for y, entries := range rows {
		writeNumber(w, int64(y), 2)
		writeNumber(w, int64(len(entries)), 1)
		for _, e := range entries {
			writeNumber(w, int64(e.x), 1)
			writeNumber(w, int64(e.tag), 1)
		}
	}
}

func writeWarpRows(w io.Writer, l *Loaded) {
	type rowWarp struct {
		x    int32
		warp *model.Warp
	}
	rows := map[int32][]rowWarp{}
	for x := range l.Tiles {
		for y := range l.Tiles[x] {
			if l.Tiles[x][y].Warp != nil {
				rows[int32(y)] = append(rows[int32(y)], rowWarp{x: int32(x), warp: l.Tiles[x][y].Warp})
			}
		}
	}
	writeNumber(w, int64(len(rows)), 2)
	for y, entries := range rows {
		writeNumber(w, int64(y), 2)
		writeNumber(w, int64(len(entries)), 1)
		for _, e := range entries {
			writeNumber(w, int64(e.x), 1)
			writeNumber(w, int64(e.warp.TargetMap), 2)
			writeNumber(w, int64(e.warp.TargetX), 1)
			writeNumber(w, int64(e.warp.TargetY), 1)
			writeNumber(w, int64(e.warp.LevelReq), 1)
			writeNumber(w, int64(e.warp.Door), 1)
		}
	}
}

func writeNpcSpawns(w io.Writer, l *Loaded) {
	writeNumber(w, int64(len(l.NPCs)), 2)
	for _, s := range l.NPCs {
		writeNumber(w, int64(s.X), 1)
		writeNumber(w, int64(s.Y), 1)
		writeNumber(w, int64(s.NpcDefID), 2)
		writeNumber(w, int64(s.SpawnType), 1)
		writeNumber(w, int64(s.SpawnTime), 2)
		writeNumber(w, int64(s.Amount), 1)
	}
}

func writeChestRefills(w io.Writer, l *Loaded) {
	var total int
	for _, c := range l.Chests {
		total += len(c.Spawns)
	}
	writeNumber(w, int64(total), 2)
	for _, c := range l.Chests {
		for _, s := range c.Spawns {
			writeNumber(w, int64(c.X), 1)
			writeNumber(w, int64(c.Y), 1)
			writeNumber(w, int64(s.Slot), 1)
			writeNumber(w, int64(s.ItemID), 2)
			writeNumber(w, int64(s.RefillMinutes), 2)
			writeNumber(w, int64(s.Amount), 1)
		}
	}
}
