package ai

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/eoserv-go/worldcore/internal/data"
	"github.com/eoserv-go/worldcore/internal/model"
	"github.com/eoserv-go/worldcore/internal/world"
)

// PlacePoint finds a walkable, ideally unoccupied tile near (anchorX,
// anchorY) to spawn or respawn an NPC (§4.4 "Spawn placement"): up to 200
// random points within +/-2 of the anchor, requiring unoccupied for the
// first 100, then a linear scan of the whole map as a last resort.
func PlacePoint(m *world.Map, anchorX, anchorY int32, r *rand.Rand) (x, y int32, ok bool) {
	occupied := occupiedSet(m)

	for attempt := 0; attempt < 200; attempt++ {
		px := anchorX + int32(r.Intn(5)) - 2
		py := anchorY + int32(r.Intn(5)) - 2
		if !m.Walkable(px, py, true) {
			continue
		}
		if attempt < 100 && occupied[tileKey(px, py)] {
			continue
		}
		return px, py, true
	}

	for sx := int32(0); sx < m.Width; sx++ {
		for sy := int32(0); sy < m.Height; sy++ {
			if m.Walkable(sx, sy, true) && !occupied[tileKey(sx, sy)] {
				return sx, sy, true
			}
		}
	}

	return 0, 0, false
}

func occupiedSet(m *world.Map) map[int64]bool {
	set := make(map[int64]bool)
	for _, npc := range m.NPCs() {
		if npc.Alive {
			set[tileKey(npc.Location.X, npc.Location.Y)] = true
		}
	}
	for _, ch := range m.Characters() {
		set[tileKey(ch.Location.X, ch.Location.Y)] = true
	}
	return set
}

func tileKey(x, y int32) int64 {
	return int64(x)<<32 | int64(uint32(y))
}

// LinkChildrenToBoss re-links every live child-def NPC on the map to boss
// (§4.4 "Boss linkage": "On boss Spawn, spawn every child NPC on the map
// with parent=self"). Children are identified by their NpcDef.Child flag;
// every live child is attached to boss, replacing any parent it already
// carries.
func LinkChildrenToBoss(boss *model.NPC, m *world.Map, tables *data.Tables) {
	for _, candidate := range m.NPCs() {
		if candidate == boss || !candidate.Alive {
			continue
		}
		if tables.Npc(candidate.DefID).Child {
			candidate.Parent = boss
		}
	}
}

// KillCascade kills every live child of boss in the same tick (§4.4: "On
// boss death, every child is also killed in the same broadcast"), and
// reports whether every killed child shares a single def id — the caller
// uses that to decide between per-child death frames and a single "junk"
// notification (§8 scenario 3).
func KillCascade(boss *model.NPC, m *world.Map, now time.Time) (children []*model.NPC, sharedDefID int32, allSameDef bool) {
	allSameDef = true
	for _, candidate := range m.NPCs() {
		if candidate == boss || !candidate.Alive || candidate.Parent != boss {
			continue
		}
		candidate.Alive = false
		candidate.DeadSince = now
		children = append(children, candidate)

		if sharedDefID == 0 {
			sharedDefID = candidate.DefID
		} else if sharedDefID != candidate.DefID {
			allSameDef = false
		}
	}
	if len(children) == 0 {
		allSameDef = false
	}
	return children, sharedDefID, allSameDef
}

// LogUnplaceable records a spawn that could not be placed anywhere on the
// map (§4.4: "If still unplaced, log and do not mark alive").
func LogUnplaceable(m *world.Map, defID, anchorX, anchorY int32) {
	slog.Warn("ai: could not place npc spawn, leaving unspawned",
		"mapID", m.ID, "defID", defID, "anchorX", anchorX, "anchorY", anchorY)
}
