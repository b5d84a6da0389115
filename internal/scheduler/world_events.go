package scheduler

import (
	"math/rand"
	"time"

	"github.com/eoserv-go/worldcore/internal/ai"
	"github.com/eoserv-go/worldcore/internal/chest"
	"github.com/eoserv-go/worldcore/internal/data"
	"github.com/eoserv-go/worldcore/internal/model"
	"github.com/eoserv-go/worldcore/internal/pet"
	"github.com/eoserv-go/worldcore/internal/world"
)

// Config bundles the §4.10/§6 tunables that drive the registered
// periodic events. Periods use the table's literal defaults where the
// spec fixes them (ActNPCs, SpawnNPCs, WarpSuck, the chest sweep); the
// rest are config-file driven in the real deployment and simply passed
// through here.
type Config struct {
	ActNPCsPeriod      time.Duration // fixed 50ms (§4.4)
	SpawnNPCsPeriod    time.Duration // fixed 1s
	ChestRefillPeriod  time.Duration // sweep cadence; each chest's own 60s-per-slot due-check happens inside RefillTick
	RecoverPeriod      time.Duration // RecoverSpeed
	NPCRecoverPeriod   time.Duration // NPCRecoverSpeed
	WarpSuckPeriod     time.Duration // fixed 1s
	DespawnItemsPeriod time.Duration // ItemDespawnCheck
	TimedSavePeriod    time.Duration // TimedSave
	SpikePeriod        time.Duration
	DrainPeriod        time.Duration
	QuakePeriod        time.Duration

	HPRecoverRate, TPRecoverRate       float64
	SitHPRecoverRate, SitTPRecoverRate float64
	NPCRecoverRate                     float64

	WarpSuckRest    time.Duration // seconds of rest required before auto-warping
	ItemDespawnRate time.Duration

	SpikeDamage, DrainDamage, QuakeDamage int32

	SpawnRate float64 // scales NPC.SpawnTime (§4.10 "spawn-npcs")
}

// Hooks are the side effects the scheduler can't resolve on its own —
// persistence and outbound broadcast, supplied by the caller the same
// way combat.Resolver and chest.RefillTick take callback fields instead
// of importing internal/db or internal/broadcast directly.
type Hooks struct {
	OnTimedSave   func(now time.Time)
	OnChestRefill chest.BroadcastFunc
}

// RegisterWorldEvents wires every §4.10 periodic event onto s, closing
// over w, the AI controllers, and rng. startAt is the first due time for
// every event (typically "now" at process start).
func RegisterWorldEvents(s *Scheduler, w *world.World, cfg Config, aiCtl *ai.Controller, petCtl *pet.Controller, rng *rand.Rand, hooks Hooks, startAt time.Time) {
	s.Register("act-npcs", cfg.ActNPCsPeriod, startAt, func(now time.Time) {
		actNPCs(w, aiCtl, petCtl, now)
	})
	s.Register("spawn-npcs", cfg.SpawnNPCsPeriod, startAt, func(now time.Time) {
		respawnDueNPCs(w, cfg.SpawnRate, aiCtl.Tables, rng, now)
	})
	s.Register("recover", cfg.RecoverPeriod, startAt, func(now time.Time) {
		recoverCharacters(w, cfg)
	})
	s.Register("npc-recover", cfg.NPCRecoverPeriod, startAt, func(now time.Time) {
		recoverNPCs(w, aiCtl.Tables, cfg.NPCRecoverRate)
	})
	s.Register("warp-suck", cfg.WarpSuckPeriod, startAt, func(now time.Time) {
		warpSuck(w, cfg.WarpSuckRest, now)
	})
	s.Register("despawn-items", cfg.DespawnItemsPeriod, startAt, func(now time.Time) {
		despawnItems(w, cfg.ItemDespawnRate, now)
	})
	if hooks.OnTimedSave != nil {
		s.Register("timed-save", cfg.TimedSavePeriod, startAt, hooks.OnTimedSave)
	}
	s.Register("spikes", cfg.SpikePeriod, startAt, func(now time.Time) {
		applyHazard(w, model.TileSpikesTimed, cfg.SpikeDamage)
	})
	s.Register("drains", cfg.DrainPeriod, startAt, func(now time.Time) {
		applyHazard(w, model.TileSpikesTrap, cfg.DrainDamage)
	})
	s.Register("quakes", cfg.QuakePeriod, startAt, func(now time.Time) {
		applyHazard(w, model.TileSpikesStatic, cfg.QuakeDamage)
	})
	s.Register("chest-refill", cfg.ChestRefillPeriod, startAt, func(now time.Time) {
		for _, m := range w.Maps() {
			chest.RefillTick(m, now, rng, hooks.OnChestRefill)
		}
	})
}

// actNPCs runs one 4.4 act cycle for every map's live, non-pet NPCs whose
// lastAct+actSpeed is due, and one pet act cycle for every live pet,
// every call (§4.10: "act-npcs 0.05s — 4.4 loop"; pets have no separate
// due-time gate of their own, see internal/pet.Controller.Act).
func actNPCs(w *world.World, aiCtl *ai.Controller, petCtl *pet.Controller, now time.Time) {
	for _, m := range w.Maps() {
		for _, npc := range m.NPCs() {
			if !npc.Alive {
				continue
			}
			if npc.IsPet() {
				owner := npc.Pet.Owner
				if owner == nil {
					continue
				}
				ownerMap := w.Map(owner.MapID)
				petCtl.Act(npc, m, ownerMap, now)
				continue
			}
			if !npc.LastAct.Add(npc.ActSpeed).After(now) {
				aiCtl.Act(npc, m, now)
			}
		}
	}
}

// respawnDueNPCs refills every dead, non-pet NPC whose deadSince +
// spawnTime·SpawnRate has elapsed, re-placing it near its spawn anchor
// and relinking any boss children (§4.10 "spawn-npcs").
func respawnDueNPCs(w *world.World, spawnRate float64, tables *data.Tables, rng *rand.Rand, now time.Time) {
	for _, m := range w.Maps() {
		for _, npc := range m.NPCs() {
			if npc.Alive || npc.IsPet() {
				continue
			}
			delay := time.Duration(float64(npc.SpawnTime) * spawnRate * float64(time.Second))
			if now.Before(npc.DeadSince.Add(delay)) {
				continue
			}
			x, y, ok := ai.PlacePoint(m, npc.SpawnX, npc.SpawnY, rng)
			if !ok {
				continue
			}
			def := tables.Npc(npc.DefID)
			npc.Location = model.NewLocation(x, y, model.DirectionDown)
			npc.HP = def.HP
			npc.Alive = true
			npc.DeadSince = time.Time{}
			npc.ClearDamageList()
			if def.Boss {
				ai.LinkChildrenToBoss(npc, m, tables)
			}
		}
	}
}

// recoverCharacters applies one HP/TP regen tick to every active
// character, using the sitting-variant rate when seated (§4.10
// "recover").
func recoverCharacters(w *world.World, cfg Config) {
	for _, c := range w.Characters() {
		hpRate, tpRate := cfg.HPRecoverRate, cfg.TPRecoverRate
		if c.Sitting {
			hpRate, tpRate = cfg.SitHPRecoverRate, cfg.SitTPRecoverRate
		}
		c.HP = clampInt32(c.HP+int32(float64(c.MaxHP)*hpRate), 0, c.MaxHP)
		c.TP = clampInt32(c.TP+int32(float64(c.MaxTP)*tpRate), 0, c.MaxTP)
	}
}

// recoverNPCs applies one HP regen tick to every live NPC below its
// definition's max HP (§4.10 "npc-recover", grounded verbatim on
// original_source/src/world.cpp's world_npc_recover: hp += ENF().hp *
// NPCRecoverRate, clamped to ENF().hp).
func recoverNPCs(w *world.World, tables *data.Tables, rate float64) {
	for _, m := range w.Maps() {
		for _, npc := range m.NPCs() {
			if !npc.Alive {
				continue
			}
			def := tables.Npc(npc.DefID)
			if npc.HP >= def.HP {
				continue
			}
			npc.HP = clampInt32(npc.HP+int32(float64(def.HP)*rate), 0, def.HP)
		}
	}
}

// warpSuck auto-warps a character standing on, or orthogonally adjacent
// to, a walkable warp after it has rested (not moved) for at least rest
// (§4.10 "warp-suck", grounded on original_source/src/world.cpp's
// world_warp_suck).
func warpSuck(w *world.World, rest time.Duration, now time.Time) {
	for _, m := range w.Maps() {
		for _, c := range m.Characters() {
			if now.Sub(c.LastMoveAt) < rest {
				continue
			}
			warp := findAdjacentWarp(m, c)
			if warp == nil || warp.LevelReq > c.Level {
				continue
			}
			c.LastMoveAt = now
			w.WarpCharacter(c, warp.TargetMap, warp.TargetX, warp.TargetY, c.Location.Direction)
		}
	}
}

func findAdjacentWarp(m *world.Map, c *model.Character) *model.Warp {
	x, y := c.Location.X, c.Location.Y
	candidates := [][2]int32{{x, y}, {x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}}
	for _, xy := range candidates {
		if warp := m.Tile(xy[0], xy[1]).Warp; warp != nil {
			return warp
		}
	}
	return nil
}

// despawnItems removes every ground item whose protection window expired
// more than ItemDespawnRate ago (§4.10 "despawn-items", grounded on
// original_source/src/world.cpp's world_despawn_items, which reuses the
// same unprotecttime field as both the pickup-protection deadline and
// the despawn basis).
func despawnItems(w *world.World, despawnAfter time.Duration, now time.Time) {
	for _, m := range w.Maps() {
		for _, item := range m.GroundItems() {
			if now.Sub(item.UnprotectDeadline) > despawnAfter {
				m.RemoveGroundItem(item.UID)
			}
		}
	}
}

// applyHazard damages every character standing on a tile tagged spec, by
// flat amount, across every map (§4.10 "spikes / drains / quakes").
func applyHazard(w *world.World, spec model.TileSpec, amount int32) {
	if amount <= 0 {
		return
	}
	for _, m := range w.Maps() {
		for _, c := range m.Characters() {
			if m.Tile(c.Location.X, c.Location.Y).Spec != spec {
				continue
			}
			c.HP = clampInt32(c.HP-amount, 0, c.MaxHP)
		}
	}
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
