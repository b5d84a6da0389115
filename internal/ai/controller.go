// Package ai implements the per-NPC act cycle (§4.4): target selection
// over the damage list, the attack-or-walk-or-random-walk action choice,
// and the boss-child relink/cascade that runs alongside it.
//
// Grounded on the teacher's internal/ai/attackable_ai.go: a controller
// struct holding injected callbacks (AttackFunc, MoveFunc) so this
// package never imports internal/combat or internal/broadcast directly,
// the same way the teacher's AttackableAI takes attackFunc/scanFunc/
// moveFunc to avoid an import cycle with its CombatManager and world
// package. Unlike the teacher's per-monster goroutine-driven controller,
// Act here is a single synchronous call made by the map's own tick loop
// per §5 — there is one Controller per world, not one per NPC.
package ai

import (
	"math"
	"math/rand"
	"time"

	"github.com/eoserv-go/worldcore/internal/data"
	"github.com/eoserv-go/worldcore/internal/model"
	"github.com/eoserv-go/worldcore/internal/world"
)

// AttackFunc executes an NPC's melee attack against a character, deferring
// to internal/combat for the actual damage resolution (§4.7).
type AttackFunc func(npc *model.NPC, target *model.Character)

// WalkFunc commits an NPC's single-step move and handles the resulting
// vision-diff broadcast, deferring to internal/broadcast (§4.3).
type WalkFunc func(npc *model.NPC, from, to model.Location)

// Controller runs the act cycle for every live, acting NPC on a map
// (§4.4). One Controller serves the whole world; all state it needs is
// either passed in per call or owned by the Map/NPC it's acting on.
type Controller struct {
	Tables *data.Tables
	Rand   *rand.Rand

	ChaseDistance int32
	BoredTimer    time.Duration

	// ActSpeeds is the 7-entry speed table indexed by spawn type 0..6
	// (§4.4: "schedule the NPC's actSpeed from a 7-entry speed table").
	ActSpeeds [7]time.Duration

	OnAttack AttackFunc
	OnWalk   WalkFunc
}

// Act runs one act-cycle iteration for npc on map m at time now (§4.4).
// Called once per tick for every NPC whose lastAct+actSpeed has elapsed;
// the caller (the scheduler's act-npcs event) is responsible for that
// due-time filtering.
func (c *Controller) Act(npc *model.NPC, m *world.Map, now time.Time) {
	if !npc.Alive || !npc.CanAct() {
		return
	}

	c.relinkBossChild(npc, m)
	c.schedule(npc, now)

	if npc.WalkIdleFor > 0 {
		npc.WalkIdleFor--
		return
	}

	target := c.selectTarget(npc, m, now)
	switch {
	case target != nil && npc.Location.Adjacent(target.Location):
		if c.OnAttack != nil {
			c.OnAttack(npc, target)
		}
	case target != nil:
		c.faceAndWalkToward(npc, m, target.Location)
	default:
		c.randomWalk(npc, m)
	}
}

// schedule advances lastAct by a jittered step within
// [0.75*actSpeed, 1.25*actSpeed] (§4.4 step 2).
func (c *Controller) schedule(npc *model.NPC, now time.Time) {
	base := c.ActSpeeds[npc.SpawnType]
	jitter := 0.75 + c.Rand.Float64()*0.5
	npc.ActSpeed = time.Duration(float64(base) * jitter)
	npc.LastAct = now
}

// relinkBossChild re-links a child NPC with no parent to a live boss on
// the same map (§4.4 step 1). Matching is by presence: children are
// linked to whichever boss is currently alive on the map, since a map
// carries at most one active boss instance of a given encounter at a
// time — a design simplification SPEC_FULL.md does not further specify.
func (c *Controller) relinkBossChild(npc *model.NPC, m *world.Map) {
	if npc.Parent != nil {
		return
	}
	def := c.Tables.Npc(npc.DefID)
	if !def.Child {
		return
	}
	for _, candidate := range m.NPCs() {
		if !candidate.Alive || candidate == npc {
			continue
		}
		if c.Tables.Npc(candidate.DefID).Boss {
			npc.Parent = candidate
			return
		}
	}
}

// selectTarget scans the NPC's own damage list (and its parent's, for a
// child) for the closest recent attacker, then falls back to a global
// nearest-visible-character scan for aggressive NPCs (§4.4 step 4).
func (c *Controller) selectTarget(npc *model.NPC, m *world.Map, now time.Time) *model.Character {
	def := c.Tables.Npc(npc.DefID)
	if def.Type != model.NpcPassive && def.Type != model.NpcAggressive {
		return nil
	}

	if target := c.closestRecentAttacker(npc, now); target != nil {
		return target
	}

	if def.Type != model.NpcAggressive {
		return nil
	}
	return c.closestVisibleCharacter(npc, m)
}

func (c *Controller) closestRecentAttacker(npc *model.NPC, now time.Time) *model.Character {
	lists := [][]model.DamageEntry{npc.DamageList}
	if npc.Parent != nil {
		lists = append(lists, npc.Parent.DamageList)
	}

	var best *model.Character
	bestDist := int32(math.MaxInt32)
	var bestDamage int64 = -1

	for _, list := range lists {
		for _, entry := range list {
			if now.Sub(entry.LastHit) > c.BoredTimer {
				continue
			}
			dist := npc.Location.ChebyshevDistance(entry.Attacker.Location)
			if dist > c.ChaseDistance {
				continue
			}
			if dist < bestDist || (dist == bestDist && entry.Damage > bestDamage) {
				best = entry.Attacker
				bestDist = dist
				bestDamage = entry.Damage
			}
		}
	}
	return best
}

func (c *Controller) closestVisibleCharacter(npc *model.NPC, m *world.Map) *model.Character {
	var best *model.Character
	bestDist := int32(math.MaxInt32)
	for _, ch := range m.Characters() {
		dist := npc.Location.ChebyshevDistance(ch.Location)
		if dist <= c.ChaseDistance && dist < bestDist {
			best = ch
			bestDist = dist
		}
	}
	return best
}

// faceAndWalkToward faces the NPC along the dominant axis toward dest and
// takes one step; a blocked step rotates 90 degrees, then falls back to a
// random direction (§4.4 step 5).
func (c *Controller) faceAndWalkToward(npc *model.NPC, m *world.Map, dest model.Location) {
	dir := directionTowards(npc.Location, dest)
	npc.Location.Direction = dir
	if c.step(npc, m, dir) {
		return
	}

	if c.step(npc, m, rotate90(dir)) {
		return
	}
	dir = randomDirection(c.Rand)
	npc.Location.Direction = dir
	c.step(npc, m, dir)
}

// randomWalk performs the no-target idle behavior: 60% walk forward, 30%
// change direction and walk, 10% idle for 1..4 ticks (§4.4 step 5).
func (c *Controller) randomWalk(npc *model.NPC, m *world.Map) {
	roll := c.Rand.Intn(100)
	switch {
	case roll < 60:
		c.step(npc, m, npc.Location.Direction)
	case roll < 90:
		dir := randomDirection(c.Rand)
		npc.Location.Direction = dir
		c.step(npc, m, dir)
	default:
		npc.WalkIdleFor = int32(1 + c.Rand.Intn(4))
	}
}

// step attempts a single-tile move in dir, committing it via OnWalk on
// success. Returns whether the move succeeded.
func (c *Controller) step(npc *model.NPC, m *world.Map, dir model.Direction) bool {
	from := npc.Location
	to := from.WithCoordinates(stepCoordinates(from.X, from.Y, dir))
	to.Direction = dir
	if !m.Walkable(to.X, to.Y, true) {
		return false
	}
	npc.Location = to
	if c.OnWalk != nil {
		c.OnWalk(npc, from, to)
	}
	return true
}

func stepCoordinates(x, y int32, dir model.Direction) (int32, int32) {
	switch dir {
	case model.DirectionDown:
		return x, y + 1
	case model.DirectionUp:
		return x, y - 1
	case model.DirectionLeft:
		return x - 1, y
	case model.DirectionRight:
		return x + 1, y
	}
	return x, y
}

// directionTowards picks the dominant-axis facing from `from` to `to`.
//
// Grounded on §9's resolved Open Question: the original source's
// DIRECTION_DOWN case compared the wrong axis (target_x against from->x).
// This implementation always compares the axis matching the direction it
// returns — vertical deltas decide Up/Down, horizontal deltas decide
// Left/Right — so the bug has no equivalent here.
func directionTowards(from, to model.Location) model.Direction {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if abs32(dy) >= abs32(dx) {
		if dy > 0 {
			return model.DirectionDown
		}
		return model.DirectionUp
	}
	if dx > 0 {
		return model.DirectionRight
	}
	return model.DirectionLeft
}

func rotate90(dir model.Direction) model.Direction {
	switch dir {
	case model.DirectionDown:
		return model.DirectionLeft
	case model.DirectionLeft:
		return model.DirectionUp
	case model.DirectionUp:
		return model.DirectionRight
	default:
		return model.DirectionDown
	}
}

func randomDirection(r *rand.Rand) model.Direction {
	return model.Direction(r.Intn(4))
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
