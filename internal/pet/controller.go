// Package pet implements the pet subsystem (§4.5): Following, Guarding,
// and Attacking modes for an NPC bound to an owner character, map
// transfer when the owner warps away, and an A* pathing fallback for
// moves a greedy step can't make.
//
// Grounded on the teacher's internal/ai/summon_ai.go: a controller with
// an injected attack callback and a mode-driven Tick/think dispatch
// (Follow/Attack intentions), adapted from the teacher's continuously
// polled owner-lookup (getObjectFunc by id) to a direct owner pointer,
// since §3 already holds NPC.Pet.Owner as a live reference rather than an
// id to re-resolve every tick.
package pet

import (
	"math/rand"
	"time"

	"github.com/eoserv-go/worldcore/internal/data"
	"github.com/eoserv-go/worldcore/internal/model"
	"github.com/eoserv-go/worldcore/internal/world"
)

// AttackFunc executes a pet's strike against a target NPC via the
// NPC-vs-NPC damage path (§4.7), using PetMin/PetMax and
// PetDamageMultiplier. Kept out of this package to avoid importing
// internal/combat.
type AttackFunc func(pet, target *model.NPC)

// WalkFunc commits a pet's single-step move, mirroring ai.WalkFunc.
type WalkFunc func(pet *model.NPC, from, to model.Location)

// Controller runs the act cycle for every live pet (§4.5).
type Controller struct {
	Tables *data.Tables
	Rand   *rand.Rand

	ChaseDistance int32 // PetChaseDistance
	GuardDistance int32 // PetGuardDistance
	MaxPathExpand int   // bound on A* frontier expansion before giving up

	OnAttack AttackFunc
	OnWalk   WalkFunc
}

// Act runs one act-cycle iteration for pet. currentMap is the map the pet
// is presently registered on; ownerMap is the map its owner currently
// occupies. When they differ the pet transfers (§4.5 "If the owner leaves
// the pet's map..."); the transfer itself removes the pet from
// currentMap's roster and adds it to ownerMap's. Act returns the map the
// pet ends up registered on.
func (c *Controller) Act(pet *model.NPC, currentMap, ownerMap *world.Map, now time.Time) *world.Map {
	if !pet.Alive || pet.Pet == nil {
		return currentMap
	}
	owner := pet.Pet.Owner

	if currentMap.ID != ownerMap.ID {
		return c.transfer(pet, currentMap, ownerMap)
	}

	switch pet.Pet.Mode {
	case model.PetFollowing:
		c.follow(pet, owner, currentMap)
	case model.PetGuarding:
		c.guard(pet, owner, currentMap, now)
	case model.PetAttacking:
		c.attack(pet, owner, currentMap, now)
	}
	return currentMap
}

// transfer moves pet from currentMap's roster to ownerMap's, snapping it
// to one tile behind the owner in the owner's facing direction, or onto
// the owner's own tile if that's blocked (§4.5, §8 scenario 6).
func (c *Controller) transfer(pet *model.NPC, currentMap, ownerMap *world.Map) *world.Map {
	currentMap.RemoveNPC(pet.Index)

	owner := pet.Pet.Owner
	behindX, behindY := stepBack(owner.Location)
	if ownerMap.Walkable(behindX, behindY, true) {
		pet.Location = model.NewLocation(behindX, behindY, owner.Location.Direction)
	} else {
		pet.Location = model.NewLocation(owner.Location.X, owner.Location.Y, owner.Location.Direction)
	}

	ownerMap.AddNPC(pet)
	return ownerMap
}

// follow implements the default Following mode (§4.5).
func (c *Controller) follow(pet *model.NPC, owner *model.Character, m *world.Map) {
	if pet.Location.ChebyshevDistance(owner.Location) > 1 {
		c.moveToward(pet, m, owner.Location.X, owner.Location.Y)
		return
	}
	behindX, behindY := stepBack(owner.Location)
	if m.Walkable(behindX, behindY, true) {
		from := pet.Location
		pet.Location = model.NewLocation(behindX, behindY, owner.Location.Direction)
		if c.OnWalk != nil {
			c.OnWalk(pet, from, pet.Location)
		}
	} else {
		pet.Location.Direction = owner.Location.Direction
	}
}

// guard implements the Guarding mode: stay near the owner, engage any
// hostile NPC adjacent to the owner (§4.5).
func (c *Controller) guard(pet *model.NPC, owner *model.Character, m *world.Map, now time.Time) {
	if hostile := c.nearestHostileTo(owner.Location, m, 1); hostile != nil {
		if pet.Location.Adjacent(hostile.Location) {
			c.strike(pet, hostile)
		} else {
			c.moveToward(pet, m, hostile.Location.X, hostile.Location.Y)
		}
		return
	}
	if pet.Location.ChebyshevDistance(owner.Location) > c.GuardDistance {
		c.moveToward(pet, m, owner.Location.X, owner.Location.Y)
	}
}

// attack implements the Attacking mode, including the resolved Open
// Question behavior (§9): finish the current target if adjacent, else
// break off and return to the owner; never retarget while out of guard
// range (§4.5).
func (c *Controller) attack(pet *model.NPC, owner *model.Character, m *world.Map, now time.Time) {
	outOfGuardRange := pet.Location.ChebyshevDistance(owner.Location) > c.GuardDistance

	target := pet.Pet.Target
	if target == nil || !target.Alive {
		if outOfGuardRange {
			c.moveToward(pet, m, owner.Location.X, owner.Location.Y)
			return
		}
		target = c.nearestHostileTo(pet.Location, m, c.ChaseDistance)
		pet.Pet.Target = target
		if target == nil {
			return
		}
	}

	if outOfGuardRange {
		if pet.Location.Adjacent(target.Location) {
			c.strike(pet, target)
		} else {
			pet.Pet.Target = nil
			c.moveToward(pet, m, owner.Location.X, owner.Location.Y)
		}
		return
	}

	if pet.Location.Adjacent(target.Location) {
		c.strike(pet, target)
		return
	}
	c.moveToward(pet, m, target.Location.X, target.Location.Y)
}

func (c *Controller) strike(pet, target *model.NPC) {
	if c.OnAttack != nil {
		c.OnAttack(pet, target)
	}
}

// nearestHostileTo scans m for the nearest alive aggressive/passive,
// non-pet NPC within maxDist of loc.
func (c *Controller) nearestHostileTo(loc model.Location, m *world.Map, maxDist int32) *model.NPC {
	var best *model.NPC
	bestDist := maxDist + 1
	for _, n := range m.NPCs() {
		if !n.Alive || n.IsPet() {
			continue
		}
		def := c.Tables.Npc(n.DefID)
		if def.Type != model.NpcAggressive && def.Type != model.NpcPassive {
			continue
		}
		dist := loc.ChebyshevDistance(n.Location)
		if dist <= maxDist && dist < bestDist {
			best = n
			bestDist = dist
		}
	}
	return best
}

// moveToward advances pet one tile toward (tx,ty): a greedy dominant-axis
// step, falling back to a bounded A* search when the greedy step is
// blocked (§4.5 "Pathing"), and to a random direction if no path is found.
func (c *Controller) moveToward(pet *model.NPC, m *world.Map, tx, ty int32) {
	dir := directionTowards(pet.Location.X, pet.Location.Y, tx, ty)
	if c.step(pet, m, dir) {
		return
	}

	path, ok := FindPath(m, pet.Location.X, pet.Location.Y, tx, ty, maxExpandOrDefault(c.MaxPathExpand))
	if ok && len(path) > 0 {
		next := path[0]
		dir := directionTowards(pet.Location.X, pet.Location.Y, next.X, next.Y)
		c.step(pet, m, dir)
		return
	}

	if c.Rand != nil {
		c.step(pet, m, model.Direction(c.Rand.Intn(4)))
	}
}

func maxExpandOrDefault(v int) int {
	if v <= 0 {
		return 200
	}
	return v
}

func (c *Controller) step(pet *model.NPC, m *world.Map, dir model.Direction) bool {
	from := pet.Location
	nx, ny := stepCoordinates(from.X, from.Y, dir)
	if !m.Walkable(nx, ny, true) {
		return false
	}
	pet.Location = model.NewLocation(nx, ny, dir)
	if c.OnWalk != nil {
		c.OnWalk(pet, from, pet.Location)
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

// stepBack returns the tile one step behind loc, opposite its facing —
// where a following pet snaps to (§4.5).
func stepBack(loc model.Location) (int32, int32) {
	switch loc.Direction {
	case model.DirectionDown:
		return loc.X, loc.Y - 1
	case model.DirectionUp:
		return loc.X, loc.Y + 1
	case model.DirectionLeft:
		return loc.X + 1, loc.Y
	case model.DirectionRight:
		return loc.X - 1, loc.Y
	}
	return loc.X, loc.Y
}

func directionTowards(fromX, fromY, toX, toY int32) model.Direction {
	dx := toX - fromX
	dy := toY - fromY
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
