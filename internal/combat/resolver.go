package combat

import (
	"math/rand"
	"time"

	"github.com/eoserv-go/worldcore/internal/data"
	"github.com/eoserv-go/worldcore/internal/model"
	"github.com/eoserv-go/worldcore/internal/world"
)

// HealthUpdateFunc broadcasts a non-fatal hit to in-range observers (§4.6
// "If hp>0, broadcast a health-update frame to in-range observers").
// Kept out of this package's direct dependencies (rather than importing
// internal/broadcast) to avoid a cycle, the same callback-injection
// pattern internal/ai and internal/pet use for their OnAttack/OnWalk hooks.
type HealthUpdateFunc func(attacker, target any, damage int32, critical bool, m *world.Map)

// KillFunc is invoked once a kill's reward split (§4.8) has been fully
// computed and applied, so the caller can broadcast the frame and
// propagate to quests/party.
type KillFunc func(result KillResult)

// Resolver bundles the config, formula engine, and RNG behind every
// combat path (§4.6-4.8) plus the broadcast/kill callbacks.
type Resolver struct {
	Tables   *data.Tables
	Formulas *Engine
	Rand     *rand.Rand
	Config   Config

	OnHealthUpdate HealthUpdateFunc
	OnKill         KillFunc
}

// AttackRequest is the client-supplied intent behind a player's melee or
// ranged swing (§4.6 preconditions).
type AttackRequest struct {
	RequestedDirection model.Direction
	TimestampDelta     int32 // ticks since the attacker's last recorded attack
	Ranged             bool
}

// ValidateAttack applies the §4.6 preconditions and direction rule:
// "attacker is standing, within weight limit [out of scope for this
// module, §1 — inventory/weight live on the session collaborator],
// below per-session attack-rate cap, and the client-supplied timestamp
// advanced by ≥48 ticks since the last attack (when timestamp
// enforcement is on). Direction is taken from the request unless the
// gap is ≥60, in which case the attacker's own direction is kept."
//
// attackRateOK is the caller's own per-session rate-limit check (the
// session collaborator owns that counter, not this module).
func ValidateAttack(attacker *model.Character, req AttackRequest, enforceTimestamps, attackRateOK bool) (direction model.Direction, ok bool) {
	if attacker.Sitting || !attackRateOK {
		return attacker.Location.Direction, false
	}
	if enforceTimestamps && req.TimestampDelta < 48 {
		return attacker.Location.Direction, false
	}
	if req.TimestampDelta >= 60 {
		return attacker.Location.Direction, true
	}
	return req.RequestedDirection, true
}

// AttackRange returns the tile range for an attack (§4.6: "1 for melee;
// RangedDistance for ranged weapons").
func (c Config) AttackRange(ranged bool) int32 {
	if ranged {
		return c.RangedDistance
	}
	return 1
}

// FindLineTarget walks the straight line from (from.X,from.Y) in dir up
// to maxRange tiles, stopping at the first non-NPC-walkable tile, and
// returns the first live NPC tile hit, or nil (§4.6).
func FindLineTarget(m *world.Map, from model.Location, dir model.Direction, maxRange int32) *model.NPC {
	x, y := from.X, from.Y
	for i := int32(0); i < maxRange; i++ {
		x, y = stepCoordinates(x, y, dir)
		if npc := npcAt(m, x, y); npc != nil && npc.Alive {
			return npc
		}
		if !m.Walkable(x, y, true) {
			return nil
		}
	}
	return nil
}

func npcAt(m *world.Map, x, y int32) *model.NPC {
	for _, n := range m.NPCs() {
		if n.Alive && n.Location.X == x && n.Location.Y == y {
			return n
		}
	}
	return nil
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

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// facesDirectly reports whether the location facing toward points
// straight at target — used for the §4.6 "target faces attacker
// directly" hit-rate penalty.
func facesDirectly(facing model.Location, target model.Location) bool {
	return directionTowards(facing.X, facing.Y, target.X, target.Y) == facing.Direction
}

// PlayerAttackNPC resolves a player's melee/ranged swing against npc
// (§4.6). Returns true if the NPC died from this hit, in which case Kill
// has already run and OnKill has already fired.
func (r *Resolver) PlayerAttackNPC(attacker *model.Character, npc *model.NPC, m *world.Map) bool {
	def := r.Tables.Npc(npc.DefID)
	facesAttacker := facesDirectly(npc.Location, attacker.Location)

	damage, critical := ResolveDamage(DamageInput{
		MinDamage:           attacker.MinDamage,
		MaxDamage:           attacker.MaxDamage,
		Accuracy:            attacker.Accuracy,
		TargetEvade:         def.Evade,
		TargetArmor:         def.Armor,
		TargetFacesAttacker: facesAttacker,
		MobRate:             r.Config.MobRate,
		CriticalRate:        r.Config.CriticalRate,
	}, r.Formulas, r.Rand)

	if r.Config.LimitDamage && damage > npc.HP {
		damage = npc.HP
	}
	npc.HP -= damage
	npc.AddDamage(attacker, damage)

	if npc.HP > 0 {
		if r.OnHealthUpdate != nil {
			r.OnHealthUpdate(attacker, npc, damage, critical, m)
		}
		return false
	}

	r.Kill(npc, attacker, m, time.Now())
	return true
}

// NPCAttackCharacter resolves an NPC's strike against a player character
// (§4.7): "uses the same formula path with target_ prefixed variables and
// the reverse facing rule for critical" — resolved here as checking the
// target character's own facing toward the NPC (the mirror image of the
// player→NPC path's attacker-facing check), since the spec names the
// swap without spelling out which side's direction gates which outcome.
func (r *Resolver) NPCAttackCharacter(npc *model.NPC, target *model.Character, m *world.Map) (damage int32, critical bool, killed bool) {
	def := r.Tables.Npc(npc.DefID)
	targetFacesAttacker := facesDirectly(target.Location, npc.Location)

	damage, critical = ResolveDamage(DamageInput{
		MinDamage:           def.MinDamage,
		MaxDamage:           def.MaxDamage,
		Accuracy:            def.Accuracy,
		TargetEvade:         target.Evade,
		TargetArmor:         target.Armor,
		TargetFacesAttacker: targetFacesAttacker,
		MobRate:             r.Config.MobRate,
		CriticalRate:        r.Config.CriticalRate,
	}, r.Formulas, r.Rand)

	if r.Config.LimitDamage && damage > target.HP {
		damage = target.HP
	}
	target.HP -= damage
	killed = target.HP <= 0

	if !killed && r.OnHealthUpdate != nil {
		r.OnHealthUpdate(npc, target, damage, critical, m)
	}
	// Target death triggers a respawn path handled by the player-session
	// collaborator (§4.7) — out of scope here.
	return damage, critical, killed
}

// PetAttackNPC resolves a pet's strike against another NPC (§4.7): "NPC→
// NPC is used by pets: damage applies directly to the target NPC; the
// damage-list attacker is recorded as the pet's owner."
func (r *Resolver) PetAttackNPC(pet, target *model.NPC, m *world.Map) (damage int32, killed bool) {
	damage = ResolvePetDamage(pet.Pet.MinDamage, pet.Pet.MaxDamage, r.petMultiplier(), r.Rand)
	if r.Config.LimitDamage && damage > target.HP {
		damage = target.HP
	}
	target.HP -= damage
	target.AddDamage(pet.Pet.Owner, damage)
	killed = target.HP <= 0

	if !killed && r.OnHealthUpdate != nil {
		r.OnHealthUpdate(pet, target, damage, false, m)
	} else if killed {
		r.Kill(target, pet.Pet.Owner, m, time.Now())
	}
	return damage, killed
}

func (r *Resolver) petMultiplier() float64 {
	if r.Config.PetDamageMultiplier == 0 {
		return 1.0
	}
	return r.Config.PetDamageMultiplier
}

// PvPResult reports the outcome of a player-vs-player strike (§4.7).
type PvPResult struct {
	Damage   int32
	Critical bool
	Killed   bool
}

// PvPAttack resolves a PvP strike on a pk-flagged map (or under the
// global-PK exception list, enforced by the caller before calling this):
// "follows the same formula path with a PKRate scalar and deposits a
// death at the target's spawn point, dropping all items if Deadly."
// Respawn placement and item-drop-all are session-layer concerns; this
// returns the resolved damage/kill so the caller can drive them.
func (r *Resolver) PvPAttack(attacker, target *model.Character, m *world.Map) PvPResult {
	facesAttacker := facesDirectly(target.Location, attacker.Location)

	raw, critical := ResolveDamage(DamageInput{
		MinDamage:           attacker.MinDamage,
		MaxDamage:           attacker.MaxDamage,
		Accuracy:            attacker.Accuracy,
		TargetEvade:         target.Evade,
		TargetArmor:         target.Armor,
		TargetFacesAttacker: facesAttacker,
		MobRate:             r.Config.MobRate,
		CriticalRate:        r.Config.CriticalRate,
	}, r.Formulas, r.Rand)

	damage := int32(float64(raw) * r.Config.PKRate)
	if r.Config.LimitDamage && damage > target.HP {
		damage = target.HP
	}
	target.HP -= damage
	killed := target.HP <= 0

	if !killed && r.OnHealthUpdate != nil {
		r.OnHealthUpdate(attacker, target, damage, critical, m)
	}

	return PvPResult{Damage: damage, Critical: critical, Killed: killed}
}
