package combat

import (
	"math"
	"math/rand"
)

// Config bundles the tunables §6 lists for the combat paths — sourced
// from the process config, passed by value since nothing here is
// mutated at tick time.
type Config struct {
	MobRate      float64 // scales evade/armor mitigation against NPCs
	PKRate       float64 // PvP damage scalar (§4.7)
	CriticalRate float64 // scales the critical-hit roll threshold
	Deadly       bool    // PvP death drops all items

	LimitDamage bool // clamp applied damage to the target's current hp

	RangedDistance int32 // attack range for ranged weapons; melee is always 1

	SeeDistance int32 // in-range radius for drop/exp winner selection (§4.8)

	PetDamageMultiplier float64 // scales ResolvePetDamage's uniform roll (§4.7)

	DropRate     float64
	DropRateMode int32 // 1, 2, or 3 (§4.8 step 2)

	ShareMode      int32 // 0-3 (§4.8 step 3/4)
	PartyShareMode int32 // 0 = no pooling, 1 = flat split, 2 = level-weighted

	ExpRate       float64
	MaxExp        int64
	MaxLevel      int32
	StatPerLevel  int32
	SkillPerLevel int32

	ProtectNPCDrop int32 // seconds the dropped item is owner-protected
	MaxItemAmount  int32 // cap on a single drop stack
}

// DamageInput is the variable bag for the default hit/damage formula
// (§4.6): "raw = uniform(minDam,maxDam); hit = 120; if target faces
// attacker directly, hit -= 40; hit += accuracy/2 − (evade/2)·mobRate;
// hit ∈ [20,100]; ... raw -= (armor/3)·mobRate; raw = max(raw,
// ceil(origDamage·0.1)); roll=uniform(0,100); if roll>hit damage=0; if
// roll>92 critical=true; critical multiplier 1.5×".
type DamageInput struct {
	MinDamage, MaxDamage int32
	Accuracy             int32
	TargetEvade          int32
	TargetArmor          int32
	TargetFacesAttacker  bool
	MobRate              float64
	CriticalRate         float64 // 0 disables criticals; 1.0 is the baseline 8% roll
}

// ResolveDamage runs the default formula (or a registered "damage"/
// "hit_rate" pair, if formulas is non-nil and has them) and returns the
// final damage and whether the hit was a critical. Used by both the
// player→NPC and NPC→character paths (§4.6, §4.7) — only which side's
// stats feed MinDamage/Accuracy vs TargetEvade/TargetArmor differs.
func ResolveDamage(in DamageInput, formulas *Engine, rng *rand.Rand) (damage int32, critical bool) {
	raw := uniform(rng, float64(in.MinDamage), float64(in.MaxDamage))

	// Variable bag names follow spec's documented set (hp/maxhp/mindam/
	// maxdam/accuracy/evade/armor/x/y/direction/mapid/damage/critical/
	// modifier plus target_-prefixed peers); this resolver only has the
	// subset relevant to a single strike's min/max/accuracy/target stats.
	vars := map[string]float64{
		"mindam":       float64(in.MinDamage),
		"maxdam":       float64(in.MaxDamage),
		"accuracy":     float64(in.Accuracy),
		"target_evade": float64(in.TargetEvade),
		"target_armor": float64(in.TargetArmor),
		"mob_rate":     in.MobRate,
		"raw":          raw,
	}

	hit := 120.0
	if in.TargetFacesAttacker {
		hit -= 40
	}
	hit += float64(in.Accuracy)/2 - (float64(in.TargetEvade)/2)*in.MobRate
	if formulas != nil && formulas.Has("hit_rate") {
		if v, err := formulas.Eval("hit_rate", vars); err == nil {
			hit = v
		}
	}
	hit = clamp(hit, 20, 100)

	if formulas != nil && formulas.Has("damage") {
		if v, err := formulas.Eval("damage", vars); err == nil {
			raw = v
		}
	}

	origDamage := raw
	raw -= (float64(in.TargetArmor) / 3) * in.MobRate
	raw = math.Max(raw, math.Ceil(origDamage*0.1))

	roll := uniform(rng, 0, 100)
	if roll > hit {
		return 0, false
	}

	criticalThreshold := 100 - 8*in.CriticalRate
	critical = roll > criticalThreshold
	if critical {
		raw *= 1.5
	}

	return int32(math.Round(raw)), critical
}

// ResolvePetDamage computes an NPC→NPC (pet) strike (§4.7): "damage
// applies directly to the target NPC" via a flat uniform roll scaled by
// the pet's own multiplier, with no hit-rate gate — pets always connect.
func ResolvePetDamage(minDamage, maxDamage int32, multiplier float64, rng *rand.Rand) int32 {
	raw := uniform(rng, float64(minDamage), float64(maxDamage)) * multiplier
	return int32(math.Round(raw))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
