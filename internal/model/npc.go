package model

import "time"

// PetMode is the behavioral mode of a pet-extended NPC (§4.5).
type PetMode uint8

const (
	PetFollowing PetMode = iota
	PetGuarding
	PetAttacking
)

// DamageEntry is one attacker's accumulated damage against an NPC (§3).
type DamageEntry struct {
	Attacker *Character
	Damage   int64
	LastHit  time.Time
}

// NPC is the runtime state of one spawned monster/NPC instance (§3).
//
// Grounded on the teacher's model.Monster (HP/combat stat projection) and
// model.Npc (spawn linkage), merged into a single struct the way the
// original eoserv NPC class does, per the spec's §5 single-writer-per-map
// model: an NPC is mutated only by the tick that owns its map, so unlike
// the teacher's Monster/Npc this type carries no internal mutex — the
// map's act loop is the only writer (§5 "Single-threaded cooperative").
type NPC struct {
	Index    int32 // 1..255, unique per map
	DefID    int32
	Location Location

	Alive bool
	HP    int32

	SpawnType  int32 // 0..6 random walker (speed tiers), 7 stationary
	SpawnX     int32
	SpawnY     int32
	SpawnTime  int32 // seconds; respawn delay base, scaled by SpawnRate
	DeadSince  time.Time

	LastAct     time.Time
	ActSpeed    time.Duration
	WalkIdleFor int32 // remaining idle ticks when random-walking

	TotalDamage int64
	DamageList  []DamageEntry

	Parent *NPC // boss-child linkage: set on a child NPC, nil otherwise

	// Pet extension (§4.5). Pet == nil for ordinary NPCs.
	Pet *PetState
}

// PetState extends an NPC with pet-only fields (§3, §4.5).
type PetState struct {
	Owner       *Character
	Mode        PetMode
	Target      *NPC
	MinDamage   int32
	MaxDamage   int32
}

// IsPet reports whether this NPC instance is a player's pet.
func (n *NPC) IsPet() bool {
	return n.Pet != nil
}

// CanAct reports whether this NPC's spawn type participates in the act loop (§4.4).
func (n *NPC) CanAct() bool {
	return n.SpawnType != 7
}

// FindDamageEntry returns the damage-list entry for attacker, or nil if absent.
func (n *NPC) FindDamageEntry(attacker *Character) *DamageEntry {
	for i := range n.DamageList {
		if n.DamageList[i].Attacker == attacker {
			return &n.DamageList[i]
		}
	}
	return nil
}

// AddDamage records amount from attacker into the damage list (append or
// increment) and registers the reverse pointer on attacker.UnregisteredNPCs
// so logout can detach in O(k) (§3 invariant, §9 "cyclic references").
//
// Grounded on original_source/src/npc.cpp NPC::Damage: totaldamage only
// grows while it does not overflow past its prior value (a saturating
// add), carried here as a clamped accumulate since Go's int64 range makes
// a literal overflow effectively unreachable but the guard documents the
// invariant the original enforced defensively.
func (n *NPC) AddDamage(attacker *Character, amount int32) {
	if amount <= 0 || attacker == nil {
		return
	}
	if n.TotalDamage+int64(amount) > n.TotalDamage {
		n.TotalDamage += int64(amount)
	}

	now := time.Now()
	if entry := n.FindDamageEntry(attacker); entry != nil {
		entry.Damage += int64(amount)
		entry.LastHit = now
		return
	}

	n.DamageList = append(n.DamageList, DamageEntry{Attacker: attacker, Damage: int64(amount), LastHit: now})
	attacker.UnregisteredNPCs = append(attacker.UnregisteredNPCs, n)
}

// ClearDamageList detaches every attacker's reverse pointer to this NPC and
// empties the list (§4.8 step 5, §3 invariant: entries exist only while alive).
func (n *NPC) ClearDamageList() {
	for _, entry := range n.DamageList {
		entry.Attacker.DetachNPC(n)
	}
	n.DamageList = nil
	n.TotalDamage = 0
}

// TopAttacker returns the attacker with the most accumulated damage, or nil
// if the damage list is empty. Ties keep the first entry encountered.
func (n *NPC) TopAttacker() *Character {
	var best *Character
	var bestDamage int64 = -1
	for _, entry := range n.DamageList {
		if entry.Damage > bestDamage {
			best = entry.Attacker
			bestDamage = entry.Damage
		}
	}
	return best
}
