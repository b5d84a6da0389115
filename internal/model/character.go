package model

import "time"

// Character is the core's view of a player character (§3). The fuller
// record — inventory, quests, bank, paperdoll graphics, chat state —
// lives on the player-session collaborator outside this module's scope
// (§1); the core reads identity/position fields and mutates only
// position, direction, hp/tp, experience, level, and the attached pet
// reference.
//
// Grounded on the teacher's model.Player, trimmed to the fields §3 lists
// the map core as actually touching — this is deliberately not a full
// player record.
type Character struct {
	ID    int32
	Name  string
	Level int32

	MapID     int32
	Location  Location
	HP, MaxHP int32
	TP, MaxTP int32

	MinDamage, MaxDamage int32
	Accuracy, Evade, Armor int32

	AdminLevel int32

	Party     *Party
	Pet       *NPC
	Autoloot  bool
	Autopotion bool

	Experience int64
	MaxLevel   int32

	// LastMoveAt stamps the last walk/step this character made (grounded
	// on the teacher's last_walk): the warp-suck sweep only acts on a
	// character that has been resting on a warp tile for WarpSuck seconds.
	LastMoveAt time.Time

	// UnregisteredNPCs is the reverse-registration list (§9 "cyclic
	// references"): every live NPC whose damage list currently names this
	// character as an attacker. Walked on logout so each NPC's damage
	// list entry is detached in O(k) rather than scanning every NPC on
	// every map.
	UnregisteredNPCs []*NPC

	Sitting bool
}

// DetachNPC removes npc from this character's reverse-registration list.
// Called symmetrically from NPC.ClearDamageList and from logout handling.
func (c *Character) DetachNPC(npc *NPC) {
	for i, n := range c.UnregisteredNPCs {
		if n == npc {
			c.UnregisteredNPCs = append(c.UnregisteredNPCs[:i], c.UnregisteredNPCs[i+1:]...)
			return
		}
	}
}

// Logout detaches this character from every NPC that still lists it as an
// attacker (§5 "Cancellation": purge dangling references before any other
// code observes the character again).
func (c *Character) Logout() {
	for _, npc := range c.UnregisteredNPCs {
		if entry := npc.FindDamageEntry(c); entry != nil {
			for i := range npc.DamageList {
				if npc.DamageList[i].Attacker == c {
					npc.DamageList = append(npc.DamageList[:i], npc.DamageList[i+1:]...)
					break
				}
			}
		}
	}
	c.UnregisteredNPCs = nil
}
