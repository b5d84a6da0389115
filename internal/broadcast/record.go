// Package broadcast assembles the logical outbound records the core
// hands to the transport layer (§6 "Wire protocol events (logical, not
// bit layout)"): one struct per family+action pair, each carrying the
// minimum fields the existing client expects. This package never touches
// bytes — that translation belongs to the out-of-scope session layer —
// it only decides WHAT gets sent to WHOM and in WHAT order (§5).
//
// Grounded on the teacher's internal/gameserver/serverpackets family
// (one small struct per opcode, e.g. serverpackets.SocialAction), with
// the wire-level Write() method dropped since our own wire format is out
// of scope — the struct shape is the part worth imitating, not the byte
// packing.
package broadcast

import "github.com/eoserv-go/worldcore/internal/model"

// PlayersAgree announces a character's entry into another's vision
// (§6 "Players.Agree (entry/visibility)").
type PlayersAgree struct {
	Character *model.Character
}

// ClothesRemove announces a character leaving another's vision
// (§6 "Clothes.Remove (leave vision)").
type ClothesRemove struct {
	CharacterID int32
}

// WalkPlayer reports a character's completed single-step move.
type WalkPlayer struct {
	CharacterID int32
	To          model.Location
}

// AttackPlayer reports a character's attack swing (independent of
// whether it connected).
type AttackPlayer struct {
	CharacterID int32
	Direction   model.Direction
}

// NPCPlayer reports an NPC's completed single-step move (§6 "NPC.Player
// (NPC move)").
type NPCPlayer struct {
	NPCIndex int32
	To       model.Location
}

// NPCReply reports a non-lethal hit against an NPC (§6 "NPC.Reply (NPC
// damaged)").
type NPCReply struct {
	NPCIndex   int32
	AttackerID int32
	Damage     int32
	Critical   bool
	HPPercent  int32
}

// DropInfo is the item a killed NPC yielded, shared by NPCSpec/NPCAccept.
type DropInfo struct {
	ItemID int32
	Amount int32
	X, Y   int32
}

// NPCSpec reports an NPC's death with no observer level-up (§6 "NPC.Spec
// (NPC killed, with drop)").
type NPCSpec struct {
	NPCIndex    int32
	KillingBlow int32 // killer's character id
	Drop        *DropInfo
}

// LevelUpInfo is the stat/skill-point delta a character earned leveling
// up as part of a kill's experience award.
type LevelUpInfo struct {
	CharacterID int32
	NewLevel    int32
	StatPoints  int32
	SkillPoints int32
}

// NPCAccept reports an NPC's death where at least one rewarded character
// leveled up (§6 "NPC.Accept (killed with level-up)").
type NPCAccept struct {
	NPCIndex    int32
	KillingBlow int32
	Drop        *DropInfo
	LevelUps    []LevelUpInfo
}

// ItemAdd announces a new ground item (a drop or a manual drop).
type ItemAdd struct {
	UID            int32
	ItemID, Amount int32
	X, Y           int32
}

// ItemRemove announces a ground item's removal (pickup or despawn).
type ItemRemove struct {
	UID int32
}

// ItemGet confirms a character's pickup of a ground item to that
// character specifically.
type ItemGet struct {
	CharacterID    int32
	ItemID, Amount int32
}

// ChestAgree announces a chest's current slot contents after a refill,
// take, or deposit (§4.9).
type ChestAgree struct {
	X, Y  int32
	Items []model.ChestItem
}

// DoorOpen announces a door tile opening.
type DoorOpen struct {
	X, Y int32
}

// FacePlayer announces a character's direction change without a move.
type FacePlayer struct {
	CharacterID int32
	Direction   model.Direction
}

// SitPlayer announces a character sitting on the ground.
type SitPlayer struct {
	CharacterID int32
	X, Y        int32
}

// SitChair announces a character sitting in a chair tile.
type SitChair struct {
	CharacterID int32
	X, Y        int32
	Direction   model.Direction
}

// RecoverPlayer reports a periodic HP/TP regen tick to the regenerating
// character itself.
type RecoverPlayer struct {
	CharacterID int32
	HP, TP      int32
}

// RecoverReply reports a single HP restoration (e.g. a potion or spell)
// to nearby observers.
type RecoverReply struct {
	CharacterID int32
	HP          int32
}

// RecoverList reports a batch HP/TP snapshot for a map's roster, sent on
// entry or reconnect.
type RecoverList struct {
	Characters []RecoverPlayer
}

// RecoverTargetGroup reports a party-wide HP/TP snapshot to party members
// (§2.9 "party sharing").
type RecoverTargetGroup struct {
	Members []RecoverPlayer
}

// PartyCreate announces a new party's formation to its founding members.
type PartyCreate struct {
	PartyID int32
	Leader  int32
}

// PartyList reports a party's full current roster.
type PartyList struct {
	PartyID int32
	Members []int32
}

// PartyAdd announces a new member joining an existing party.
type PartyAdd struct {
	PartyID     int32
	CharacterID int32
}

// PartyRemove announces a member leaving or being kicked from a party.
type PartyRemove struct {
	PartyID     int32
	CharacterID int32
}

// PartyClose announces a party's disbandment.
type PartyClose struct {
	PartyID int32
}

// PartyAgree confirms or denies a pending invite's resolution to the
// inviter.
type PartyAgree struct {
	TargetID int32
	Accepted bool
}

// PaperdollRemove announces a character unequipping a visible item slot.
type PaperdollRemove struct {
	CharacterID int32
	Slot        int32
}

// TalkPlayer is a local chat message from one character, audible within
// see-distance.
type TalkPlayer struct {
	CharacterID int32
	Message     string
}

// TalkMsg is a private (whisper) message between two characters.
type TalkMsg struct {
	FromID, ToID int32
	Message      string
}

// TalkAdmin is a staff-only chat message.
type TalkAdmin struct {
	CharacterID int32
	Message     string
}

// TalkAnnounce is a server-wide announcement.
type TalkAnnounce struct {
	Message string
}

// TalkServer is a system-originated status line to a single character
// (§7 "PolicyDenied ... the initiator receives a localized 'denied'
// status line").
type TalkServer struct {
	CharacterID int32
	Message     string
}

// EffectUse announces a visual effect playing at a character's position.
type EffectUse struct {
	CharacterID int32
	EffectID    int32
}
