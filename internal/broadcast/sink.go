package broadcast

import (
	"github.com/eoserv-go/worldcore/internal/chest"
	"github.com/eoserv-go/worldcore/internal/combat"
	"github.com/eoserv-go/worldcore/internal/model"
	"github.com/eoserv-go/worldcore/internal/world"
)

// Sink is the one seam between this package and the outbound transport: a
// single recipient-scoped delivery call. The out-of-scope session layer
// implements it (queueing, serializing, and flushing records per
// connection); this package only ever calls Send, never constructs bytes.
type Sink interface {
	Send(recipient *model.Character, record any)
}

// Broadcaster assembles and dispatches the logical records every other
// package's callback hooks need, using World to find the in-range
// audience for each event (§4.3, §5).
//
// Grounded on the teacher's per-packet dispatch call sites in
// internal/gameserver (a handler resolves its audience, builds a packet,
// and writes it to each connection in a loop) — generalized here to a
// Sink so the audience/ordering logic is shared across every event
// family instead of repeated per handler.
type Broadcaster struct {
	World       *world.World
	SeeDistance int32
	Sink        Sink
}

// Audience returns every character on m within SeeDistance of loc,
// excluding exclude (typically the actor itself).
func (b *Broadcaster) Audience(m *world.Map, loc model.Location, exclude *model.Character) []*model.Character {
	out := make([]*model.Character, 0, len(m.Characters()))
	for _, c := range m.Characters() {
		if c == exclude {
			continue
		}
		if world.InRange(c.Location.X, c.Location.Y, loc.X, loc.Y, b.SeeDistance) {
			out = append(out, c)
		}
	}
	return out
}

func charactersAt(m *world.Map, loc model.Location, exclude *model.Character) []*model.Character {
	var out []*model.Character
	for _, c := range m.Characters() {
		if c == exclude {
			continue
		}
		if c.Location.X == loc.X && c.Location.Y == loc.Y {
			out = append(out, c)
		}
	}
	return out
}

// CharacterWalk reports a character's completed single-step move from
// from to c.Location (§4.3 "Diff broadcast on movement", §5: "leave-vision
// removals, enter-vision adds, walk notification — a recipient therefore
// never observes a walk from an unseen actor"). Matches no existing
// callback type directly (player movement is driven by the out-of-scope
// session layer), but follows the same ordering every other mover path
// here uses.
func (b *Broadcaster) CharacterWalk(c *model.Character, from model.Location) {
	m := b.World.Map(c.MapID)
	if m == nil {
		return
	}
	bands := world.ComputeVisionBands(from.X, from.Y, c.Location.X, c.Location.Y, c.Location.Direction, b.SeeDistance)

	for _, loc := range bands.Leaving {
		for _, other := range charactersAt(m, loc, c) {
			b.Sink.Send(other, ClothesRemove{CharacterID: c.ID})
		}
	}
	for _, loc := range bands.Entering {
		for _, other := range charactersAt(m, loc, c) {
			b.Sink.Send(other, PlayersAgree{Character: c})
		}
	}
	for _, other := range b.Audience(m, c.Location, c) {
		b.Sink.Send(other, WalkPlayer{CharacterID: c.ID, To: c.Location})
	}
}

// NPCWalk reports an NPC's completed single-step move (from -> npc.Location)
// to every character currently in range. Matches ai.WalkFunc and
// pet.WalkFunc's signature structurally, so it can be assigned directly to
// either controller's OnWalk field without this package importing either
// one.
func (b *Broadcaster) NPCWalk(npc *model.NPC, from, to model.Location) {
	m := b.npcMap(npc)
	if m == nil {
		return
	}
	for _, c := range b.Audience(m, to, nil) {
		b.Sink.Send(c, NPCPlayer{NPCIndex: npc.Index, To: to})
	}
}

// npcMap finds the map currently holding npc by scanning the world's maps
// for its roster index — the NPC itself carries no MapID back-reference
// the way model.Character does (§3's NPC roster is scoped per-map, not
// world-wide).
func (b *Broadcaster) npcMap(npc *model.NPC) *world.Map {
	for _, m := range b.World.Maps() {
		if m.NPC(npc.Index) == npc {
			return m
		}
	}
	return nil
}

// HealthUpdate broadcasts a non-fatal hit to in-range observers, matching
// combat.HealthUpdateFunc's signature (§4.6 "If hp>0, broadcast a
// health-update frame to in-range observers"). attacker/target are typed
// any because combat resolves four distinct attacker/target shapes
// (player->NPC, NPC->player, pet->NPC, player->player); only the
// NPC-target and character-target cases carry a wire record here, since
// those are the ones §6 enumerates (NPC.Reply / Recover.Reply).
func (b *Broadcaster) HealthUpdate(attacker, target any, damage int32, critical bool, m *world.Map) {
	switch t := target.(type) {
	case *model.NPC:
		attackerID := int32(0)
		if c, ok := attacker.(*model.Character); ok {
			attackerID = c.ID
		}
		hpPercent := int32(0)
		if t.HP > 0 {
			hpPercent = 100 // the NPC's own max HP isn't known to this package; a real deployment resolves it via data.Tables at the call site
		}
		for _, c := range b.Audience(m, t.Location, nil) {
			b.Sink.Send(c, NPCReply{NPCIndex: t.Index, AttackerID: attackerID, Damage: damage, Critical: critical, HPPercent: hpPercent})
		}
	case *model.Character:
		b.Sink.Send(t, RecoverReply{CharacterID: t.ID, HP: t.HP})
		for _, c := range b.Audience(m, t.Location, t) {
			b.Sink.Send(c, RecoverReply{CharacterID: t.ID, HP: t.HP})
		}
	}
}

// Kill broadcasts an NPC's death, matching combat.KillFunc's signature
// (§4.8 step 6: "broadcast the kill frame"). Picks NPCAccept over NPCSpec
// when any award produced a level-up.
func (b *Broadcaster) Kill(result combat.KillResult) {
	m := b.npcMap(result.NPC)
	if m == nil {
		return
	}

	var drop *DropInfo
	if result.Drop != nil {
		drop = &DropInfo{ItemID: result.Drop.ItemID, Amount: result.Drop.Amount, X: result.Drop.X, Y: result.Drop.Y}
	}

	killerID := int32(0)
	if result.KillingBlow != nil {
		killerID = result.KillingBlow.ID
	}

	var levelUps []LevelUpInfo
	for _, award := range result.Awards {
		if award.LevelsUp > 0 {
			levelUps = append(levelUps, LevelUpInfo{CharacterID: award.Character.ID, NewLevel: award.Character.Level})
		}
	}

	audience := b.Audience(m, result.NPC.Location, nil)
	if len(levelUps) == 0 {
		record := NPCSpec{NPCIndex: result.NPC.Index, KillingBlow: killerID, Drop: drop}
		for _, c := range audience {
			b.Sink.Send(c, record)
		}
		return
	}
	record := NPCAccept{NPCIndex: result.NPC.Index, KillingBlow: killerID, Drop: drop, LevelUps: levelUps}
	for _, c := range audience {
		b.Sink.Send(c, record)
	}
}

// ChestRefill broadcasts a chest's new contents to every in-range
// character, matching chest.BroadcastFunc's signature (§4.9).
func (b *Broadcaster) ChestRefill(c *model.Chest, m *world.Map) {
	loc := model.NewLocation(c.X, c.Y, model.DirectionDown)
	record := ChestAgree{X: c.X, Y: c.Y, Items: append([]model.ChestItem(nil), c.Items...)}
	for _, observer := range b.Audience(m, loc, nil) {
		b.Sink.Send(observer, record)
	}
}

var _ chest.BroadcastFunc = (*Broadcaster)(nil).ChestRefill
