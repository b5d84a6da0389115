package combat

import (
	"math"
	"time"

	"github.com/eoserv-go/worldcore/internal/ai"
	"github.com/eoserv-go/worldcore/internal/model"
	"github.com/eoserv-go/worldcore/internal/world"
)

// DropResult records a kill's rolled drop, if any: the item, its winner,
// the tile it came from, and whether the winner has autoloot switched on
// (§4.8 step 2-3). It is a report only; nothing here places the item.
type DropResult struct {
	ItemID   int32
	Amount   int32
	Winner   *model.Character
	Autoloot bool
	X, Y     int32
}

// ExpAward is one character's experience gain from a single kill,
// including whatever level-ups it produced (§4.8 step 4).
type ExpAward struct {
	Character *model.Character
	Amount    int64
	LevelsUp  int32
}

// KillResult is the fully-resolved outcome of Kill, handed to OnKill for
// broadcasting and quest/party propagation (§4.8 steps 7-8 are left to
// the caller, which has the quest system and scheduler this module
// doesn't import).
type KillResult struct {
	NPC         *model.NPC
	KillingBlow *model.Character
	Drop        *DropResult
	Awards      []ExpAward
	Children    []*model.NPC // boss cascade victims, already marked dead
	Temporary   bool
}

// Kill runs the full §4.8 reward split for npc, killed by killingBlow on
// map m. Marks the NPC dead, rolls the drop, pays out experience (with
// party pooling per PartyShareMode), clears the damage list, and cascades
// to boss children. Does not remove npc from the map roster — whether a
// kill despawns immediately or waits for the scheduler's respawn timer is
// the scheduler's call (§4.8 step 8, §4.10).
func (r *Resolver) Kill(npc *model.NPC, killingBlow *model.Character, m *world.Map, now time.Time) KillResult {
	def := r.Tables.Npc(npc.DefID)

	npc.Alive = false
	npc.DeadSince = now

	result := KillResult{NPC: npc, KillingBlow: killingBlow}

	if drop := ChooseDrop(def, r.Config, r.Rand); drop != nil {
		result.Drop = r.resolveDropWinner(npc, killingBlow, drop, m)
	}

	result.Awards = r.distributeExperience(npc, def, killingBlow, m)

	npc.ClearDamageList()

	if def.Boss {
		result.Children, _, _ = ai.KillCascade(npc, m, now)
	}

	if r.OnKill != nil {
		r.OnKill(result)
	}
	return result
}

// resolveDropWinner applies §4.8 step 3: pick the drop winner under
// ShareMode and report the drop with Autoloot set from the winner's
// autoloot flag. It neither adds a ground item to m nor touches any
// inventory, and it does not check whether the item fits.
//
// Grounded on original_source/src/npc.cpp NPC::Killed's sharemode 0-3
// switch — mode 2's "weighted by damage" roll is literally "pick a
// random point in [0,totalDamage) and walk the damage list until the
// cumulative sum passes it", carried over verbatim.
func (r *Resolver) resolveDropWinner(npc *model.NPC, killingBlow *model.Character, drop *model.DropRow, m *world.Map) *DropResult {
	amount := RollAmount(drop, r.Config.MaxItemAmount, r.Rand)
	if amount <= 0 {
		return nil
	}

	var winner *model.Character
	switch r.Config.ShareMode {
	case 0:
		winner = killingBlow
	case 1:
		winner = npc.TopAttacker()
	case 2:
		winner = r.weightedDamageWinner(npc, m)
	case 3:
		winner = r.uniformAttackerWinner(npc, m)
	}

	res := &DropResult{ItemID: drop.ItemID, Amount: amount, Winner: winner, X: npc.Location.X, Y: npc.Location.Y}
	if winner != nil && winner.Autoloot {
		res.Autoloot = true
	}
	return res
}

func (r *Resolver) weightedDamageWinner(npc *model.NPC, m *world.Map) *model.Character {
	if npc.TotalDamage <= 0 {
		return nil
	}
	rewardedHP := r.Rand.Int63n(npc.TotalDamage)
	var countHP int64
	for _, entry := range npc.DamageList {
		if !inRange(entry.Attacker.Location, npc.Location, r.Config.SeeDistance) {
			continue
		}
		if rewardedHP >= countHP && rewardedHP < countHP+entry.Damage {
			return entry.Attacker
		}
		countHP += entry.Damage
	}
	return nil
}

func (r *Resolver) uniformAttackerWinner(npc *model.NPC, m *world.Map) *model.Character {
	var inRangeAttackers []*model.Character
	for _, entry := range npc.DamageList {
		if inRange(entry.Attacker.Location, npc.Location, r.Config.SeeDistance) {
			inRangeAttackers = append(inRangeAttackers, entry.Attacker)
		}
	}
	if len(inRangeAttackers) == 0 {
		return nil
	}
	return inRangeAttackers[r.Rand.Intn(len(inRangeAttackers))]
}

func inRange(a, b model.Location, seeDistance int32) bool {
	return world.InRange(a.X, a.Y, b.X, b.Y, seeDistance)
}

// distributeExperience applies §4.8 step 4: the ShareMode payout
// formula per character, pooling into each party's temp sum when
// PartyShareMode is set, then draining every touched party's pool
// through the level-weighted or flat split (mirroring
// original_source/src/npc.cpp's character loop and
// src/party.cpp Party::ShareEXP).
func (r *Resolver) distributeExperience(npc *model.NPC, def *model.NpcDef, killingBlow *model.Character, m *world.Map) []ExpAward {
	if def.Exp == 0 {
		return nil
	}

	var awards []ExpAward
	touchedParties := map[*model.Party]bool{}

	for _, entry := range npc.DamageList {
		character := entry.Attacker
		var reward int64

		switch r.Config.ShareMode {
		case 0:
			if character != killingBlow {
				continue
			}
			reward = int64(math.Ceil(float64(def.Exp) * r.Config.ExpRate))
		case 1:
			if character != npc.TopAttacker() {
				continue
			}
			reward = int64(math.Ceil(float64(def.Exp) * r.Config.ExpRate))
		case 2:
			reward = int64(math.Ceil(float64(def.Exp) * r.Config.ExpRate * (float64(entry.Damage) / float64(npc.TotalDamage))))
		case 3:
			reward = int64(math.Ceil(float64(def.Exp) * r.Config.ExpRate * float64(len(npc.DamageList))))
		}

		if reward <= 0 {
			continue
		}

		if r.Config.PartyShareMode != 0 && character.Party != nil {
			character.Party.AddTempExp(reward)
			touchedParties[character.Party] = true
			continue
		}

		awards = append(awards, r.grantExp(character, reward))
	}

	for party := range touchedParties {
		awards = append(awards, r.shareExpToParty(party, m.ID)...)
	}

	return awards
}

// grantExp applies reward directly to character (no party pooling) and
// runs the level-up loop, matching npc.cpp's non-party branch: exp
// accumulates against the cumulative table with no per-level reset.
func (r *Resolver) grantExp(character *model.Character, reward int64) ExpAward {
	character.Experience += reward
	if character.Experience > r.Config.MaxExp {
		character.Experience = r.Config.MaxExp
	}

	var levels int32
	for character.Level < r.Config.MaxLevel && character.Experience >= r.Tables.ExpForLevel(character.Level+1) {
		character.Level++
		levels++
	}

	return ExpAward{Character: character, Amount: reward, LevelsUp: levels}
}

// shareExpToParty drains party's pooled exp and redistributes it across
// members present on mapID under PartyShareMode (§4.8 step 4).
//
// Grounded on original_source/src/party.cpp Party::ShareEXP: flat split
// (mode 1) divides evenly across present members; level-weighted split
// (mode 2) scales each share by the member's own level over the sum of
// present members' levels. Unlike the solo path, a party member's
// level-up here subtracts the threshold from experience (a per-level
// reset) rather than accumulating against the cumulative table — carried
// over as-is even though it diverges from the solo path's rule, since
// that is exactly what the original party code does.
func (r *Resolver) shareExpToParty(party *model.Party, mapID int32) []ExpAward {
	pool := party.DrainTempExp()
	if pool <= 0 {
		return nil
	}

	present := party.MembersOnMap(mapID)
	if len(present) == 0 {
		return nil
	}

	var sumLevel int64
	for _, m := range present {
		level := m.Level
		if level == 0 {
			level = 1
		}
		sumLevel += int64(level)
	}
	if sumLevel == 0 {
		return nil
	}

	var awards []ExpAward
	for _, member := range present {
		var reward int64
		switch r.Config.PartyShareMode {
		case 1:
			reward = int64(math.Ceil(float64(pool) / float64(len(present))))
		case 2:
			level := member.Level
			if level == 0 {
				level = 1
			}
			reward = int64(math.Ceil(float64(pool) * float64(level) / float64(sumLevel)))
		default:
			continue
		}

		member.Experience += reward
		var levels int32
		for member.Level < r.Config.MaxLevel && member.Experience >= r.Tables.ExpForLevel(member.Level+1) {
			member.Experience -= r.Tables.ExpForLevel(member.Level + 1)
			member.Level++
			levels++
		}

		awards = append(awards, ExpAward{Character: member, Amount: reward, LevelsUp: levels})
	}

	return awards
}
