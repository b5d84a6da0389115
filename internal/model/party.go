package model

import "fmt"

// MaxPartyMembers bounds how many characters may share one party.
const MaxPartyMembers = 9

// Party is a group of characters cooperating for EXP/loot sharing (§2.9, §3).
//
// Grounded on the teacher's model.Party (ordered member slice, leader
// always first), trimmed of the L2 loot-rule field the EO source has no
// analogue for — party.cpp tracks only a leader and an ordered member
// list plus a transient EXP pool used mid-kill (tempExpSum).
//
// Single-writer-per-map discipline (§5) means a party's members are only
// ever mutated from the tick thread, so — unlike the teacher's Party —
// this type carries no internal mutex.
type Party struct {
	id         int32
	leader     *Character
	members    []*Character // leader is always members[0]
	tempExpSum int64
}

// NewParty creates a party with the given leader as its sole initial member.
func NewParty(id int32, leader *Character) *Party {
	return &Party{
		id:      id,
		leader:  leader,
		members: []*Character{leader},
	}
}

// ID returns the party's immutable identifier.
func (p *Party) ID() int32 { return p.id }

// Leader returns the current party leader.
func (p *Party) Leader() *Character { return p.leader }

// SetLeader changes the party leader and swaps them to index 0 of the
// member slice, so "leader == members[0]" always holds without a separate
// field read (grounded on original_source/src/party.cpp leadership
// transfer, which does the same swap-to-front).
func (p *Party) SetLeader(c *Character) {
	p.leader = c
	for i, m := range p.members {
		if m == c {
			p.members[0], p.members[i] = p.members[i], p.members[0]
			break
		}
	}
}

// Members returns the ordered member slice (leader first). Callers must
// not retain it across a mutation.
func (p *Party) Members() []*Character {
	return p.members
}

// MemberCount returns the number of members in the party.
func (p *Party) MemberCount() int { return len(p.members) }

// IsMember reports whether c currently belongs to this party.
func (p *Party) IsMember(c *Character) bool {
	for _, m := range p.members {
		if m == c {
			return true
		}
	}
	return false
}

// AddMember adds c to the party. Returns an error if the party is full or
// c already belongs to it — a character belongs to at most one party
// (§3 invariant), enforced by the caller checking c.Party before calling.
func (p *Party) AddMember(c *Character) error {
	if len(p.members) >= MaxPartyMembers {
		return fmt.Errorf("party %d full (max %d members)", p.id, MaxPartyMembers)
	}
	if p.IsMember(c) {
		return fmt.Errorf("character %s already in party %d", c.Name, p.id)
	}
	p.members = append(p.members, c)
	c.Party = p
	return nil
}

// RemoveMember removes c from the party by identity. If the leader leaves,
// leadership passes to the next member in order. Returns true if fewer
// than two members remain, signaling the caller should disband the party.
func (p *Party) RemoveMember(c *Character) bool {
	idx := -1
	for i, m := range p.members {
		if m == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	p.members = append(p.members[:idx], p.members[idx+1:]...)
	c.Party = nil
	if p.leader == c && len(p.members) > 0 {
		p.leader = p.members[0]
	}
	return len(p.members) < 2
}

// MembersOnMap returns members currently located on mapID — the set
// eligible for map-local kill reward distribution (§4.8).
func (p *Party) MembersOnMap(mapID int32) []*Character {
	result := make([]*Character, 0, len(p.members))
	for _, m := range p.members {
		if m.MapID == mapID {
			result = append(result, m)
		}
	}
	return result
}

// AddTempExp accumulates a kill's EXP pool before per-member redistribution
// (§4.8 step 4, §3 "tempExpSum").
func (p *Party) AddTempExp(amount int64) {
	p.tempExpSum += amount
}

// DrainTempExp returns and resets the accumulated EXP pool.
func (p *Party) DrainTempExp() int64 {
	sum := p.tempExpSum
	p.tempExpSum = 0
	return sum
}
