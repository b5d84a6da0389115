// Package party implements the invite/accept handshake and membership
// operations on top of model.Party and the World's party registry (§2.9,
// §3 "A character belongs to at most one party").
//
// Grounded on the teacher's internal/gameserver/handler_party.go: a
// pending-invite stored on the target until answered, party creation
// deferred to acceptance time (a solo inviter has no party object until
// someone actually joins), and leave/kick auto-disbanding once fewer
// than two members remain. Stripped of the teacher's packet
// marshalling and client-manager lookups — this package only manages
// state, leaving the broadcast frames to the caller exactly as
// internal/ai and internal/pet leave attack execution to their OnAttack
// callbacks.
package party

import (
	"fmt"

	"github.com/eoserv-go/worldcore/internal/apperr"
	"github.com/eoserv-go/worldcore/internal/model"
	"github.com/eoserv-go/worldcore/internal/world"
)

// Invite is a pending join offer from From to a prospective member,
// stored until the target answers (§9 "no immediate membership on
// invite" — grounded on the teacher's PendingPartyInvite field).
type Invite struct {
	From *model.Character
}

// Manager tracks pending invites across the World's characters. Party
// membership itself still lives on model.Party/World, so disbanding or
// looking up an existing party goes straight through World.
type Manager struct {
	World   *world.World
	pending map[*model.Character]*Invite
}

// NewManager creates an invite tracker bound to w.
func NewManager(w *world.World) *Manager {
	return &Manager{World: w, pending: make(map[*model.Character]*Invite)}
}

// Invite records a pending invite from inviter to target. Refuses when
// the target is already partied, already has a pending invite, or the
// inviter's own party (if any) is full.
func (m *Manager) Invite(inviter, target *model.Character) error {
	if inviter.Party != nil && inviter.Party.MemberCount() >= model.MaxPartyMembers {
		return fmt.Errorf("party: %s's party is full: %w", inviter.Name, apperr.ErrPolicyDenied)
	}
	if target.Party != nil {
		return fmt.Errorf("party: %s is already in a party: %w", target.Name, apperr.ErrPolicyDenied)
	}
	if _, pending := m.pending[target]; pending {
		return fmt.Errorf("party: %s already has a pending invite: %w", target.Name, apperr.ErrPolicyDenied)
	}
	m.pending[target] = &Invite{From: inviter}
	return nil
}

// PendingInvite returns target's outstanding invite, or nil.
func (m *Manager) PendingInvite(target *model.Character) *Invite {
	return m.pending[target]
}

// Decline clears target's pending invite without joining.
func (m *Manager) Decline(target *model.Character) {
	delete(m.pending, target)
}

// Accept resolves target's pending invite: creates a new party led by
// the inviter if the inviter isn't already partied, then adds target.
// Clears the pending invite regardless of outcome.
func (m *Manager) Accept(target *model.Character) (*model.Party, error) {
	invite, ok := m.pending[target]
	if !ok {
		return nil, fmt.Errorf("party: %s has no pending invite: %w", target.Name, apperr.ErrPolicyDenied)
	}
	delete(m.pending, target)

	p := invite.From.Party
	if p == nil {
		var err error
		p, err = m.World.CreateParty(invite.From)
		if err != nil {
			return nil, err
		}
	}
	if err := p.AddMember(target); err != nil {
		return nil, err
	}
	return p, nil
}

// Leave removes character from its party, auto-disbanding the party
// through World if fewer than two members remain afterward (§3 "a
// character belongs to at most one party", grounded on the teacher's
// removeFromParty helper).
func (m *Manager) Leave(character *model.Character) {
	p := character.Party
	if p == nil {
		return
	}
	if shouldDisband := p.RemoveMember(character); shouldDisband {
		m.World.DisbandParty(p)
	}
}

// Kick removes target from the party led by leader. Refuses if leader
// isn't actually the party's leader, or if target doesn't belong to it.
func (m *Manager) Kick(leader, target *model.Character) error {
	p := leader.Party
	if p == nil || p.Leader() != leader {
		return fmt.Errorf("party: %s is not a party leader: %w", leader.Name, apperr.ErrPolicyDenied)
	}
	if !p.IsMember(target) {
		return fmt.Errorf("party: %s is not in %s's party: %w", target.Name, leader.Name, apperr.ErrPolicyDenied)
	}
	if shouldDisband := p.RemoveMember(target); shouldDisband {
		m.World.DisbandParty(p)
	}
	return nil
}

// TransferLeadership moves leadership from the current leader to target,
// a current member of the same party.
func (m *Manager) TransferLeadership(current, target *model.Character) error {
	p := current.Party
	if p == nil || p.Leader() != current {
		return fmt.Errorf("party: %s is not a party leader: %w", current.Name, apperr.ErrPolicyDenied)
	}
	if !p.IsMember(target) {
		return fmt.Errorf("party: %s is not in %s's party: %w", target.Name, current.Name, apperr.ErrPolicyDenied)
	}
	p.SetLeader(target)
	return nil
}
