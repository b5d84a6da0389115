package party

import (
	"testing"

	"github.com/eoserv-go/worldcore/internal/data"
	"github.com/eoserv-go/worldcore/internal/model"
	"github.com/eoserv-go/worldcore/internal/world"
)

func newTestManager() (*Manager, *world.World) {
	w := world.New(data.NewTables(), 11)
	return NewManager(w), w
}

func TestInviteThenAcceptCreatesParty(t *testing.T) {
	m, _ := newTestManager()
	inviter := &model.Character{ID: 1, Name: "Inviter"}
	target := &model.Character{ID: 2, Name: "Target"}

	if err := m.Invite(inviter, target); err != nil {
		t.Fatalf("unexpected invite error: %v", err)
	}
	if m.PendingInvite(target) == nil {
		t.Fatal("expected a pending invite on target")
	}

	p, err := m.Accept(target)
	if err != nil {
		t.Fatalf("unexpected accept error: %v", err)
	}
	if p.Leader() != inviter {
		t.Fatalf("expected inviter to lead the new party, got %v", p.Leader())
	}
	if !p.IsMember(target) {
		t.Fatal("expected target to be a member after accepting")
	}
	if m.PendingInvite(target) != nil {
		t.Fatal("expected the pending invite to be cleared after accepting")
	}
}

func TestInviteRejectsAlreadyPartiedTarget(t *testing.T) {
	m, _ := newTestManager()
	inviter := &model.Character{ID: 1, Name: "Inviter"}
	target := &model.Character{ID: 2, Name: "Target"}
	target.Party = model.NewParty(99, target)

	if err := m.Invite(inviter, target); err == nil {
		t.Fatal("expected inviting an already-partied character to fail")
	}
}

func TestInviteRejectsDuplicatePending(t *testing.T) {
	m, _ := newTestManager()
	inviter := &model.Character{ID: 1, Name: "Inviter"}
	other := &model.Character{ID: 3, Name: "Other"}
	target := &model.Character{ID: 2, Name: "Target"}

	if err := m.Invite(inviter, target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Invite(other, target); err == nil {
		t.Fatal("expected a second invite to the same pending target to fail")
	}
}

func TestDeclineClearsPendingInviteWithoutJoining(t *testing.T) {
	m, _ := newTestManager()
	inviter := &model.Character{ID: 1, Name: "Inviter"}
	target := &model.Character{ID: 2, Name: "Target"}

	_ = m.Invite(inviter, target)
	m.Decline(target)

	if m.PendingInvite(target) != nil {
		t.Fatal("expected decline to clear the pending invite")
	}
	if target.Party != nil {
		t.Fatal("expected decline to leave the target partyless")
	}
}

func TestAcceptJoinsExistingParty(t *testing.T) {
	m, w := newTestManager()
	leader := &model.Character{ID: 1, Name: "Leader"}
	existingMember := &model.Character{ID: 2, Name: "Existing"}
	target := &model.Character{ID: 3, Name: "Target"}

	p, err := w.CreateParty(leader)
	if err != nil {
		t.Fatalf("unexpected error creating party: %v", err)
	}
	if err := p.AddMember(existingMember); err != nil {
		t.Fatalf("unexpected error adding member: %v", err)
	}

	if err := m.Invite(leader, target); err != nil {
		t.Fatalf("unexpected invite error: %v", err)
	}
	joined, err := m.Accept(target)
	if err != nil {
		t.Fatalf("unexpected accept error: %v", err)
	}
	if joined != p {
		t.Fatal("expected target to join the leader's existing party, not a new one")
	}
	if joined.MemberCount() != 3 {
		t.Fatalf("expected 3 members, got %d", joined.MemberCount())
	}
}

func TestLeaveDisbandsPartyWhenBelowTwoMembers(t *testing.T) {
	m, w := newTestManager()
	leader := &model.Character{ID: 1, Name: "Leader"}
	member := &model.Character{ID: 2, Name: "Member"}

	p, _ := w.CreateParty(leader)
	_ = p.AddMember(member)

	m.Leave(member)
	if _, ok := w.Party(p.ID()); ok {
		t.Fatal("expected the party to be disbanded once it dropped below two members")
	}
	if leader.Party != nil {
		t.Fatal("expected the disband to clear the remaining leader's party reference")
	}
}

func TestKickRequiresLeader(t *testing.T) {
	m, w := newTestManager()
	leader := &model.Character{ID: 1, Name: "Leader"}
	member := &model.Character{ID: 2, Name: "Member"}
	p, _ := w.CreateParty(leader)
	_ = p.AddMember(member)

	if err := m.Kick(member, leader); err == nil {
		t.Fatal("expected a non-leader kick attempt to fail")
	}
}

func TestKickRemovesMember(t *testing.T) {
	m, w := newTestManager()
	leader := &model.Character{ID: 1, Name: "Leader"}
	member := &model.Character{ID: 2, Name: "Member"}
	third := &model.Character{ID: 3, Name: "Third"}
	p, _ := w.CreateParty(leader)
	_ = p.AddMember(member)
	_ = p.AddMember(third)

	if err := m.Kick(leader, member); err != nil {
		t.Fatalf("unexpected kick error: %v", err)
	}
	if p.IsMember(member) {
		t.Fatal("expected member to be removed from the party")
	}
	if member.Party != nil {
		t.Fatal("expected the kicked member's Party reference to be cleared")
	}
}

func TestTransferLeadershipMovesLeaderToFront(t *testing.T) {
	m, w := newTestManager()
	leader := &model.Character{ID: 1, Name: "Leader"}
	member := &model.Character{ID: 2, Name: "Member"}
	p, _ := w.CreateParty(leader)
	_ = p.AddMember(member)

	if err := m.TransferLeadership(leader, member); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Leader() != member {
		t.Fatalf("expected member to be the new leader, got %v", p.Leader())
	}
	if p.Members()[0] != member {
		t.Fatal("expected the new leader to be swapped to the front of the member slice")
	}
}

func TestTransferLeadershipRejectsNonMemberTarget(t *testing.T) {
	m, w := newTestManager()
	leader := &model.Character{ID: 1, Name: "Leader"}
	outsider := &model.Character{ID: 2, Name: "Outsider"}
	_, _ = w.CreateParty(leader)

	if err := m.TransferLeadership(leader, outsider); err == nil {
		t.Fatal("expected transferring leadership to a non-member to fail")
	}
}
