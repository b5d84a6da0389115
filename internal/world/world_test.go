package world

import (
	"testing"

	"github.com/eoserv-go/worldcore/internal/data"
	"github.com/eoserv-go/worldcore/internal/model"
)

func TestNewWorldHasFallbackMap(t *testing.T) {
	w := New(data.NewTables(), 11)
	if w.Map(999) == nil {
		t.Fatal("expected fallback map for unknown id")
	}
	if w.Map(999).ID != 1 {
		t.Fatalf("expected fallback map id 1, got %d", w.Map(999).ID)
	}
	if w.HasMap(999) {
		t.Fatal("expected HasMap false for an id never installed")
	}
}

func TestNextCharacterIDMonotonic(t *testing.T) {
	w := New(data.NewTables(), 11)
	a := w.NextCharacterID()
	b := w.NextCharacterID()
	if b != a+1 {
		t.Fatalf("expected monotonic ids, got %d then %d", a, b)
	}
}

func TestCreatePartyRejectsDoubleMembership(t *testing.T) {
	w := New(data.NewTables(), 11)
	leader := &model.Character{ID: 1, Name: "Leader"}
	if _, err := w.CreateParty(leader); err != nil {
		t.Fatalf("CreateParty: %v", err)
	}
	if _, err := w.CreateParty(leader); err == nil {
		t.Fatal("expected error creating a second party for an already-partied character")
	}
}

func TestUnregisterCharacterDetachesNPCs(t *testing.T) {
	w := New(data.NewTables(), 11)
	c := &model.Character{ID: 1}
	npc := &model.NPC{Alive: true}
	npc.AddDamage(c, 5)
	w.RegisterCharacter(c)

	w.UnregisterCharacter(1)

	if npc.FindDamageEntry(c) != nil {
		t.Fatal("expected damage entry detached after character unregistration")
	}
	if _, ok := w.Character(1); ok {
		t.Fatal("expected character removed from active set")
	}
}
