package model

import "testing"

func TestNPCAddDamageAccumulatesAndRegisters(t *testing.T) {
	npc := &NPC{Index: 1, Alive: true, HP: 100}
	attacker := &Character{ID: 1, Name: "Hero"}

	npc.AddDamage(attacker, 10)
	npc.AddDamage(attacker, 5)

	entry := npc.FindDamageEntry(attacker)
	if entry == nil {
		t.Fatal("expected damage entry for attacker")
	}
	if entry.Damage != 15 {
		t.Fatalf("Damage = %d, want 15", entry.Damage)
	}
	if npc.TotalDamage != 15 {
		t.Fatalf("TotalDamage = %d, want 15", npc.TotalDamage)
	}
	if len(attacker.UnregisteredNPCs) != 1 || attacker.UnregisteredNPCs[0] != npc {
		t.Fatalf("expected attacker to register npc, got %v", attacker.UnregisteredNPCs)
	}
}

func TestNPCClearDamageListDetachesAttackers(t *testing.T) {
	npc := &NPC{Index: 1, Alive: true}
	a := &Character{ID: 1}
	b := &Character{ID: 2}
	npc.AddDamage(a, 10)
	npc.AddDamage(b, 30)

	npc.ClearDamageList()

	if len(npc.DamageList) != 0 {
		t.Fatal("expected empty damage list")
	}
	if npc.TotalDamage != 0 {
		t.Fatal("expected zeroed total damage")
	}
	if len(a.UnregisteredNPCs) != 0 || len(b.UnregisteredNPCs) != 0 {
		t.Fatal("expected attackers detached from npc")
	}
}

func TestNPCTopAttacker(t *testing.T) {
	npc := &NPC{Index: 1, Alive: true}
	a := &Character{ID: 1, Name: "a"}
	b := &Character{ID: 2, Name: "b"}
	c := &Character{ID: 3, Name: "c"}
	npc.AddDamage(a, 10)
	npc.AddDamage(b, 60)
	npc.AddDamage(c, 30)

	if got := npc.TopAttacker(); got != b {
		t.Fatalf("TopAttacker() = %v, want b", got)
	}
}

func TestCharacterLogoutDetachesFromNPCs(t *testing.T) {
	npc := &NPC{Index: 1, Alive: true}
	attacker := &Character{ID: 1}
	npc.AddDamage(attacker, 10)

	attacker.Logout()

	if npc.FindDamageEntry(attacker) != nil {
		t.Fatal("expected damage entry removed after logout")
	}
	if len(attacker.UnregisteredNPCs) != 0 {
		t.Fatal("expected UnregisteredNPCs cleared after logout")
	}
}
