package model

import (
	"testing"
	"time"
)

func TestChestSpawnDue(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC)
	spawn := ChestSpawn{Slot: 1, RefillMinutes: 1, LastTakenAt: now.Add(-59 * time.Second)}
	if spawn.Due(now) {
		t.Fatal("expected spawn not due after 59s")
	}
	spawn.LastTakenAt = now.Add(-61 * time.Second)
	if !spawn.Due(now) {
		t.Fatal("expected spawn due after 61s")
	}
}

func TestChestPutAndRemove(t *testing.T) {
	c := &Chest{X: 5, Y: 5}
	c.Put(ChestItem{ItemID: 100, Amount: 3, Slot: 1})

	item := c.ItemAt(1)
	if item == nil || item.Amount != 3 {
		t.Fatalf("ItemAt(1) = %v, want amount 3", item)
	}

	removed, ok := c.RemoveAt(1)
	if !ok || removed.ItemID != 100 {
		t.Fatalf("RemoveAt(1) = %v, %v", removed, ok)
	}
	if c.ItemAt(1) != nil {
		t.Fatal("expected slot 1 empty after removal")
	}
}

func TestChestUserDepositsStackByItemID(t *testing.T) {
	c := &Chest{X: 0, Y: 0}
	c.Put(ChestItem{ItemID: 1, Amount: 5, Slot: 0})
	c.Put(ChestItem{ItemID: 1, Amount: 3, Slot: 0})
	c.Put(ChestItem{ItemID: 2, Amount: 1, Slot: 0})

	if got := c.UserSlotsUsed(); got != 2 {
		t.Fatalf("UserSlotsUsed() = %d, want 2", got)
	}
	if got := c.UserItem(1); got == nil || got.Amount != 3 {
		t.Fatalf("UserItem(1) = %v, want amount 3 (replaced, not summed)", got)
	}
}

func TestChestRefillSlotCount(t *testing.T) {
	c := &Chest{Spawns: []ChestSpawn{{Slot: 1}, {Slot: 3}, {Slot: 2}}}
	if got := c.RefillSlotCount(); got != 3 {
		t.Fatalf("RefillSlotCount() = %d, want 3", got)
	}
}
