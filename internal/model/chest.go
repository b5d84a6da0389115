package model

import "time"

// ChestItem is a single item stack occupying one slot of a chest (§3).
type ChestItem struct {
	ItemID int32
	Amount int32
	Slot   int32
}

// ChestSpawn is one configured refill row attached to a chest slot (§4.2, §4.9).
type ChestSpawn struct {
	Slot          int32
	ItemID        int32
	Amount        int32
	RefillMinutes int32
	LastTakenAt   time.Time
}

// Due reports whether this refill row is eligible to repopulate its slot.
func (s *ChestSpawn) Due(now time.Time) bool {
	return !now.Before(s.LastTakenAt.Add(time.Duration(s.RefillMinutes) * time.Minute))
}

// Chest is the authoritative state of one chest tile (§3, §4.9).
//
// Slot 0 holds user deposits — one ChestItem entry per distinct item id, all
// tagged slot 0. Slots 1..N are refill-controlled, one entry per slot. The
// user-deposit budget (how many slot-0 stacks may coexist) is enforced by
// the chest engine against config ChestSlots, not stored here.
type Chest struct {
	X, Y       int32
	Items      []ChestItem
	Spawns     []ChestSpawn
	PerItemCap int32 // max amount per stack (config MaxChest)
}

// ItemAt returns the refill-slot item occupying slot (1..N), or nil if empty.
func (c *Chest) ItemAt(slot int32) *ChestItem {
	for i := range c.Items {
		if c.Items[i].Slot == slot {
			return &c.Items[i]
		}
	}
	return nil
}

// UserItem returns the slot-0 entry for itemID, or nil if the user hasn't deposited it.
func (c *Chest) UserItem(itemID int32) *ChestItem {
	for i := range c.Items {
		if c.Items[i].Slot == 0 && c.Items[i].ItemID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// RemoveAt clears whatever item occupies slot, returning it (zero value if none).
func (c *Chest) RemoveAt(slot int32) (ChestItem, bool) {
	for i := range c.Items {
		if c.Items[i].Slot == slot {
			item := c.Items[i]
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return item, true
		}
	}
	return ChestItem{}, false
}

// Put places item into the chest, replacing anything already at that slot.
// For slot 0 (user deposits), matches by item id rather than slot alone.
func (c *Chest) Put(item ChestItem) {
	var existing *ChestItem
	if item.Slot == 0 {
		existing = c.UserItem(item.ItemID)
	} else {
		existing = c.ItemAt(item.Slot)
	}
	if existing != nil {
		*existing = item
		return
	}
	c.Items = append(c.Items, item)
}

// UserSlotsUsed counts distinct user-deposit (slot 0) stacks currently held.
func (c *Chest) UserSlotsUsed() int32 {
	var n int32
	for _, it := range c.Items {
		if it.Slot == 0 {
			n++
		}
	}
	return n
}

// RefillSlotCount returns the number of distinct refill slots configured (1..N).
func (c *Chest) RefillSlotCount() int32 {
	var max int32
	for _, s := range c.Spawns {
		if s.Slot > max {
			max = s.Slot
		}
	}
	return max
}
