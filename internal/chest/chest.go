// Package chest implements the periodic chest-refill engine (§4.9).
//
// Grounded on the teacher's internal/spawn/respawn.go: a due-check sweep
// keyed on "now >= record's due time", adapted from its own ticker +
// goroutine-per-batch shape to a single synchronous RefillTick call the
// scheduler invokes directly (§5: one event loop owns all map state, so
// there is no separate goroutine or mutex here the way the teacher's
// RespawnTaskManager needs one).
package chest

import (
	"math/rand"
	"time"

	"github.com/eoserv-go/worldcore/internal/model"
	"github.com/eoserv-go/worldcore/internal/world"
)

// BroadcastFunc notifies adjacent characters of a chest's new contents
// (§4.9 "broadcast the new contents to adjacent characters"). Kept out of
// this package's direct dependencies to avoid importing a future
// internal/broadcast, the same callback-injection pattern internal/ai and
// internal/pet use.
type BroadcastFunc func(c *model.Chest, m *world.Map)

// RefillTick runs one 60-second refill sweep over every chest on m (§4.9):
// for each refill slot whose spawn is due and currently empty, choose
// uniformly among its eligible spawn entries, fill the slot, and
// broadcast.
func RefillTick(m *world.Map, now time.Time, rng *rand.Rand, onRefill BroadcastFunc) {
	for _, c := range m.Chests() {
		if refillChest(c, now, rng) && onRefill != nil {
			onRefill(c, m)
		}
	}
}

// refillChest checks every refill slot on c, filling any that are due and
// empty, and reports whether anything changed.
func refillChest(c *model.Chest, now time.Time, rng *rand.Rand) bool {
	changed := false
	for slot := int32(1); slot <= c.RefillSlotCount(); slot++ {
		if c.ItemAt(slot) != nil {
			continue
		}
		eligible := eligibleSpawns(c, slot, now)
		if len(eligible) == 0 {
			continue
		}
		chosen := eligible[rng.Intn(len(eligible))]
		c.Put(model.ChestItem{ItemID: chosen.ItemID, Amount: chosen.Amount, Slot: slot})
		chosen.LastTakenAt = now
		changed = true
	}
	return changed
}

// eligibleSpawns returns every configured spawn row for slot whose refill
// interval has elapsed (§4.9: "lastTaken + refillMinutes·60 <= now").
func eligibleSpawns(c *model.Chest, slot int32, now time.Time) []*model.ChestSpawn {
	var out []*model.ChestSpawn
	for i := range c.Spawns {
		s := &c.Spawns[i]
		if s.Slot == slot && s.Due(now) {
			out = append(out, s)
		}
	}
	return out
}

// TakeSlot removes and returns whatever occupies slot, stamping the
// matching refill row's lastTaken so its cooldown restarts (§4.9: "Taking
// a refill slot's item stamps the slot's lastTaken to now"). Slot 0 (user
// deposits) has no refill row to stamp.
func TakeSlot(c *model.Chest, slot int32, now time.Time) (model.ChestItem, bool) {
	item, ok := c.RemoveAt(slot)
	if !ok {
		return model.ChestItem{}, false
	}
	if slot != 0 {
		for i := range c.Spawns {
			if c.Spawns[i].Slot == slot {
				c.Spawns[i].LastTakenAt = now
			}
		}
	}
	return item, true
}

// Deposit places a user item into slot 0, bounded by perItemCap per stack
// and by the user-slot budget (§4.9: "User deposits land in slot 0,
// bounded by perItemCap per stack and by the user-slot budget").
// userSlotBudget is chestSlots - reservedSlots (the caller computes it
// from config since the per-chest budget isn't itself map state).
func Deposit(c *model.Chest, itemID, amount, userSlotBudget int32) (accepted int32, ok bool) {
	existing := c.UserItem(itemID)
	perItemCap := c.PerItemCap

	if existing == nil {
		if c.UserSlotsUsed() >= userSlotBudget {
			return 0, false
		}
		accepted = amount
		if perItemCap > 0 && accepted > perItemCap {
			accepted = perItemCap
		}
		if accepted <= 0 {
			return 0, false
		}
		c.Put(model.ChestItem{ItemID: itemID, Amount: accepted, Slot: 0})
		return accepted, true
	}

	room := perItemCap - existing.Amount
	if perItemCap <= 0 {
		room = amount
	}
	if room <= 0 {
		return 0, false
	}
	accepted = amount
	if accepted > room {
		accepted = room
	}
	existing.Amount += accepted
	return accepted, true
}
