package chest

import (
	"math/rand"
	"testing"
	"time"

	"github.com/eoserv-go/worldcore/internal/model"
	"github.com/eoserv-go/worldcore/internal/world"
)

func TestRefillChestFillsDueEmptySlot(t *testing.T) {
	c := &model.Chest{
		X: 5, Y: 5,
		Spawns: []model.ChestSpawn{
			{Slot: 1, ItemID: 100, Amount: 1, RefillMinutes: 1, LastTakenAt: time.Now().Add(-2 * time.Minute)},
		},
	}

	rng := rand.New(rand.NewSource(1))
	if !refillChest(c, time.Now(), rng) {
		t.Fatal("expected the due empty slot to be filled")
	}
	if got := c.ItemAt(1); got == nil || got.ItemID != 100 {
		t.Fatalf("expected item 100 in slot 1, got %+v", got)
	}
}

func TestRefillChestSkipsOccupiedSlot(t *testing.T) {
	c := &model.Chest{
		Items: []model.ChestItem{{ItemID: 5, Amount: 1, Slot: 1}},
		Spawns: []model.ChestSpawn{
			{Slot: 1, ItemID: 100, Amount: 1, RefillMinutes: 1, LastTakenAt: time.Now().Add(-2 * time.Minute)},
		},
	}
	rng := rand.New(rand.NewSource(1))
	if refillChest(c, time.Now(), rng) {
		t.Fatal("expected an occupied slot to be left alone")
	}
	if c.ItemAt(1).ItemID != 5 {
		t.Fatal("expected the existing item to remain untouched")
	}
}

func TestRefillChestSkipsNotYetDueSpawn(t *testing.T) {
	c := &model.Chest{
		Spawns: []model.ChestSpawn{
			{Slot: 1, ItemID: 100, Amount: 1, RefillMinutes: 60, LastTakenAt: time.Now()},
		},
	}
	rng := rand.New(rand.NewSource(1))
	if refillChest(c, time.Now(), rng) {
		t.Fatal("expected a freshly-taken slot with a long cooldown to stay empty")
	}
}

func TestRefillTickBroadcastsOnChange(t *testing.T) {
	m := world.NewBlankMap(1, 10, 10)
	c := &model.Chest{
		X: 1, Y: 1,
		Spawns: []model.ChestSpawn{
			{Slot: 1, ItemID: 42, Amount: 1, RefillMinutes: 1, LastTakenAt: time.Time{}},
		},
	}
	m.SetChests([]*model.Chest{c})

	rng := rand.New(rand.NewSource(1))
	var fired *model.Chest
	RefillTick(m, time.Now(), rng, func(c *model.Chest, m *world.Map) { fired = c })

	if fired != c {
		t.Fatal("expected onRefill to fire for the map's due chest")
	}
}

func TestRefillTickNoBroadcastWhenNothingDue(t *testing.T) {
	m := world.NewBlankMap(1, 10, 10)
	c := &model.Chest{
		Spawns: []model.ChestSpawn{
			{Slot: 1, ItemID: 42, Amount: 1, RefillMinutes: 60, LastTakenAt: time.Now()},
		},
	}
	m.SetChests([]*model.Chest{c})

	rng := rand.New(rand.NewSource(1))
	fired := false
	RefillTick(m, time.Now(), rng, func(c *model.Chest, m *world.Map) { fired = true })

	if fired {
		t.Fatal("expected no broadcast when no chest changed")
	}
}

func TestTakeSlotStampsLastTaken(t *testing.T) {
	now := time.Now()
	c := &model.Chest{
		Items:  []model.ChestItem{{ItemID: 9, Amount: 1, Slot: 1}},
		Spawns: []model.ChestSpawn{{Slot: 1, ItemID: 9, Amount: 1, RefillMinutes: 5}},
	}
	item, ok := TakeSlot(c, 1, now)
	if !ok || item.ItemID != 9 {
		t.Fatal("expected to take the item from slot 1")
	}
	if !c.Spawns[0].LastTakenAt.Equal(now) {
		t.Fatal("expected the matching spawn row's LastTakenAt to be stamped")
	}
}

func TestDepositRespectsPerItemCapAndBudget(t *testing.T) {
	c := &model.Chest{PerItemCap: 10}
	accepted, ok := Deposit(c, 1, 15, 5)
	if !ok || accepted != 10 {
		t.Fatalf("expected deposit capped to 10, got accepted=%d ok=%v", accepted, ok)
	}

	accepted2, ok := Deposit(c, 1, 5, 5)
	if ok || accepted2 != 0 {
		t.Fatalf("expected a full stack to reject further deposits, got accepted=%d ok=%v", accepted2, ok)
	}
}

func TestDepositRejectsWhenUserSlotBudgetExhausted(t *testing.T) {
	c := &model.Chest{PerItemCap: 10}
	Deposit(c, 1, 1, 1) // fills the only user slot
	if _, ok := Deposit(c, 2, 1, 1); ok {
		t.Fatal("expected a second distinct item to be rejected once the budget is used up")
	}
}
