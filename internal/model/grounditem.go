package model

import "time"

// GroundItem is an item lying on a map's floor (§3).
//
// Grounded on the teacher's model.DroppedItem: a floor-bound record with an
// owner-exclusive pickup window, simplified to the flat uid/x/y shape this
// world core works with (no WorldObject embedding — ground items never move
// and are never targeted by combat, so they don't need the full object
// model NPCs and characters share).
type GroundItem struct {
	UID               int32 // lowest free positive integer on the map, stable for the item's lifetime
	ItemID            int32
	Amount            int32
	X, Y              int32
	OwnerPlayerID     int32 // 0 = unowned / protection expired
	UnprotectDeadline time.Time
}

// IsProtectedFrom reports whether playerID may not yet pick this item up.
func (g *GroundItem) IsProtectedFrom(playerID int32, now time.Time) bool {
	if g.OwnerPlayerID == 0 || g.OwnerPlayerID == playerID {
		return false
	}
	return now.Before(g.UnprotectDeadline)
}
