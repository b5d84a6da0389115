package world

import (
	"fmt"
	"sort"

	"github.com/eoserv-go/worldcore/internal/data"
	"github.com/eoserv-go/worldcore/internal/model"
)

// World is the process-wide container (§3): static tables, the maps
// vector, active characters, parties, and the character-id counter. The
// scheduler that drives it lives in internal/scheduler and holds a
// reference to a World rather than the other way around, keeping this
// package free of a dependency on the tick-firing machinery.
type World struct {
	Tables *data.Tables

	SeeDistance int32

	maps       map[int32]*Map
	characters map[int32]*model.Character
	parties    map[int32]*model.Party

	nextCharacterID int32
	nextPartyID     int32
}

// New creates a World with the guaranteed fallback map at index 1 (§3:
// "an ordered vector of maps indexed by 1-based id with a guaranteed
// fallback at index 1").
func New(tables *data.Tables, seeDistance int32) *World {
	w := &World{
		Tables:      tables,
		SeeDistance: seeDistance,
		maps:        make(map[int32]*Map),
		characters:  make(map[int32]*model.Character),
		parties:     make(map[int32]*model.Party),
	}
	w.maps[1] = NewMap(1)
	return w
}

// Map returns the map at id, falling back to index 1 if id is unknown
// (§3). Index 1 always exists.
func (w *World) Map(id int32) *Map {
	if m, ok := w.maps[id]; ok {
		return m
	}
	return w.maps[1]
}

// HasMap reports whether id names a map distinct from the fallback.
func (w *World) HasMap(id int32) bool {
	_, ok := w.maps[id]
	return ok
}

// SetMap installs m at its own ID, replacing any previous map there.
func (w *World) SetMap(m *Map) {
	w.maps[m.ID] = m
}

// MapCount returns the number of maps registered, including the fallback.
func (w *World) MapCount() int {
	return len(w.maps)
}

// Maps returns every registered map in ascending id order (§5: "maps are
// processed in id order").
func (w *World) Maps() []*Map {
	ids := make([]int32, 0, len(w.maps))
	for id := range w.maps {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*Map, len(ids))
	for i, id := range ids {
		out[i] = w.maps[id]
	}
	return out
}

// WarpCharacter moves c from its current map onto the map named by
// targetMapID at (x,y), facing dir (§5 "A map reload preserves the
// character list"; grounded on the teacher's Character::Warp). A
// same-map warp just rewrites the location.
func (w *World) WarpCharacter(c *model.Character, targetMapID, x, y int32, dir model.Direction) {
	dest := w.Map(targetMapID)
	if c.MapID != dest.ID {
		if src := w.Map(c.MapID); src != nil {
			src.RemoveCharacter(c.ID)
		}
		dest.AddCharacter(c)
	}
	c.Location = model.NewLocation(x, y, dir)
}

// NextCharacterID returns a fresh, monotonically increasing character id.
func (w *World) NextCharacterID() int32 {
	w.nextCharacterID++
	return w.nextCharacterID
}

// RegisterCharacter adds c to the world's active-character set (distinct
// from map participation — a character is active world-wide the instant it
// enters play, and additionally listed on whichever map it currently
// occupies).
func (w *World) RegisterCharacter(c *model.Character) {
	w.characters[c.ID] = c
}

// UnregisterCharacter removes c from the active set and detaches every
// dangling NPC reference (§5 "Cancellation").
func (w *World) UnregisterCharacter(id int32) {
	if c, ok := w.characters[id]; ok {
		c.Logout()
		delete(w.characters, id)
	}
}

// Character looks up an active character by id.
func (w *World) Character(id int32) (*model.Character, bool) {
	c, ok := w.characters[id]
	return c, ok
}

// Characters returns every active character world-wide.
func (w *World) Characters() []*model.Character {
	out := make([]*model.Character, 0, len(w.characters))
	for _, c := range w.characters {
		out = append(out, c)
	}
	return out
}

// CreateParty allocates a new party with id and leader, and registers it
// (§3 "Party"). Returns an error if leader already belongs to a party.
func (w *World) CreateParty(leader *model.Character) (*model.Party, error) {
	if leader.Party != nil {
		return nil, fmt.Errorf("world: character %d already in a party", leader.ID)
	}
	w.nextPartyID++
	p := model.NewParty(w.nextPartyID, leader)
	leader.Party = p
	w.parties[p.ID()] = p
	return p, nil
}

// DisbandParty removes p from the world's party set and clears every
// member's back-reference.
func (w *World) DisbandParty(p *model.Party) {
	for _, m := range p.Members() {
		m.Party = nil
	}
	delete(w.parties, p.ID())
}

// Party looks up a party by id.
func (w *World) Party(id int32) (*model.Party, bool) {
	p, ok := w.parties[id]
	return p, ok
}
