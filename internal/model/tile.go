package model

// TileSpec tags a single tile of a map's grid (§3).
type TileSpec uint8

const (
	TileNone TileSpec = iota
	TileWall
	TileChairDown
	TileChairLeft
	TileChairUp
	TileChairRight
	TileChairDownRight
	TileChairUpLeft
	TileChairAll
	TileChest
	TileBankVault
	TileNPCBoundary
	TileMapEdge
	TileFakeWall
	TileBoard1
	TileBoard2
	TileBoard3
	TileBoard4
	TileBoard5
	TileBoard6
	TileBoard7
	TileBoard8
	TileJukebox
	TileJump
	TileWater
	TileArena
	TileAmbientSource
	TileSpikesStatic
	TileSpikesTimed
	TileSpikesTrap
)

// blockingAll is the set of tile tags that block every walker.
var blockingAll = map[TileSpec]bool{
	TileWall:           true,
	TileChairDown:      true,
	TileChairLeft:      true,
	TileChairUp:        true,
	TileChairRight:     true,
	TileChairDownRight: true,
	TileChairUpLeft:    true,
	TileChairAll:       true,
	TileChest:          true,
	TileBankVault:      true,
	TileBoard1:         true,
	TileBoard2:         true,
	TileBoard3:         true,
	TileBoard4:         true,
	TileBoard5:         true,
	TileBoard6:         true,
	TileBoard7:         true,
	TileBoard8:         true,
}

// BlocksEveryone reports whether this tile tag blocks both players and NPCs (§3).
func (t TileSpec) BlocksEveryone() bool {
	return blockingAll[t]
}

// BlocksNPCOnly reports whether this tile tag blocks NPCs specifically (§3: NPCBoundary).
func (t TileSpec) BlocksNPCOnly() bool {
	return t == TileNPCBoundary
}

// Tile is one cell of a map's grid: a tag plus an optional warp.
type Tile struct {
	Spec TileSpec
	Warp *Warp // nil if no warp present at this cell
}

// DoorSpec enumerates the door kinds a warp can carry (§3).
type DoorSpec uint8

const (
	DoorNone DoorSpec = iota
	DoorPlain
	DoorKeyedSilver
	DoorKeyedCrystal
	DoorKeyedWraith
)

// Warp is a teleport target attached to a tile (§3).
type Warp struct {
	TargetMap  int32
	TargetX    int32
	TargetY    int32
	LevelReq   int32
	Door       DoorSpec
}
