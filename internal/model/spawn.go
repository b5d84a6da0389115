package model

// NPCSpawnEntry is one row of a map's NPC spawn table as loaded from the
// EMF file (§4.2 item 7): an anchor point that produces Amount NPC
// instances, each re-placed near (X,Y) by the spawn-placement algorithm
// (§4.4) whenever it is due to (re)spawn.
type NPCSpawnEntry struct {
	X, Y      int32
	NpcDefID  int32
	SpawnType int32
	SpawnTime int32 // seconds, scaled by config SpawnRate on respawn
	Amount    int32
}
