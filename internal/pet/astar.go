package pet

import "github.com/eoserv-go/worldcore/internal/world"

// pathNode is one frontier entry in the bounded A* search (§4.5
// "Pathing"): 4-neighborhood, Manhattan heuristic, tie-break by tile hash.
type pathNode struct {
	x, y   int32
	g, f   int32
	parent *pathNode
}

// FindPath runs a bounded A* search over the walkable-for-NPC tile graph
// from (fromX,fromY) to (toX,toY). maxExpand caps how many nodes are
// popped from the frontier before giving up — the bounded search §4.5
// calls for so a blocked pet never stalls a tick. Returns the step
// sequence (excluding the start tile) and true on success.
func FindPath(m *world.Map, fromX, fromY, toX, toY int32, maxExpand int) ([]step, bool) {
	start := &pathNode{x: fromX, y: fromY, g: 0, f: manhattan(fromX, fromY, toX, toY)}

	open := []*pathNode{start}
	best := make(map[int64]int32) // tileKey -> best g seen
	best[tileKey(fromX, fromY)] = 0
	closed := make(map[int64]bool)

	expanded := 0
	for len(open) > 0 && expanded < maxExpand {
		idx := popLowest(open)
		current := open[idx]
		open = append(open[:idx], open[idx+1:]...)

		key := tileKey(current.x, current.y)
		if closed[key] {
			continue
		}
		closed[key] = true
		expanded++

		if current.x == toX && current.y == toY {
			return reconstruct(current), true
		}

		for _, d := range [4][2]int32{{0, 1}, {0, -1}, {1, 0}, {-1, 0}} {
			nx, ny := current.x+d[0], current.y+d[1]
			if !m.Walkable(nx, ny, true) {
				continue
			}
			nkey := tileKey(nx, ny)
			if closed[nkey] {
				continue
			}
			g := current.g + 1
			if prevG, ok := best[nkey]; ok && prevG <= g {
				continue
			}
			best[nkey] = g
			open = append(open, &pathNode{
				x: nx, y: ny, g: g, f: g + manhattan(nx, ny, toX, toY), parent: current,
			})
		}
	}

	return nil, false
}

// step is one tile of a found path.
type step struct {
	X, Y int32
}

func reconstruct(n *pathNode) []step {
	var out []step
	for cur := n; cur.parent != nil; cur = cur.parent {
		out = append([]step{{X: cur.x, Y: cur.y}}, out...)
	}
	return out
}

// popLowest returns the index of the lowest-f node, tie-broken by tile
// hash for determinism (§4.5).
func popLowest(open []*pathNode) int {
	best := 0
	bestF := open[0].f
	bestHash := tileHash(open[0].x, open[0].y)
	for i := 1; i < len(open); i++ {
		f := open[i].f
		h := tileHash(open[i].x, open[i].y)
		if f < bestF || (f == bestF && h < bestHash) {
			best = i
			bestF = f
			bestHash = h
		}
	}
	return best
}

func manhattan(ax, ay, bx, by int32) int32 {
	return abs32(ax-bx) + abs32(ay-by)
}

func tileKey(x, y int32) int64 {
	return int64(x)<<32 | int64(uint32(y))
}

func tileHash(x, y int32) uint32 {
	h := uint32(x)*374761393 + uint32(y)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
