package world

import "github.com/eoserv-go/worldcore/internal/model"

// InRange reports whether two points are within seeDistance under the
// Chebyshev metric (§4.3 "In-range").
func InRange(ax, ay, bx, by, seeDistance int32) bool {
	dx := abs(ax - bx)
	dy := abs(ay - by)
	if dx > dy {
		return dx <= seeDistance
	}
	return dy <= seeDistance
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// VisionBands is the pair of tile bands a one-tile move exposes and hides,
// from the mover's perspective (§4.3 "Diff broadcast on movement").
type VisionBands struct {
	// Entering is the (2*seeDistance+1)-tile band that comes into view.
	Entering []model.Location
	// Leaving is the (2*seeDistance+1)-tile band that goes out of view.
	Leaving []model.Location
}

// ComputeVisionBands returns the entering/leaving bands for a one-tile step
// from (fromX,fromY) to (toX,toY) in direction dir (§4.3): perpendicular to
// the movement axis, the new band sits at offset +seeDistance ahead of the
// mover and the old band at -seeDistance behind it (the before-move square
// minus the after-move square, with no extra offset).
func ComputeVisionBands(fromX, fromY, toX, toY int32, dir model.Direction, seeDistance int32) VisionBands {
	var enter, leave []model.Location

	switch dir {
	case model.DirectionDown:
		enter = horizontalBand(fromX, toY+seeDistance, seeDistance)
		leave = horizontalBand(fromX, fromY-seeDistance, seeDistance)
	case model.DirectionUp:
		enter = horizontalBand(fromX, toY-seeDistance, seeDistance)
		leave = horizontalBand(fromX, fromY+seeDistance, seeDistance)
	case model.DirectionRight:
		enter = verticalBand(toX+seeDistance, fromY, seeDistance)
		leave = verticalBand(fromX-seeDistance, fromY, seeDistance)
	case model.DirectionLeft:
		enter = verticalBand(toX-seeDistance, fromY, seeDistance)
		leave = verticalBand(fromX+seeDistance, fromY, seeDistance)
	}

	return VisionBands{Entering: enter, Leaving: leave}
}

// horizontalBand returns the (2*seeDistance+1)-tile row centered on
// (centerX, y).
func horizontalBand(centerX, y, seeDistance int32) []model.Location {
	band := make([]model.Location, 0, 2*seeDistance+1)
	for x := centerX - seeDistance; x <= centerX+seeDistance; x++ {
		band = append(band, model.NewLocation(x, y, model.DirectionDown))
	}
	return band
}

// verticalBand returns the (2*seeDistance+1)-tile column centered on
// (x, centerY).
func verticalBand(x, centerY, seeDistance int32) []model.Location {
	band := make([]model.Location, 0, 2*seeDistance+1)
	for y := centerY - seeDistance; y <= centerY+seeDistance; y++ {
		band = append(band, model.NewLocation(x, y, model.DirectionDown))
	}
	return band
}
