package world

import (
	"testing"

	"github.com/eoserv-go/worldcore/internal/model"
)

func TestInRangeChebyshev(t *testing.T) {
	if !InRange(10, 10, 11, 20, 10) {
		t.Fatal("expected (10,10)-(11,20) within seeDistance 10")
	}
	if InRange(10, 10, 11, 21, 10) {
		t.Fatal("expected (10,10)-(11,21) outside seeDistance 10")
	}
}

func TestComputeVisionBandsDownMovement(t *testing.T) {
	bands := ComputeVisionBands(10, 10, 10, 11, model.DirectionDown, 2)
	if len(bands.Entering) != 5 || len(bands.Leaving) != 5 {
		t.Fatalf("expected bands of width 5, got entering=%d leaving=%d", len(bands.Entering), len(bands.Leaving))
	}
	for _, loc := range bands.Entering {
		if loc.Y != 13 {
			t.Fatalf("expected entering band at y=13, got %+v", loc)
		}
	}
	for _, loc := range bands.Leaving {
		if loc.Y != 8 {
			t.Fatalf("expected leaving band at y=8, got %+v", loc)
		}
	}
}

func TestComputeVisionBandsRightMovement(t *testing.T) {
	bands := ComputeVisionBands(5, 5, 6, 5, model.DirectionRight, 1)
	if len(bands.Entering) != 3 || len(bands.Leaving) != 3 {
		t.Fatalf("expected bands of width 3, got entering=%d leaving=%d", len(bands.Entering), len(bands.Leaving))
	}
	for _, loc := range bands.Entering {
		if loc.X != 7 {
			t.Fatalf("expected entering band at x=7, got %+v", loc)
		}
	}
	for _, loc := range bands.Leaving {
		if loc.X != 4 {
			t.Fatalf("expected leaving band at x=4, got %+v", loc)
		}
	}
}
