package scheduler

import (
	"testing"
	"time"
)

func TestAdvanceFiresDueEventsInOrder(t *testing.T) {
	s := New(time.Minute)
	start := time.Unix(0, 0)

	var order []string
	s.Register("slow", 2*time.Second, start, func(now time.Time) { order = append(order, "slow") })
	s.Register("fast", 1*time.Second, start, func(now time.Time) { order = append(order, "fast") })

	s.Advance(start)
	if len(order) != 2 {
		t.Fatalf("expected both events due at start to fire, got %v", order)
	}
}

func TestAdvanceReschedulesByPeriod(t *testing.T) {
	s := New(time.Minute)
	start := time.Unix(0, 0)

	fires := 0
	s.Register("tick", time.Second, start, func(now time.Time) { fires++ })

	s.Advance(start)
	s.Advance(start.Add(500 * time.Millisecond))
	if fires != 1 {
		t.Fatalf("expected the second advance to be too early, got %d fires", fires)
	}

	s.Advance(start.Add(time.Second))
	if fires != 2 {
		t.Fatalf("expected the event due again at +1s, got %d fires", fires)
	}
}

func TestAdvanceDoesNotReplayBacklogPastMaxDelta(t *testing.T) {
	s := New(5 * time.Second)
	start := time.Unix(0, 0)

	fires := 0
	s.Register("tick", time.Second, start, func(now time.Time) { fires++ })

	s.Advance(start)
	if fires != 1 {
		t.Fatalf("expected exactly one fire at start, got %d", fires)
	}

	far := start.Add(time.Hour)
	s.Advance(far)
	if fires != 2 {
		t.Fatalf("expected exactly one fire even after a huge stall, got %d", fires)
	}

	s.Advance(far.Add(500 * time.Millisecond))
	if fires != 2 {
		t.Fatal("expected the resynced schedule to not be immediately due again")
	}
	s.Advance(far.Add(time.Second))
	if fires != 3 {
		t.Fatalf("expected the resynced schedule due one period after the stall, got %d", fires)
	}
}

func TestAdvanceReturnsNoFiresWhenNothingDue(t *testing.T) {
	s := New(time.Minute)
	start := time.Unix(0, 0)
	s.Register("tick", time.Second, start.Add(time.Hour), func(now time.Time) {})

	fired := s.Advance(start)
	if len(fired) != 0 {
		t.Fatalf("expected no fires before the first due time, got %v", fired)
	}
}
