// Package scheduler implements the cooperative tick engine (§4.10, §5):
// a priority queue of periodic time events driven by a single caller
// thread, with a configurable wall-clock maximum delta so a stalled
// process doesn't replay a long backlog of missed ticks on resume.
//
// Grounded on the teacher's internal/spawn RespawnTaskManager shape (a
// named, periodic callback driven by elapsed time) generalized from one
// hand-rolled ticker per concern into a single ordered queue, the way
// the original eoserv world.cpp registers one TimeEvent per concern
// against a shared Timer with SetMaxDelta. No pack example carries a
// generic scheduling/cron library, so this is built on container/heap —
// the standard library's own answer to a priority queue — rather than a
// third-party dependency; see DESIGN.md for why nothing in the pack fit.
package scheduler

import (
	"container/heap"
	"time"
)

// Event is one registered periodic job.
type Event struct {
	Name   string
	Period time.Duration
	Fn     func(now time.Time)

	next  time.Time
	index int
}

// eventQueue is a min-heap of *Event ordered by next fire time.
type eventQueue []*Event

func (q eventQueue) Len() int            { return len(q) }
func (q eventQueue) Less(i, j int) bool  { return q[i].next.Before(q[j].next) }
func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index, q[j].index = i, j
}

func (q *eventQueue) Push(x any) {
	e := x.(*Event)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

// Scheduler is a single cooperative queue of periodic events (§4.10,
// §5 "one event loop thread owns the world").
type Scheduler struct {
	MaxDelta time.Duration
	queue    eventQueue
}

// New creates a Scheduler whose catch-up on a stalled wall clock never
// exceeds maxDelta (§4.10 "configurable wall-clock maximum-delta").
func New(maxDelta time.Duration) *Scheduler {
	s := &Scheduler{MaxDelta: maxDelta}
	heap.Init(&s.queue)
	return s
}

// Register adds a periodic event firing every period, first due at
// startAt.
func (s *Scheduler) Register(name string, period time.Duration, startAt time.Time, fn func(now time.Time)) *Event {
	e := &Event{Name: name, Period: period, Fn: fn, next: startAt}
	heap.Push(&s.queue, e)
	return e
}

// Len reports how many events are registered.
func (s *Scheduler) Len() int { return s.queue.Len() }

// Advance runs every event due at or before now, in ascending due-time
// order, and returns the names fired. An event that is still due after
// rescheduling fires again in the same call, so a pause shorter than
// MaxDelta is caught up occurrence by occurrence; a longer pause is not
// replayed, as described below.
//
// Rescheduling keeps phase with the configured period as long as the
// accumulated drift stays within MaxDelta; once a single gap would push
// the next due time more than MaxDelta behind now, the schedule resyncs
// to now+period instead of preserving phase, which is what keeps a
// stalled process from trying to "catch up" a giant backlog of ticks
// (§4.10 "missed ticks are not replayed past the cap").
func (s *Scheduler) Advance(now time.Time) []string {
	var fired []string
	for s.queue.Len() > 0 && !s.queue[0].next.After(now) {
		e := heap.Pop(&s.queue).(*Event)
		e.Fn(now)
		fired = append(fired, e.Name)

		next := e.next.Add(e.Period)
		if s.MaxDelta > 0 && now.Sub(next) > s.MaxDelta {
			next = now.Add(e.Period)
		}
		e.next = next
		heap.Push(&s.queue, e)
	}
	return fired
}
