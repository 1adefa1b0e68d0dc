// Package sched is a list of deferred tasks keyed by expiry time.
//
// Tasks never run on their own: the frame loop calls Poll once per tick, so
// every task runs on the same goroutine as the rest of the frame and never
// while the loop is iterating its collections.
package sched

import (
	"container/heap"
	"time"
)

type task struct {
	at  time.Duration
	seq uint64
	fn  func()
}

type tasks []task

func (h tasks) Len() int { return len(h) }
func (h tasks) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h tasks) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *tasks) Push(x any)   { *h = append(*h, x.(task)) }
func (h *tasks) Pop() any {
	old := *h
	t := old[len(old)-1]
	*h = old[:len(old)-1]
	return t
}

// Queue holds deferred tasks. The zero value is ready to use.
type Queue struct {
	now   time.Duration
	seq   uint64
	tasks tasks
}

// Now returns the time of the last Poll.
func (q *Queue) Now() time.Duration { return q.now }

// After schedules fn to run at the first Poll at or past Now()+d.
func (q *Queue) After(d time.Duration, fn func()) {
	q.At(q.now+d, fn)
}

// At schedules fn to run at the first Poll at or past at.
func (q *Queue) At(at time.Duration, fn func()) {
	q.seq++
	heap.Push(&q.tasks, task{at: at, seq: q.seq, fn: fn})
}

// Poll advances the clock to now and runs every due task in expiry order,
// ties in scheduling order. Tasks scheduled by a running task with a delay of
// zero run in the same Poll. It returns the number of tasks run.
func (q *Queue) Poll(now time.Duration) int {
	if now > q.now {
		q.now = now
	}
	n := 0
	for len(q.tasks) > 0 && q.tasks[0].at <= q.now {
		t := heap.Pop(&q.tasks).(task)
		t.fn()
		n++
	}
	return n
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int { return len(q.tasks) }
