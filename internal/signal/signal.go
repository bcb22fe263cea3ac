// Package signal buffers user-facing confirmations and warnings emitted by
// mutating operations until the interface layer drains and presents them.
package signal

import (
	"sync"
	"time"
)

// Level classifies a signal for presentation.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
)

// Signal is one user-facing notification.
type Signal struct {
	Level   Level
	Message string
	Time    time.Time
}

// Queue is a thread-safe FIFO of pending signals.
type Queue struct {
	mu    sync.Mutex
	items []Signal
}

// NewQueue creates an empty signal queue.
func NewQueue() *Queue {
	return &Queue{items: make([]Signal, 0)}
}

// Info pushes a confirmation signal.
func (q *Queue) Info(message string) {
	q.push(Signal{Level: LevelInfo, Message: message, Time: time.Now()})
}

// Warn pushes a warning signal.
func (q *Queue) Warn(message string) {
	q.push(Signal{Level: LevelWarn, Message: message, Time: time.Now()})
}

func (q *Queue) push(s Signal) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, s)
}

// Len returns the number of pending signals.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain returns all pending signals in order and clears the queue.
func (q *Queue) Drain() []Signal {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = make([]Signal, 0, cap(q.items))
	return out
}
