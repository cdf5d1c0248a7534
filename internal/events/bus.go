// Package events fans core state changes out to the TUI and the notifier.
package events

import (
	"sync"

	"github.com/julianstephens/potd/internal/models"
)

// StreakUpdated is published after the streak engine persists a new record.
type StreakUpdated struct {
	Record models.StreakRecord
	// Recovered is set when the record came from the leaderboard.
	Recovered bool
}

// SelectionReady is published when a Today call completes.
type SelectionReady struct {
	Selection models.DailySelection
	Status    models.SolveStatus
	Cached    bool
}

// SyncFinished is published after a leaderboard push.
type SyncFinished struct {
	Handle string
	Err    error
}

// Bus delivers events of type T to every subscriber, synchronously and in
// subscription order.
type Bus[T any] struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(T)
	ids  []int
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[int]func(T))}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus[T]) Subscribe(fn func(T)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.subs[id] = fn
	b.ids = append(b.ids, id)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; !ok {
			return
		}
		delete(b.subs, id)
		for i, v := range b.ids {
			if v == id {
				b.ids = append(b.ids[:i], b.ids[i+1:]...)
				break
			}
		}
	}
}

// Publish calls every subscriber with ev. A nil bus drops the event.
func (b *Bus[T]) Publish(ev T) {
	if b == nil {
		return
	}
	b.mu.RLock()
	fns := make([]func(T), 0, len(b.ids))
	for _, id := range b.ids {
		fns = append(fns, b.subs[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Hub groups the buses the application publishes on.
type Hub struct {
	Streak    *Bus[StreakUpdated]
	Selection *Bus[SelectionReady]
	Sync      *Bus[SyncFinished]
}

func NewHub() *Hub {
	return &Hub{
		Streak:    NewBus[StreakUpdated](),
		Selection: NewBus[SelectionReady](),
		Sync:      NewBus[SyncFinished](),
	}
}
