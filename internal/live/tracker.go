// Package live turns table writes into re-evaluated query results.
//
// Writers report the tables they touched to a Tracker; Watch registers an
// observer for the tables a query reads, runs the query once and again after
// every notification, and pushes each result to the subscriber.
package live

import (
	"sync"
)

// Tracker fans table invalidations out to registered observers.
type Tracker struct {
	mu        sync.Mutex
	nextID    uint64
	observers map[uint64]*observer
}

type observer struct {
	tables map[string]struct{}
	notify chan struct{}
}

func NewTracker() *Tracker {
	return &Tracker{observers: make(map[uint64]*observer)}
}

// Notify wakes every observer that watches at least one of tables. It never
// blocks: an observer that has not consumed its previous wake-up keeps a
// single pending signal.
func (t *Tracker) Notify(tables ...string) {
	if t == nil || len(tables) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, obs := range t.observers {
		if !obs.watches(tables) {
			continue
		}
		select {
		case obs.notify <- struct{}{}:
		default:
		}
	}
}

// Observers returns the number of registered observers.
func (t *Tracker) Observers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.observers)
}

func (t *Tracker) observe(tables []string) (<-chan struct{}, func()) {
	obs := &observer{
		tables: make(map[string]struct{}, len(tables)),
		notify: make(chan struct{}, 1),
	}
	for _, table := range tables {
		obs.tables[table] = struct{}{}
	}

	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.observers[id] = obs
	t.mu.Unlock()

	var once sync.Once
	return obs.notify, func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.observers, id)
			t.mu.Unlock()
		})
	}
}

func (o *observer) watches(tables []string) bool {
	for _, table := range tables {
		if _, ok := o.tables[table]; ok {
			return true
		}
	}
	return false
}
