// Package watch is the subscription primitive the state machines publish
// through. Each machine holds one Value per observable state; the rendering
// layer is just one subscriber among possibly many.
package watch

import "sync"

// Value holds the latest immutable snapshot and fans updates out to
// subscribers. A new subscriber immediately receives the current snapshot.
// Delivery conflates: a slow subscriber only ever sees the most recent value,
// intermediate snapshots may be skipped. Set never blocks on a subscriber.
type Value[T any] struct {
	mu      sync.Mutex
	current T
	subs    map[int]chan T
	nextID  int
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial, subs: make(map[int]chan T)}
}

// Get returns the current snapshot.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the snapshot wholesale and notifies every subscriber.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = next
	for _, ch := range v.subs {
		offer(ch, next)
	}
}

// Update applies fn to the current snapshot atomically and publishes the
// result. Returning the input unchanged still notifies subscribers, so fn
// should be treated as always publishing.
func (v *Value[T]) Update(fn func(T) T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = fn(v.current)
	for _, ch := range v.subs {
		offer(ch, v.current)
	}
}

// Subscribe registers a new observer. The returned channel carries the
// snapshot at subscribe time followed by every later update, conflated.
// The cancel function releases the subscription; it is idempotent.
func (v *Value[T]) Subscribe() (<-chan T, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextID
	v.nextID++
	ch := make(chan T, 1)
	ch <- v.current
	v.subs[id] = ch
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			delete(v.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// offer replaces any undelivered snapshot with the newest one.
func offer[T any](ch chan T, next T) {
	for {
		select {
		case ch <- next:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
