package observe

import "sync"

// Value holds the current state of a holder and fans it out to subscribers.
// Subscribers only ever see the latest value; a slow reader never blocks Set.
type Value[T any] struct {
	mu     sync.Mutex
	cur    T
	nextID int
	subs   map[int]chan T
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{cur: initial, subs: make(map[int]chan T)}
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur = next
	v.publish()
}

// Update applies fn to the current value under the lock and publishes the result.
func (v *Value[T]) Update(fn func(T) T) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur = fn(v.cur)
	v.publish()
	return v.cur
}

// Subscribe returns a channel primed with the current value. cancel closes it.
func (v *Value[T]) Subscribe() (<-chan T, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.subs == nil {
		v.subs = make(map[int]chan T)
	}
	id := v.nextID
	v.nextID++
	ch := make(chan T, 1)
	ch <- v.cur
	v.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			if sub, ok := v.subs[id]; ok {
				delete(v.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// publish must be called with mu held.
func (v *Value[T]) publish() {
	for _, ch := range v.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v.cur
	}
}
