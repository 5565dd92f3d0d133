package optimistic

import (
	"context"
	"sync"
)

// Status is the phase of one optimistic mutation.
type Status int

const (
	StatusNone Status = iota
	StatusPending
	StatusCommitted
	StatusRolledBack
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCommitted:
		return "committed"
	case StatusRolledBack:
		return "rolled_back"
	default:
		return "none"
	}
}

// Outcome records one run. Seq increases per tracker so overlapping runs on the
// same key can be ordered after the fact.
type Outcome[K comparable] struct {
	Key    K
	Seq    uint64
	Status Status
	Err    error
}

// Mutation describes a two-phase change: Apply runs before Remote, Rollback only when Remote fails.
type Mutation struct {
	Apply    func()
	Rollback func()
	Remote   func(ctx context.Context) error
}

// OutcomeRecorder receives finished outcomes, e.g. the prometheus toggle counter.
type OutcomeRecorder interface {
	IncOutcome(feature, outcome string)
}

const historyLimit = 64

// Tracker runs optimistic mutations keyed by entity id. Runs on the same key are
// not serialized: a second toggle issued while the first is in flight proceeds
// on the tentative state, and a late rollback restores the value captured by
// its own Apply.
type Tracker[K comparable] struct {
	mu       sync.Mutex
	feature  string
	seq      uint64
	last     map[K]Outcome[K]
	history  []Outcome[K]
	recorder OutcomeRecorder
}

func NewTracker[K comparable](feature string, recorder OutcomeRecorder) *Tracker[K] {
	return &Tracker[K]{
		feature:  feature,
		last:     make(map[K]Outcome[K]),
		recorder: recorder,
	}
}

// Run applies m tentatively, calls the remote side and commits or rolls back.
func (t *Tracker[K]) Run(ctx context.Context, key K, m Mutation) Outcome[K] {
	seq := t.begin(key)
	if m.Apply != nil {
		m.Apply()
	}

	var err error
	if m.Remote != nil {
		err = m.Remote(ctx)
	}

	status := StatusCommitted
	if err != nil {
		status = StatusRolledBack
		if m.Rollback != nil {
			m.Rollback()
		}
	}
	return t.finish(key, seq, status, err)
}

func (t *Tracker[K]) begin(key K) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	out := Outcome[K]{Key: key, Seq: t.seq, Status: StatusPending}
	t.last[key] = out
	t.appendLocked(out)
	return t.seq
}

func (t *Tracker[K]) finish(key K, seq uint64, status Status, err error) Outcome[K] {
	out := Outcome[K]{Key: key, Seq: seq, Status: status, Err: err}
	t.mu.Lock()
	if prev, ok := t.last[key]; !ok || prev.Seq <= seq {
		t.last[key] = out
	}
	t.appendLocked(out)
	t.mu.Unlock()

	if t.recorder != nil {
		t.recorder.IncOutcome(t.feature, status.String())
	}
	return out
}

func (t *Tracker[K]) appendLocked(out Outcome[K]) {
	t.history = append(t.history, out)
	if len(t.history) > historyLimit {
		t.history = append([]Outcome[K](nil), t.history[len(t.history)-historyLimit:]...)
	}
}

// Status returns the latest outcome recorded for key by the most recently started run.
func (t *Tracker[K]) Status(key K) Outcome[K] {
	t.mu.Lock()
	defer t.mu.Unlock()
	if out, ok := t.last[key]; ok {
		return out
	}
	return Outcome[K]{Key: key}
}

// History returns the recent transitions of key in the order they happened.
func (t *Tracker[K]) History(key K) []Outcome[K] {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Outcome[K]
	for _, o := range t.history {
		if o.Key == key {
			out = append(out, o)
		}
	}
	return out
}
