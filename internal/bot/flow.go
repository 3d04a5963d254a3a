package bot

import "sync"

// Flow owns the per-actor pending-selection state: which event the actor has
// picked and is expected to supply an amount for next. The state is volatile
// by design and lost on restart; it never expires on its own.
type Flow struct {
	mu      sync.Mutex
	pending map[int64]string // actor id -> event id
}

func NewFlow() *Flow {
	return &Flow{pending: make(map[int64]string)}
}

// Arm binds the actor's next amount reply to the given event, replacing any
// previous binding.
func (f *Flow) Arm(actorID int64, eventID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[actorID] = eventID
}

// Peek returns the actor's pending event id without consuming it. Failed
// amount parses keep the binding so the actor can retry indefinitely.
func (f *Flow) Peek(actorID int64) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.pending[actorID]
	return id, ok
}

// Clear drops the actor's binding after a successful amount submission.
func (f *Flow) Clear(actorID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, actorID)
}
