package cart

import "sync"

// Listener observes every dispatched action together with the state it
// produced. Listeners run synchronously, in dispatch order, while the store
// is locked: they must not call back into the store.
type Listener func(Action, State)

type subscription struct {
	id int
	fn Listener
}

// Store owns one cart. Dispatch is serialized: an action, the total
// recomputation and the listener calls finish before the next action starts.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   []subscription
	nextID int
}

func NewStore(initial State) *Store {
	return &Store{state: Restore(initial.Items)}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dispatch(a)
	return s.state.clone()
}

// Apply calls plan with the current state and dispatches the actions it
// returns without letting another Dispatch run in between.
func (s *Store) Apply(plan func(State) []Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range plan(s.state.clone()) {
		s.dispatch(a)
	}
	return s.state.clone()
}

func (s *Store) dispatch(a Action) {
	s.state = Reduce(s.state, a)
	for _, sub := range s.subs {
		sub.fn(a, s.state.clone())
	}
}

// Subscribe registers l and returns a func that removes it. The returned
// func is safe to call more than once.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription{id: id, fn: l})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i := range s.subs {
				if s.subs[i].id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}
