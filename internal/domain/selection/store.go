package selection

import "sync"

// Set is an insertion-ordered, duplicate-free collection of catalog ids.
type Set struct {
	order []string
	index map[string]struct{}
}

func newSet() Set {
	return Set{index: make(map[string]struct{})}
}

// toggle removes id when present and appends it otherwise. It reports whether
// id is a member after the call.
func (s *Set) toggle(id string) bool {
	if _, ok := s.index[id]; ok {
		delete(s.index, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

func (s *Set) has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Set) snapshot() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Store holds the operator's current symptom and allergy selections. Stores
// are owned by the surface that created them; there is no shared instance.
type Store struct {
	mu        sync.RWMutex
	symptoms  Set
	allergies Set
}

func NewStore() *Store {
	return &Store{
		symptoms:  newSet(),
		allergies: newSet(),
	}
}

// ToggleSymptom flips membership of id in the symptom set and reports whether
// it is selected afterwards.
func (s *Store) ToggleSymptom(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.symptoms.toggle(id)
}

// ToggleAllergy flips membership of id in the allergy set and reports whether
// it is selected afterwards.
func (s *Store) ToggleAllergy(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allergies.toggle(id)
}

// Symptoms returns a copy of the selected symptom ids in the order they were
// first selected.
func (s *Store) Symptoms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.symptoms.snapshot()
}

// Allergies returns a copy of the selected allergy ids in selection order.
func (s *Store) Allergies() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allergies.snapshot()
}

func (s *Store) HasSymptom(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.symptoms.has(id)
}

func (s *Store) HasAllergy(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allergies.has(id)
}

func (s *Store) SymptomCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.symptoms.order)
}

func (s *Store) AllergyCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.allergies.order)
}

// Reset clears both sets. It is only called on explicit operator request;
// submissions never clear the selection.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symptoms = newSet()
	s.allergies = newSet()
}
