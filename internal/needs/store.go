package needs

import (
	"errors"
	"fmt"
)

// ErrNeedNotFound is returned when an operation targets an unknown need id.
var ErrNeedNotFound = errors.New("need not found")

// ErrDuplicateNeed is returned when a need id is registered twice.
var ErrDuplicateNeed = errors.New("need already registered")

// Collection is the mutable set of needs that source code links are applied to.
type Collection interface {
	Get(id string) (*Need, bool)
	Has(id string) bool
	// Update applies mutate to the need with the given id. The implementation
	// decides how the change is re-registered.
	Update(id string, mutate func(*Need) error) error
}

// Store is an in-memory, insertion ordered Collection.
// Get hands out copies; changes only take effect through Update.
type Store struct {
	needs map[string]*Need
	order []string
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{needs: make(map[string]*Need)}
}

// Add registers a need.
func (s *Store) Add(n *Need) error {
	if n == nil || n.ID == "" {
		return fmt.Errorf("need must have an id")
	}
	if _, ok := s.needs[n.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNeed, n.ID)
	}
	s.needs[n.ID] = n.Clone()
	s.order = append(s.order, n.ID)
	return nil
}

// Remove unregisters a need.
func (s *Store) Remove(id string) error {
	if _, ok := s.needs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNeedNotFound, id)
	}
	delete(s.needs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns a copy of the need with the given id.
func (s *Store) Get(id string) (*Need, bool) {
	n, ok := s.needs[id]
	if !ok {
		return nil, false
	}
	return n.Clone(), true
}

// Has reports whether a need with the given id is registered.
func (s *Store) Has(id string) bool {
	_, ok := s.needs[id]
	return ok
}

// Update mutates a copy of the need, then removes the old entry and registers the copy,
// so a failing mutation leaves the store untouched.
func (s *Store) Update(id string, mutate func(*Need) error) error {
	current, ok := s.needs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNeedNotFound, id)
	}

	updated := current.Clone()
	if err := mutate(updated); err != nil {
		return fmt.Errorf("failed to update need %s: %w", id, err)
	}
	updated.ID = id

	if err := s.Remove(id); err != nil {
		return err
	}
	return s.Add(updated)
}

// IDs returns the registered ids in registration order.
func (s *Store) IDs() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of registered needs.
func (s *Store) Len() int {
	return len(s.needs)
}
