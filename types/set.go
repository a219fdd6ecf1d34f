package types

import (
	"fmt"
	"sync"

	"github.com/goccy/go-json"
)

// Set is an insertion-ordered generic set; safe for concurrent use.
type Set[T comparable] struct {
	mu       sync.RWMutex
	exists   map[T]int
	elements []T
}

func NewSet[T comparable](elements ...T) *Set[T] {
	set := &Set[T]{
		exists:   make(map[T]int),
		elements: []T{},
	}
	set.Insert(elements...)
	return set
}

func (s *Set[T]) Insert(elements ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, element := range elements {
		if _, found := s.exists[element]; found {
			continue
		}
		s.exists[element] = len(s.elements)
		s.elements = append(s.elements, element)
	}
}

func (s *Set[T]) Exists(element T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, found := s.exists[element]
	return found
}

func (s *Set[T]) Remove(element T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, found := s.exists[element]
	if !found {
		return
	}

	s.elements = append(s.elements[:idx], s.elements[idx+1:]...)
	delete(s.exists, element)
	for i := idx; i < len(s.elements); i++ {
		s.exists[s.elements[i]] = i
	}
}

func (s *Set[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.elements)
}

// Array returns a copy of the set elements in insertion order
func (s *Set[T]) Array() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.elements))
	copy(out, s.elements)
	return out
}

func (s *Set[T]) Range(f func(element T) bool) {
	for _, element := range s.Array() {
		if !f(element) {
			return
		}
	}
}

// Difference returns elements of s missing from other
func (s *Set[T]) Difference(other *Set[T]) *Set[T] {
	diff := NewSet[T]()
	s.Range(func(element T) bool {
		if !other.Exists(element) {
			diff.Insert(element)
		}
		return true
	})
	return diff
}

// ProperSubsetOf reports whether other misses at least one element of s
func (s *Set[T]) ProperSubsetOf(other *Set[T]) bool {
	return s.Difference(other).Len() > 0
}

func (s *Set[T]) String() string {
	return fmt.Sprintf("%v", s.Array())
}

func (s *Set[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Array())
}

func (s *Set[T]) UnmarshalJSON(data []byte) error {
	var elements []T
	if err := json.Unmarshal(data, &elements); err != nil {
		return err
	}

	s.mu.Lock()
	s.exists = make(map[T]int)
	s.elements = []T{}
	s.mu.Unlock()

	s.Insert(elements...)
	return nil
}
