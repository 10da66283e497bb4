package params

import "strconv"

// Store holds the parameters of a resolved request. Parameters are either
// positional (integer-keyed, in the order they appeared in the URL path) or
// named (string-keyed, from query parameters and named route placeholders).
//
// Named keys keep their insertion order so that a URL rebuilt from a Store
// is deterministic.
type Store struct {
	positional []string
	named      map[string]string
	order      []string
}

// New creates an empty Store.
func New() *Store {
	return &Store{named: make(map[string]string)}
}

// Append adds a positional parameter at the next free position.
func (s *Store) Append(value string) {
	s.positional = append(s.positional, value)
}

// Set stores a named parameter. Setting a key that already exists overwrites
// the value but keeps the original position in the key order.
func (s *Store) Set(name, value string) {
	if s.named == nil {
		s.named = make(map[string]string)
	}
	if _, ok := s.named[name]; !ok {
		s.order = append(s.order, name)
	}
	s.named[name] = value
}

// Get returns the named parameter value. Absent keys and empty-string values
// both report ok=false: an empty value is treated as "not set".
func (s *Store) Get(name string) (string, bool) {
	v, ok := s.named[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// GetInt returns the named parameter parsed as an integer.
func (s *Store) GetInt(name string) (int, bool) {
	v, ok := s.Get(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// At returns the positional parameter at index i, or ok=false when the index
// is out of range or the value is empty.
func (s *Store) At(i int) (string, bool) {
	if i < 0 || i >= len(s.positional) {
		return "", false
	}
	if s.positional[i] == "" {
		return "", false
	}
	return s.positional[i], true
}

// Positional returns the positional parameters in order.
func (s *Store) Positional() []string {
	return s.positional
}

// Names returns the named keys in insertion order.
func (s *Store) Names() []string {
	return s.order
}

// Len reports the total number of stored parameters.
func (s *Store) Len() int {
	return len(s.positional) + len(s.order)
}

// Equal reports whether two stores hold the same parameters in the same order.
func (s *Store) Equal(other *Store) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.positional) != len(other.positional) || len(s.order) != len(other.order) {
		return false
	}
	for i, v := range s.positional {
		if other.positional[i] != v {
			return false
		}
	}
	for i, name := range s.order {
		if other.order[i] != name || s.named[name] != other.named[name] {
			return false
		}
	}
	return true
}
