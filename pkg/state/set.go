package state

import "slices"

// Set is an insertion-ordered set of strings. It serializes as a JSON array.
type Set []string

func (s Set) Has(v string) bool {
	return slices.Contains(s, v)
}

// Add appends v if absent and reports whether it was added.
func (s *Set) Add(v string) bool {
	if s.Has(v) {
		return false
	}
	*s = append(*s, v)
	return true
}

// Union adds every value and returns how many were new.
func (s *Set) Union(values ...string) int {
	n := 0
	for _, v := range values {
		if s.Add(v) {
			n++
		}
	}
	return n
}

// Remove deletes v and reports whether it was present.
func (s *Set) Remove(v string) bool {
	i := slices.Index(*s, v)
	if i < 0 {
		return false
	}
	*s = slices.Delete(*s, i, i+1)
	return true
}

// ContainsAll reports whether every value is in the set.
func (s Set) ContainsAll(values []string) bool {
	for _, v := range values {
		if !s.Has(v) {
			return false
		}
	}
	return true
}
